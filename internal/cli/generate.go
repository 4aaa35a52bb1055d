package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/apigen/internal/apperrors"
	"github.com/example/apigen/internal/scaffold"
)

// GenerateCmd returns the generate command
func GenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [name]",
		Short: "Generate a complete CRUD API for an entity",
		Long: `Generate the model, migration, service, policy, resource, request, DTO, seeder,
factory and controller of an entity, and register its route.

With a name, fields come from --fields:
  apigen generate Post --fields "title:string,content:text,published:boolean"

Without a name, every class in the JSON file is generated (--json, or input.json_file
from the configuration).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			fields, _ := cmd.Flags().GetString("fields")
			jsonPath, _ := cmd.Flags().GetString("json")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			if len(args) == 1 && fields == "" {
				return apperrors.Validation("the --fields option is required when a name is given")
			}
			if len(args) == 0 && fields != "" {
				return apperrors.Validation("--fields needs an entity name")
			}

			c, err := openContainer()
			if err != nil {
				return err
			}
			defer c.Close()
			adapter := c.Adapter(cmd.OutOrStdout())

			if len(args) == 1 {
				entity, err := scaffold.BuildEntity(args[0], fields)
				if err != nil {
					return err
				}
				if dryRun {
					return adapter.Plan(ctx, entity)
				}
				return adapter.Generate(ctx, entity)
			}

			data, err := readInput(c, jsonPath)
			if err != nil {
				return fmt.Errorf("failed to read class data: %w", err)
			}
			if dryRun {
				entities, err := scaffold.NewJSONParser().ParseJSONToEntities(data)
				if err != nil {
					return err
				}
				return adapter.Plan(ctx, entities...)
			}
			return adapter.GenerateJSON(ctx, data)
		},
	}

	cmd.Flags().StringP("fields", "f", "", "Comma-separated name:type pairs")
	cmd.Flags().String("json", "", "Path to a JSON class description file")
	cmd.Flags().Bool("dry-run", false, "List the files that would be written")

	return cmd
}
