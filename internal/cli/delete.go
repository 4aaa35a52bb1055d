package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// DeleteCmd returns the delete command
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete the generated API of an entity",
		Long: `Delete every file generated for an entity and remove its route and policy mapping.
Without a name, every class in the JSON file is deleted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			jsonPath, _ := cmd.Flags().GetString("json")

			c, err := openContainer()
			if err != nil {
				return err
			}
			defer c.Close()
			adapter := c.Adapter(cmd.OutOrStdout())

			if len(args) == 1 {
				return adapter.Delete(ctx, args[0])
			}

			data, err := readInput(c, jsonPath)
			if err != nil {
				return fmt.Errorf("failed to read class data: %w", err)
			}
			return adapter.DeleteJSON(ctx, data)
		},
	}

	cmd.Flags().String("json", "", "Path to a JSON class description file")

	return cmd
}
