package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/apigen/internal/config"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long:  `Write .apigen/config.yaml with the default paths, namespaces and generator order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			dir, err := projectDir()
			if err != nil {
				return err
			}

			path := config.Path(dir)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg, err := config.Default()
			if err != nil {
				return err
			}
			if err := config.Save(dir, cfg); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Configuration written to %s\n", path)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, `  apigen generate Post --fields "title:string,content:text"`)
			fmt.Fprintln(out, "  apigen history")

			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing configuration")

	return cmd
}
