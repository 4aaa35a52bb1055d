package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [name]",
		Short: "List recorded generation runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity := ""
			if len(args) == 1 {
				entity = args[0]
			}

			c, err := openContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			return c.Adapter(cmd.OutOrStdout()).History(context.Background(), entity)
		},
	}
}
