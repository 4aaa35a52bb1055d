package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/apigen/internal/cli"
	"github.com/example/apigen/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "apigen",
		Short:   "apigen - CRUD API scaffolding for Laravel projects",
		Version: version.String(),
		Long: `apigen generates the model, migration, service, policy, resource, request, DTO,
seeder, factory and controller of an entity from a field list or a JSON class description,
and merges its changes into existing files so it can be re-run safely.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.AddGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.GenerateCmd())
	rootCmd.AddCommand(cli.DeleteCmd())
	rootCmd.AddCommand(cli.HistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
