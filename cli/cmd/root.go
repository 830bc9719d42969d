package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = newRootCommand()

func Execute() error {
	return rootCmd.Execute()
}

func NewRootCommand() *cobra.Command {
	return newRootCommand()
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "declarr",
		Short: "Keep a Prowlarr instance in sync with declared configuration",
		Long: `Declarr reads a declarative configuration document and reconciles a running
Prowlarr instance onto it: indexers, applications, download clients,
notifications, proxies, profiles, tags, and instance settings.

Records present remotely but not declared are left alone unless a category
opts into delete_unmanaged.`,
		Example: `  # Show what would change without touching the instance
  declarr diff -c declarr.yml

  # Apply the declared configuration
  declarr sync -c declarr.yml

  # Dump the current remote configuration in declarable form
  declarr export -c declarr.yml`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringP("config", "c", "declarr.yml", "Path to the configuration document")
	cmd.PersistentFlags().String("config-repo", "", "Git repository URL to load the configuration from")
	cmd.PersistentFlags().String("config-branch", "main", "Branch to use with --config-repo")
	cmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON instead of the console format")

	cmd.AddCommand(newSyncCommand())
	cmd.AddCommand(newDiffCommand())
	cmd.AddCommand(newExportCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}
