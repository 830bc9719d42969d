package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/declarr/declarr/reconcile"
)

func newCheckCommand() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration document and the instance connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			document, err := loadDocument(ctx, cmd)
			if err != nil {
				return err
			}
			desired, err := document.DesiredState()
			if err != nil {
				return err
			}
			if err := reconcile.Validate(desired); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid.")
			if offline {
				return nil
			}

			logger := buildLogger(cmd)
			client, err := buildClient(ctx, document.Instance, logger)
			if err != nil {
				return err
			}
			if err := client.Ping(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Instance %s is reachable and the API key works.\n", document.Instance.HostURL())
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the instance connection check")
	return cmd
}
