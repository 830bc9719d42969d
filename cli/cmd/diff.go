package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

func newDiffCommand() *cobra.Command {
	var exitCode bool

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show what sync would change, without applying anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := buildLogger(cmd)

			document, err := loadDocument(ctx, cmd)
			if err != nil {
				return err
			}
			desired, err := document.DesiredState()
			if err != nil {
				return err
			}

			reconciler, err := buildReconciler(ctx, document.Instance, logger, false)
			if err != nil {
				return err
			}
			plan, err := reconciler.Compute(ctx, desired)
			if err != nil {
				return err
			}

			printPlan(cmd.OutOrStdout(), plan)
			if exitCode && !plan.Empty() {
				return errors.New("the instance drifts from the declared configuration")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "Fail when the instance drifts from the declared configuration")
	return cmd
}
