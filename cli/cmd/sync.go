package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCommand() *cobra.Command {
	var (
		autoApprove bool
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the instance onto the declared configuration",
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

			reconciler, err := buildReconciler(ctx, document.Instance, logger, true)
			if err != nil {
				return err
			}

			plan, err := reconciler.Compute(ctx, desired)
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), plan)
			if plan.Empty() || dryRun {
				return nil
			}

			if deletes := plannedDeletes(plan); len(deletes) > 0 && !autoApprove {
				approved, err := confirmDeletes(cmd, deletes)
				if err != nil {
					return err
				}
				if !approved {
					return errors.New("aborted: deletions were not approved (use --yes to skip the prompt)")
				}
			}

			report, err := reconciler.Apply(ctx, desired)
			if report != nil && len(report.Results) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Applied:")
				printReport(cmd.OutOrStdout(), report)
			}
			if err != nil {
				return err
			}
			if report.Failed() {
				return errors.New("sync finished with failures")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sync complete.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&autoApprove, "yes", false, "Apply without prompting for delete confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute and print the plan without applying it")
	return cmd
}
