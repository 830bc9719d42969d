package cmd

import (
	"fmt"
	"io"

	"github.com/declarr/declarr/reconcile"
)

func printPlan(out io.Writer, plan *reconcile.Plan) {
	if plan.Empty() {
		fmt.Fprintln(out, "No changes. The instance matches the declared configuration.")
		return
	}

	for _, changeSet := range plan.Categories {
		if changeSet.Empty() {
			continue
		}
		fmt.Fprintf(out, "%s:\n", changeSet.Category)
		for _, create := range changeSet.Creates {
			fmt.Fprintf(out, "  + create %q\n", create.Definition.Name)
		}
		for _, update := range changeSet.Updates {
			fmt.Fprintf(out, "  ~ update %q\n", update.Remote.Name)
			for _, change := range update.Changes {
				fmt.Fprintf(out, "      %s: %v -> %v\n", change.Field, renderValue(change.Before), renderValue(change.After))
			}
		}
		for _, remove := range changeSet.Deletes {
			fmt.Fprintf(out, "  - delete %q (%s)\n", remove.Remote.Name, remove.Reason)
		}
	}

	creates, updates, deletes := planCounts(plan)
	fmt.Fprintf(out, "\nPlan: %d to create, %d to update, %d to delete.\n", creates, updates, deletes)
}

func planCounts(plan *reconcile.Plan) (creates int, updates int, deletes int) {
	for _, changeSet := range plan.Categories {
		c, u, d := changeSet.Counts()
		creates += c
		updates += u
		deletes += d
	}
	return creates, updates, deletes
}

func plannedDeletes(plan *reconcile.Plan) []string {
	var names []string
	for _, changeSet := range plan.Categories {
		for _, remove := range changeSet.Deletes {
			names = append(names, fmt.Sprintf("%s/%s", changeSet.Category, remove.Remote.Name))
		}
	}
	return names
}

func renderValue(value any) string {
	if value == nil {
		return "<unset>"
	}
	return fmt.Sprintf("%v", value)
}

func printReport(out io.Writer, report *reconcile.Report) {
	for _, result := range report.Results {
		switch result.Outcome {
		case reconcile.OutcomeSuccess:
			fmt.Fprintf(out, "  %s %s/%s: ok\n", result.Operation, result.Category, result.Name)
		case reconcile.OutcomeSkipped:
			fmt.Fprintf(out, "  %s %s/%s: skipped (%v)\n", result.Operation, result.Category, result.Name, result.Err)
		default:
			fmt.Fprintf(out, "  %s %s/%s: failed (%v)\n", result.Operation, result.Category, result.Name, result.Err)
		}
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", warning)
	}
}
