package reconcile

import (
	"time"

	"github.com/google/uuid"

	"github.com/declarr/declarr/schema"
)

// Operation names one remote mutation kind.
type Operation string

const (
	OperationList   Operation = "list"
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Outcome is the terminal state of one planned operation.
type Outcome string

const (
	// OutcomeSuccess means the remote accepted the operation.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailed means the remote rejected the operation; siblings still
	// ran.
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped means the operation never reached the remote, usually
	// because a record it references failed earlier in the run.
	OutcomeSkipped Outcome = "skipped"
)

// RecordResult is the outcome of one planned operation on one record.
type RecordResult struct {
	Category  schema.Category
	Name      string
	Operation Operation
	Outcome   Outcome
	Err       error
}

// Report is the full account of one reconciliation run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []RecordResult
	// Warnings collects post-apply convergence findings: categories that
	// still drift after a successful pass.
	Warnings []string
}

func newReport() *Report {
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

func (r *Report) record(category schema.Category, name string, operation Operation, outcome Outcome, err error) {
	r.Results = append(r.Results, RecordResult{
		Category:  category,
		Name:      name,
		Operation: operation,
		Outcome:   outcome,
		Err:       err,
	})
}

// Failed reports whether any operation failed or was skipped.
func (r *Report) Failed() bool {
	for _, result := range r.Results {
		if result.Outcome != OutcomeSuccess {
			return true
		}
	}
	return false
}

// Changed reports whether any operation reached the remote successfully.
func (r *Report) Changed() bool {
	for _, result := range r.Results {
		if result.Outcome == OutcomeSuccess {
			return true
		}
	}
	return false
}

func (r *Report) finish() {
	r.FinishedAt = time.Now().UTC()
}
