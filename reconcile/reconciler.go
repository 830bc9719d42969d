// Package reconcile drives declared desired state onto a live remote
// instance: validate, plan, apply in dependency order, verify.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/declarr/declarr/diff"
	"github.com/declarr/declarr/faults"
	"github.com/declarr/declarr/resource"
	"github.com/declarr/declarr/schema"
	"github.com/declarr/declarr/secrets"
)

// RemoteAccessor is the surface the reconciler needs from a remote instance.
// Implementations translate between the local schema representation and the
// wire payloads; the reconciler itself never sees wire formats.
type RemoteAccessor interface {
	// Ping verifies the instance is reachable and the credentials work.
	Ping(ctx context.Context) error
	// List fetches every record of a category, translated into the local
	// representation. The reference table carries tag and profile IDs
	// resolved earlier in the run.
	List(ctx context.Context, spec schema.CategorySpec, refs resource.RefTable) ([]resource.Remote, error)
	Create(ctx context.Context, spec schema.CategorySpec, definition resource.Definition, refs resource.RefTable) (resource.Remote, error)
	Update(ctx context.Context, spec schema.CategorySpec, update diff.Update, refs resource.RefTable) (resource.Remote, error)
	Delete(ctx context.Context, spec schema.CategorySpec, record resource.Remote) error
}

// DesiredState is the full declared configuration, one collection per
// category. Absent categories are left untouched on the remote.
type DesiredState map[schema.Category]resource.Collection

// Plan is the computed change plan across all categories, in apply order.
type Plan struct {
	Categories []diff.ChangeSet
}

func (p *Plan) Empty() bool {
	for _, changeSet := range p.Categories {
		if !changeSet.Empty() {
			return false
		}
	}
	return true
}

type Reconciler struct {
	accessor RemoteAccessor
	logger   zerolog.Logger
	verify   bool
}

type Option func(*Reconciler)

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// WithVerify controls the post-apply convergence check: each category is
// listed and diffed again, and residual drift becomes a report warning.
func WithVerify(verify bool) Option {
	return func(r *Reconciler) {
		r.verify = verify
	}
}

func New(accessor RemoteAccessor, options ...Option) *Reconciler {
	reconciler := &Reconciler{
		accessor: accessor,
		logger:   zerolog.Nop(),
		verify:   true,
	}
	for _, option := range options {
		option(reconciler)
	}
	return reconciler
}

// Validate checks every declared collection against its category schema.
// Violations across all categories are aggregated; any violation means no
// remote call is made.
func Validate(desired DesiredState) error {
	var errs []error
	for _, spec := range schema.All() {
		collection, declared := desired[spec.Category]
		if !declared {
			continue
		}
		if err := schema.Validate(spec, collection); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Compute builds the change plan without mutating the remote.
func (r *Reconciler) Compute(ctx context.Context, desired DesiredState) (*Plan, error) {
	if err := Validate(desired); err != nil {
		return nil, err
	}
	if err := r.accessor.Ping(ctx); err != nil {
		return nil, err
	}

	plan := &Plan{}
	refs := emptyRefs()
	for _, spec := range schema.All() {
		collection, declared := desired[spec.Category]
		if !r.categoryNeeded(spec, collection, declared) {
			continue
		}

		remote, err := r.accessor.List(ctx, spec, refs)
		if err != nil {
			return nil, err
		}
		seedRefs(spec, remote, refs)

		if !declared {
			continue
		}
		plan.Categories = append(plan.Categories, diff.Compute(spec, collection, remote))
	}
	return plan, nil
}

// Apply reconciles the remote onto the desired state. Per-record remote
// failures are recorded and siblings continue; records referencing a failed
// dependency are skipped with a reference error. Connectivity and
// authentication failures abort the run.
func (r *Reconciler) Apply(ctx context.Context, desired DesiredState) (*Report, error) {
	if err := Validate(desired); err != nil {
		return nil, err
	}
	if err := r.accessor.Ping(ctx); err != nil {
		return nil, err
	}

	report := newReport()
	defer report.finish()
	refs := emptyRefs()
	failed := newFailedRefs()

	r.logger.Info().Str("run_id", report.RunID).Msg("reconciliation started")

	for _, spec := range schema.All() {
		collection, declared := desired[spec.Category]
		if !r.categoryNeeded(spec, collection, declared) {
			continue
		}

		remote, err := r.accessor.List(ctx, spec, refs)
		if err != nil {
			if fatal(err) {
				return report, err
			}
			report.record(spec.Category, "*", OperationList, OutcomeFailed, err)
			failed.category(spec.Category)
			continue
		}
		seedRefs(spec, remote, refs)

		if !declared {
			continue
		}

		changeSet := diff.Compute(spec, collection, remote)
		if changeSet.Empty() {
			r.logger.Debug().Str("category", string(spec.Category)).Msg("converged, nothing to do")
			continue
		}
		if err := r.applyCategory(ctx, spec, changeSet, refs, failed, report); err != nil {
			return report, err
		}
	}

	if r.verify && !report.Failed() {
		r.verifyConverged(ctx, desired, report)
	}

	r.logger.Info().
		Str("run_id", report.RunID).
		Int("operations", len(report.Results)).
		Bool("failed", report.Failed()).
		Msg("reconciliation finished")
	return report, nil
}

// applyCategory runs one category's plan: type-change deletes first because
// the replacement create reuses the old record's name and the remote enforces
// name uniqueness within a category, then creates so new records can be
// referenced, then updates, then unmanaged deletes.
func (r *Reconciler) applyCategory(
	ctx context.Context,
	spec schema.CategorySpec,
	changeSet diff.ChangeSet,
	refs resource.RefTable,
	failed *failedRefs,
	report *Report,
) error {
	for _, remove := range changeSet.Deletes {
		if remove.Reason != diff.TypeChanged {
			continue
		}
		if err := r.applyDelete(ctx, spec, remove, refs, report); err != nil {
			return err
		}
	}

	for _, create := range changeSet.Creates {
		if err := r.checkRefs(spec, create.Definition, refs, failed); err != nil {
			report.record(spec.Category, create.Definition.Name, OperationCreate, OutcomeSkipped, err)
			failed.mark(spec.Category, create.Definition.Name)
			continue
		}
		record, err := r.accessor.Create(ctx, spec, create.Definition, refs)
		if err != nil {
			if fatal(err) {
				return err
			}
			r.logger.Error().Err(err).
				Str("category", string(spec.Category)).
				Str("name", create.Definition.Name).
				Msg("create failed")
			report.record(spec.Category, create.Definition.Name, OperationCreate, OutcomeFailed, err)
			failed.mark(spec.Category, create.Definition.Name)
			continue
		}
		registerRef(spec, record, refs)
		report.record(spec.Category, create.Definition.Name, OperationCreate, OutcomeSuccess, nil)
	}

	for _, update := range changeSet.Updates {
		for _, change := range update.Changes {
			r.logger.Info().Msgf("settings.%s.definitions[%q].%s: %v -> %v",
				spec.Category, update.Desired.Name, change.Field, change.Before, change.After)
		}
		if err := r.checkRefs(spec, update.Desired, refs, failed); err != nil {
			report.record(spec.Category, update.Desired.Name, OperationUpdate, OutcomeSkipped, err)
			failed.mark(spec.Category, update.Desired.Name)
			continue
		}
		if _, err := r.accessor.Update(ctx, spec, update, refs); err != nil {
			if fatal(err) {
				return err
			}
			r.logger.Error().Err(err).
				Str("category", string(spec.Category)).
				Str("name", update.Desired.Name).
				Msg("update failed")
			report.record(spec.Category, update.Desired.Name, OperationUpdate, OutcomeFailed, err)
			failed.mark(spec.Category, update.Desired.Name)
			continue
		}
		report.record(spec.Category, update.Desired.Name, OperationUpdate, OutcomeSuccess, nil)
	}

	for _, remove := range changeSet.Deletes {
		if remove.Reason == diff.TypeChanged {
			continue
		}
		if err := r.applyDelete(ctx, spec, remove, refs, report); err != nil {
			return err
		}
	}

	return nil
}

func (r *Reconciler) applyDelete(
	ctx context.Context,
	spec schema.CategorySpec,
	remove diff.Delete,
	refs resource.RefTable,
	report *Report,
) error {
	if err := r.accessor.Delete(ctx, spec, remove.Remote); err != nil {
		if fatal(err) {
			return err
		}
		r.logger.Error().Err(err).
			Str("category", string(spec.Category)).
			Str("name", remove.Remote.Name).
			Msg("delete failed")
		report.record(spec.Category, remove.Remote.Name, OperationDelete, OutcomeFailed, err)
		return nil
	}
	unregisterRef(spec, remove.Remote, refs)
	report.record(spec.Category, remove.Remote.Name, OperationDelete, OutcomeSuccess, nil)
	return nil
}

// checkRefs verifies every cross-category reference a definition carries
// resolves to a live remote ID. A missing target that failed earlier in the
// run is reported as the cause.
func (r *Reconciler) checkRefs(
	spec schema.CategorySpec,
	definition resource.Definition,
	refs resource.RefTable,
	failed *failedRefs,
) error {
	for _, tag := range definition.Tags {
		if _, found := refs.Tags[tag]; found {
			continue
		}
		if failed.has(schema.Tags, tag) {
			return faults.NewTypedError(faults.ReferenceError,
				fmt.Sprintf("%s %q references tag %q which failed to apply", spec.Category, definition.Name, tag), nil)
		}
		return faults.NewTypedError(faults.ReferenceError,
			fmt.Sprintf("%s %q references tag %q which does not exist", spec.Category, definition.Name, tag), nil)
	}

	fields, _ := spec.FieldSpecs(definition.Type)
	for _, field := range fields {
		if field.Kind != schema.ProfileRef {
			continue
		}
		value, declared := definition.Attrs[field.Name]
		if !declared || value == nil {
			continue
		}
		profile, _ := value.(string)
		if _, found := refs.SyncProfiles[profile]; found {
			continue
		}
		if failed.has(schema.SyncProfiles, profile) {
			return faults.NewTypedError(faults.ReferenceError,
				fmt.Sprintf("%s %q references sync profile %q which failed to apply", spec.Category, definition.Name, profile), nil)
		}
		return faults.NewTypedError(faults.ReferenceError,
			fmt.Sprintf("%s %q references sync profile %q which does not exist", spec.Category, definition.Name, profile), nil)
	}

	return nil
}

func (r *Reconciler) verifyConverged(ctx context.Context, desired DesiredState, report *Report) {
	refs := emptyRefs()
	for _, spec := range schema.All() {
		collection, declared := desired[spec.Category]
		if !r.categoryNeeded(spec, collection, declared) {
			continue
		}
		remote, err := r.accessor.List(ctx, spec, refs)
		if err != nil {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s: convergence check failed: %v", spec.Category, err))
			continue
		}
		seedRefs(spec, remote, refs)
		if !declared {
			continue
		}
		if changeSet := diff.Compute(spec, collection, remote); !changeSet.Empty() {
			creates, updates, deletes := changeSet.Counts()
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"%s: still drifting after apply (%d to create, %d to update, %d to delete)",
				spec.Category, creates, updates, deletes))
		}
	}
}

// Export reads the remote state into desired-state shape. Secret values come
// back obfuscated from the remote and are masked again on the way out, so an
// export never contains live credentials.
func (r *Reconciler) Export(ctx context.Context) (DesiredState, error) {
	if err := r.accessor.Ping(ctx); err != nil {
		return nil, err
	}

	exported := make(DesiredState, len(schema.ApplyOrder))
	refs := emptyRefs()
	for _, spec := range schema.All() {
		remote, err := r.accessor.List(ctx, spec, refs)
		if err != nil {
			return nil, err
		}
		seedRefs(spec, remote, refs)

		collection := resource.Collection{Definitions: make(map[string]resource.Definition, len(remote))}
		for _, record := range remote {
			collection.Definitions[record.Name] = maskSecrets(spec, record.Definition)
		}
		exported[spec.Category] = collection
	}
	return exported, nil
}

func maskSecrets(spec schema.CategorySpec, definition resource.Definition) resource.Definition {
	definition.Attrs = cloneValues(definition.Attrs)
	definition.Secrets = cloneValues(definition.Secrets)

	fields, _ := spec.FieldSpecs(definition.Type)
	for _, field := range fields {
		if field.Kind != schema.Secret {
			continue
		}
		if value, found := definition.Attrs[field.Name]; found && value != nil && value != "" {
			definition.Attrs[field.Name] = secrets.Mask()
		}
	}
	for key, value := range definition.Secrets {
		if value != nil && value != "" {
			definition.Secrets[key] = secrets.Mask()
		}
	}
	return definition
}

func cloneValues(in map[string]resource.Value) map[string]resource.Value {
	if in == nil {
		return nil
	}
	out := make(map[string]resource.Value, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

// categoryNeeded reports whether a category must be visited at all. Tag and
// profile categories are always listed: later categories need their IDs even
// when nothing declares them.
func (r *Reconciler) categoryNeeded(spec schema.CategorySpec, collection resource.Collection, declared bool) bool {
	if spec.Category == schema.Tags || spec.Category == schema.SyncProfiles {
		return true
	}
	if !declared {
		return false
	}
	return len(collection.Definitions) > 0 || collection.DeleteUnmanaged
}

func emptyRefs() resource.RefTable {
	return resource.RefTable{
		Tags:         make(map[string]int64),
		SyncProfiles: make(map[string]int64),
	}
}

func seedRefs(spec schema.CategorySpec, remote []resource.Remote, refs resource.RefTable) {
	for _, record := range remote {
		registerRef(spec, record, refs)
	}
}

func registerRef(spec schema.CategorySpec, record resource.Remote, refs resource.RefTable) {
	switch spec.Category {
	case schema.Tags:
		refs.Tags[record.Name] = record.ID
	case schema.SyncProfiles:
		refs.SyncProfiles[record.Name] = record.ID
	}
}

func unregisterRef(spec schema.CategorySpec, record resource.Remote, refs resource.RefTable) {
	switch spec.Category {
	case schema.Tags:
		delete(refs.Tags, record.Name)
	case schema.SyncProfiles:
		delete(refs.SyncProfiles, record.Name)
	}
}

// fatal reports whether an error must abort the run rather than be recorded
// against a single record.
func fatal(err error) bool {
	return faults.IsCategory(err, faults.ConnectivityError) ||
		faults.IsCategory(err, faults.AuthError)
}

type failedRefs struct {
	records    map[schema.Category]map[string]bool
	categories map[schema.Category]bool
}

func newFailedRefs() *failedRefs {
	return &failedRefs{
		records:    make(map[schema.Category]map[string]bool),
		categories: make(map[schema.Category]bool),
	}
}

func (f *failedRefs) mark(category schema.Category, name string) {
	if f.records[category] == nil {
		f.records[category] = make(map[string]bool)
	}
	f.records[category][name] = true
}

func (f *failedRefs) category(category schema.Category) {
	f.categories[category] = true
}

func (f *failedRefs) has(category schema.Category, name string) bool {
	return f.categories[category] || f.records[category][name]
}
