// Package diff computes the minimal set of remote operations that converge a
// category's live records onto its declared desired state.
package diff

import (
	"sort"

	"github.com/declarr/declarr/resource"
	"github.com/declarr/declarr/schema"
)

// FieldChange records one attribute drifting between desired and remote.
// Secret values are masked on both sides.
type FieldChange struct {
	Field  string
	Before resource.Value
	After  resource.Value
}

// Create is a desired definition with no remote counterpart.
type Create struct {
	Definition resource.Definition
}

// Update pairs a drifted remote record with the definition that should
// replace its managed attributes. Unmanaged remote attributes ride along
// untouched through Remote.Raw.
type Update struct {
	Remote  resource.Remote
	Desired resource.Definition
	Changes []FieldChange
}

// DeleteReason explains why a remote record is scheduled for removal.
type DeleteReason string

const (
	// Unmanaged records exist remotely but are not declared, and the
	// collection opted into deleting them.
	Unmanaged DeleteReason = "unmanaged"
	// TypeChanged records cannot be converted in place: the remote API
	// rejects discriminator changes, so the record is recreated.
	TypeChanged DeleteReason = "type changed"
)

type Delete struct {
	Remote resource.Remote
	Reason DeleteReason
}

// ChangeSet is the full plan for one category. Creates, updates and deletes
// are each sorted by record name so plans are stable across runs.
type ChangeSet struct {
	Category schema.Category
	Creates  []Create
	Updates  []Update
	Deletes  []Delete
}

func (c ChangeSet) Empty() bool {
	return len(c.Creates) == 0 && len(c.Updates) == 0 && len(c.Deletes) == 0
}

func (c ChangeSet) Counts() (creates int, updates int, deletes int) {
	return len(c.Creates), len(c.Updates), len(c.Deletes)
}

func (c *ChangeSet) sort() {
	sort.Slice(c.Creates, func(i, j int) bool {
		return c.Creates[i].Definition.Name < c.Creates[j].Definition.Name
	})
	sort.Slice(c.Updates, func(i, j int) bool {
		return c.Updates[i].Remote.Name < c.Updates[j].Remote.Name
	})
	sort.Slice(c.Deletes, func(i, j int) bool {
		return c.Deletes[i].Remote.Name < c.Deletes[j].Remote.Name
	})
}
