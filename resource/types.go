package resource

type Value = any

// Definition is one named, typed record of a category in desired state.
// Attrs holds schema-declared attributes keyed by local field name. Fields
// and Secrets hold provider-specific values keyed by remote field name, for
// categories whose field set is open (e.g. indexers).
type Definition struct {
	Name    string
	Type    string
	Attrs   map[string]Value
	Fields  map[string]Value
	Secrets map[string]Value
	Tags    []string
}

// Collection is the full desired state for one category.
type Collection struct {
	DeleteUnmanaged bool
	Definitions     map[string]Definition
}

// Remote is a record fetched from the live instance, translated into the
// local schema representation. Raw carries the untouched remote payload so
// attributes outside the declared schema survive updates verbatim.
type Remote struct {
	ID int64
	Definition
	Raw map[string]Value
}

// RefTable maps cross-reference target names to their remote IDs.
type RefTable struct {
	Tags         map[string]int64
	SyncProfiles map[string]int64
}

func (r RefTable) Clone() RefTable {
	return RefTable{
		Tags:         cloneIDMap(r.Tags),
		SyncProfiles: cloneIDMap(r.SyncProfiles),
	}
}

func cloneIDMap(in map[string]int64) map[string]int64 {
	if in == nil {
		return nil
	}
	out := make(map[string]int64, len(in))
	for name, id := range in {
		out[name] = id
	}
	return out
}

func (d Definition) AttrOr(name string, fallback Value) Value {
	if d.Attrs == nil {
		return fallback
	}
	value, found := d.Attrs[name]
	if !found {
		return fallback
	}
	return value
}

func (c Collection) Names() []string {
	names := make([]string, 0, len(c.Definitions))
	for name := range c.Definitions {
		names = append(names, name)
	}
	return names
}
