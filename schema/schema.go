package schema

import (
	"strings"

	"github.com/declarr/declarr/resource"
)

// Category identifies one reconciled resource collection on the remote
// instance.
type Category string

const (
	Tags            Category = "tags"
	General         Category = "general"
	UI              Category = "ui"
	SyncProfiles    Category = "sync_profiles"
	Proxies         Category = "proxies"
	DownloadClients Category = "download_clients"
	Notifications   Category = "notifications"
	Applications    Category = "applications"
	Indexers        Category = "indexers"
)

// ApplyOrder is the fixed cross-category reconciliation order. The reference
// graph is static and shallow: tags precede every tag consumer, sync profiles
// and proxies precede indexers, applications follow tags. The order is
// declared rather than computed because forward-only references are the only
// shape this domain produces.
var ApplyOrder = []Category{
	Tags,
	General,
	UI,
	SyncProfiles,
	Proxies,
	DownloadClients,
	Notifications,
	Applications,
	Indexers,
}

// Kind describes how a field is typed, compared, and encoded.
type Kind int

const (
	Bool Kind = iota
	Int
	Float
	String
	// Secret fields may come back from the remote as an obfuscated
	// placeholder; comparison and validation treat placeholders specially.
	Secret
	// Enum fields hold a declared option name locally and a raw value
	// remotely, mapped through FieldSpec.Enum.
	Enum
	// EnumSet fields hold a set of option names resolved against the remote
	// type schema's select options (e.g. sync categories).
	EnumSet
	// StringSet fields are lists with set semantics: order-insensitive,
	// duplicates ignored.
	StringSet
	// StringList fields are lists whose order is meaningful.
	StringList
	// Mapping fields are objects whose values are compared with set
	// semantics (e.g. download client category mappings).
	Mapping
	// TagSet fields reference tags by name, encoded remotely as tag IDs.
	TagSet
	// ProfileRef fields reference an app sync profile by name, encoded
	// remotely as the profile ID.
	ProfileRef
)

// FieldSpec declares one attribute of a resource type.
type FieldSpec struct {
	Name     string
	APIName  string
	Kind     Kind
	IsField  bool // lives in the remote "fields" array, not a top-level attribute
	Required bool
	Default  resource.Value

	// Enum maps local option names to raw remote values for Kind == Enum.
	Enum map[string]resource.Value

	MinInt   int64
	MaxInt   int64
	HasRange bool

	// MinLength applies to user-supplied Secret values. Placeholder-shaped
	// values read from the remote are exempt.
	MinLength int
}

// TypeSpec declares the field subset selected by one discriminator value.
type TypeSpec struct {
	Value          string
	Aliases        []string
	Implementation string
	Fields         []FieldSpec
}

func (t TypeSpec) Matches(value string) bool {
	if strings.EqualFold(t.Value, value) {
		return true
	}
	for _, alias := range t.Aliases {
		if strings.EqualFold(alias, value) {
			return true
		}
	}
	return false
}

// CategorySpec declares one resource category: its API surface, identity and
// discriminator keys, and field schemas.
type CategorySpec struct {
	Category       Category
	Endpoint       string
	SchemaEndpoint string

	// Singleton categories hold exactly one remote record and only support
	// updates (UI and general settings).
	Singleton     bool
	SingletonName string

	// NameKey is the remote attribute carrying record identity.
	NameKey string
	// TypeKey is the remote attribute carrying the type discriminator; empty
	// for untyped categories.
	TypeKey string

	Common []FieldSpec
	Types  []TypeSpec

	// OpenFields categories accept provider fields beyond the declared
	// schema (indexer definitions are schema-driven on the remote side).
	OpenFields bool

	// NoDelete categories never delete remote records: Prowlarr garbage
	// collects unused tags on its own.
	NoDelete bool
}

func (c CategorySpec) Typed() bool {
	return c.TypeKey != ""
}

func (c CategorySpec) TypeSpec(value string) (TypeSpec, bool) {
	for _, typeSpec := range c.Types {
		if typeSpec.Matches(value) {
			return typeSpec, true
		}
	}
	return TypeSpec{}, false
}

func (c CategorySpec) TypeByImplementation(implementation string) (TypeSpec, bool) {
	for _, typeSpec := range c.Types {
		if strings.EqualFold(typeSpec.Implementation, implementation) {
			return typeSpec, true
		}
	}
	return TypeSpec{}, false
}

// FieldSpecs returns the declared fields for a definition of the given type:
// the category's common fields plus the type-specific subset. Unknown types
// on open-field categories resolve to the common fields only.
func (c CategorySpec) FieldSpecs(typeValue string) ([]FieldSpec, bool) {
	if !c.Typed() || typeValue == "" {
		return c.Common, true
	}
	typeSpec, found := c.TypeSpec(typeValue)
	if !found {
		if c.OpenFields {
			return c.Common, true
		}
		return nil, false
	}

	fields := make([]FieldSpec, 0, len(c.Common)+len(typeSpec.Fields))
	fields = append(fields, c.Common...)
	fields = append(fields, typeSpec.Fields...)
	return fields, true
}

func (c CategorySpec) Field(typeValue string, name string) (FieldSpec, bool) {
	fields, ok := c.FieldSpecs(typeValue)
	if !ok {
		return FieldSpec{}, false
	}
	for _, field := range fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldSpec{}, false
}

var registry = func() map[Category]CategorySpec {
	specs := []CategorySpec{
		tagsSpec(),
		generalSpec(),
		uiSpec(),
		syncProfilesSpec(),
		proxiesSpec(),
		downloadClientsSpec(),
		notificationsSpec(),
		applicationsSpec(),
		indexersSpec(),
	}

	byCategory := make(map[Category]CategorySpec, len(specs))
	for _, spec := range specs {
		byCategory[spec.Category] = spec
	}
	return byCategory
}()

func Lookup(category Category) (CategorySpec, bool) {
	spec, found := registry[category]
	return spec, found
}

// All returns every category spec in apply order.
func All() []CategorySpec {
	specs := make([]CategorySpec, 0, len(ApplyOrder))
	for _, category := range ApplyOrder {
		specs = append(specs, registry[category])
	}
	return specs
}
