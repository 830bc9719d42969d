package diff

import (
	"sort"
	"strings"

	"github.com/declarr/declarr/resource"
	"github.com/declarr/declarr/schema"
	"github.com/declarr/declarr/secrets"
)

// Compute builds the change plan for one category. Remote records and desired
// definitions are matched by name. A matched pair whose type discriminator
// differs becomes a delete plus a create: the remote API cannot convert a
// record between implementations in place.
//
// Remote records not present in desired state are left alone unless the
// collection sets delete_unmanaged. Singleton and no-delete categories never
// produce deletes.
func Compute(spec schema.CategorySpec, desired resource.Collection, remote []resource.Remote) ChangeSet {
	changeSet := ChangeSet{Category: spec.Category}

	remoteByName := make(map[string]resource.Remote, len(remote))
	for _, record := range remote {
		remoteByName[record.Name] = record
	}

	names := desired.Names()
	sort.Strings(names)

	managed := make(map[string]bool, len(names))
	for _, name := range names {
		definition := desired.Definitions[name]
		record, exists := remoteByName[matchName(remoteByName, name)]
		if !exists {
			changeSet.Creates = append(changeSet.Creates, Create{Definition: definition})
			continue
		}
		managed[record.Name] = true

		if spec.Typed() && !sameType(spec, definition.Type, record.Type) {
			changeSet.Deletes = append(changeSet.Deletes, Delete{Remote: record, Reason: TypeChanged})
			changeSet.Creates = append(changeSet.Creates, Create{Definition: definition})
			continue
		}

		changes := compare(spec, definition, record)
		if len(changes) > 0 {
			changeSet.Updates = append(changeSet.Updates, Update{
				Remote:  record,
				Desired: definition,
				Changes: changes,
			})
		}
	}

	if desired.DeleteUnmanaged && !spec.Singleton && !spec.NoDelete {
		for _, record := range remote {
			if managed[record.Name] {
				continue
			}
			changeSet.Deletes = append(changeSet.Deletes, Delete{Remote: record, Reason: Unmanaged})
		}
	}

	changeSet.sort()
	return changeSet
}

// matchName resolves a desired name against the remote index. Matching is
// exact first, then case-insensitive, so a record renamed only in case is
// updated rather than recreated.
func matchName(remoteByName map[string]resource.Remote, name string) string {
	if _, found := remoteByName[name]; found {
		return name
	}
	for remoteName := range remoteByName {
		if strings.EqualFold(remoteName, name) {
			return remoteName
		}
	}
	return name
}

func sameType(spec schema.CategorySpec, desired string, remote string) bool {
	desiredSpec, desiredFound := spec.TypeSpec(desired)
	remoteSpec, remoteFound := spec.TypeSpec(remote)
	if desiredFound && remoteFound {
		return desiredSpec.Value == remoteSpec.Value
	}
	return strings.EqualFold(desired, remote)
}

func compare(spec schema.CategorySpec, definition resource.Definition, record resource.Remote) []FieldChange {
	var changes []FieldChange

	// Name matching is case-insensitive, so a matched record can still carry
	// the name in different case. The rename is a regular update.
	if !spec.Singleton && definition.Name != record.Name {
		changes = append(changes, FieldChange{Field: "name", Before: record.Name, After: definition.Name})
	}

	fields, _ := spec.FieldSpecs(definition.Type)
	for _, field := range fields {
		if change, drifted := compareField(field, definition, record); drifted {
			changes = append(changes, change)
		}
	}

	if spec.OpenFields {
		changes = append(changes, compareOpenFields(definition, record)...)
	}

	return changes
}

func compareField(field schema.FieldSpec, definition resource.Definition, record resource.Remote) (FieldChange, bool) {
	if field.Kind == schema.TagSet {
		if resource.SetEqual(definition.Tags, record.Tags) {
			return FieldChange{}, false
		}
		return FieldChange{
			Field:  field.Name,
			Before: resource.StringSet(record.Tags),
			After:  resource.StringSet(definition.Tags),
		}, true
	}

	desired := definition.AttrOr(field.Name, field.Default)
	remote := record.AttrOr(field.Name, nil)
	if desired == nil {
		// Nothing declared and no schema default: the remote value is
		// whatever it is.
		return FieldChange{}, false
	}

	if remote == nil && resource.Equal(desired, field.Default) {
		// The remote payload omits the attribute and the desired value is
		// the schema default: nothing to converge.
		return FieldChange{}, false
	}

	if fieldEqual(field.Kind, desired, remote) {
		return FieldChange{}, false
	}

	change := FieldChange{Field: field.Name, Before: remote, After: desired}
	if field.Kind == schema.Secret {
		change.Before = secrets.Mask()
		change.After = secrets.Mask()
	}
	return change, true
}

func fieldEqual(kind schema.Kind, desired resource.Value, remote resource.Value) bool {
	switch kind {
	case schema.Secret:
		return secrets.Equal(desired, remote)
	case schema.Enum:
		return resource.EqualFold(desired, remote)
	case schema.EnumSet:
		// Decoded select-option names keep the remote's casing; declared
		// values and schema defaults are lowercase.
		return resource.SetEqualFold(desired, remote)
	case schema.StringSet:
		return resource.SetEqual(desired, remote)
	case schema.Mapping:
		return mappingEqual(desired, remote)
	case schema.ProfileRef:
		return resource.EqualFold(desired, remote)
	default:
		return resource.Equal(desired, remote)
	}
}

// mappingEqual compares mapping fields key by key, with list values compared
// as sets. Download client category mappings arrive in arbitrary order from
// the remote.
func mappingEqual(desired resource.Value, remote resource.Value) bool {
	desiredMap, okDesired := asStringMap(desired)
	remoteMap, okRemote := asStringMap(remote)
	if !okDesired || !okRemote {
		return resource.Equal(desired, remote)
	}
	if len(desiredMap) != len(remoteMap) {
		return false
	}
	for key, desiredValue := range desiredMap {
		remoteValue, found := remoteMap[key]
		if !found {
			return false
		}
		if !resource.SetEqual(desiredValue, remoteValue) {
			return false
		}
	}
	return true
}

func asStringMap(value resource.Value) (map[string]resource.Value, bool) {
	switch typed := value.(type) {
	case map[string]resource.Value:
		return typed, true
	case map[any]resource.Value:
		out := make(map[string]resource.Value, len(typed))
		for key, item := range typed {
			text, ok := key.(string)
			if !ok {
				return nil, false
			}
			out[text] = item
		}
		return out, true
	}
	return nil, false
}

// compareOpenFields diffs the free-form provider fields a definition
// declares. Only declared keys participate: remote fields nobody manages are
// preserved by the update encoder, not fought over here.
func compareOpenFields(definition resource.Definition, record resource.Remote) []FieldChange {
	var changes []FieldChange

	plainKeys := make([]string, 0, len(definition.Fields))
	for key := range definition.Fields {
		plainKeys = append(plainKeys, key)
	}
	sort.Strings(plainKeys)
	for _, key := range plainKeys {
		desired := definition.Fields[key]
		remote := record.Fields[key]
		if resource.Equal(desired, remote) {
			continue
		}
		changes = append(changes, FieldChange{Field: key, Before: remote, After: desired})
	}

	secretKeys := make([]string, 0, len(definition.Secrets))
	for key := range definition.Secrets {
		secretKeys = append(secretKeys, key)
	}
	sort.Strings(secretKeys)
	for _, key := range secretKeys {
		desired := definition.Secrets[key]
		remote := record.Secrets[key]
		if secrets.Equal(desired, remote) {
			continue
		}
		changes = append(changes, FieldChange{Field: key, Before: secrets.Mask(), After: secrets.Mask()})
	}

	return changes
}
