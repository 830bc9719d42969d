package prowlarr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/declarr/declarr/diff"
	"github.com/declarr/declarr/resource"
	"github.com/declarr/declarr/schema"
	"github.com/declarr/declarr/secrets"
)

// translator converts between the v1 API wire shape of one category and the
// local schema representation. Typed categories carry most settings in a
// "fields" array whose layout comes from the remote type schema; the
// translator keeps those schema templates and their select options around.
type translator struct {
	spec schema.CategorySpec

	// templates maps a lowercased implementation name to the schema payload
	// used as the create skeleton for that type.
	templates map[string]map[string]any
	// options maps a wire field name to its enumerated select options.
	options map[string]*selectOptions
}

type selectOptions struct {
	nameByRaw map[string]string
	rawByName map[string]resource.Value
}

func newTranslator(spec schema.CategorySpec, schemaPayloads []map[string]any) *translator {
	t := &translator{
		spec:      spec,
		templates: make(map[string]map[string]any, len(schemaPayloads)),
		options:   make(map[string]*selectOptions),
	}

	for _, payload := range schemaPayloads {
		implementation, _ := payload["implementation"].(string)
		if implementation == "" {
			continue
		}
		t.templates[strings.ToLower(implementation)] = payload

		for _, field := range fieldList(payload) {
			name, _ := field["name"].(string)
			rawOptions, _ := field["selectOptions"].([]any)
			if name == "" || len(rawOptions) == 0 {
				continue
			}
			options := &selectOptions{
				nameByRaw: make(map[string]string, len(rawOptions)),
				rawByName: make(map[string]resource.Value, len(rawOptions)),
			}
			for _, item := range rawOptions {
				option, ok := item.(map[string]any)
				if !ok {
					continue
				}
				optionName, _ := option["name"].(string)
				optionValue := option["value"]
				if optionName == "" || optionValue == nil {
					continue
				}
				options.nameByRaw[valueKey(optionValue)] = optionName
				options.rawByName[strings.ToLower(optionName)] = optionValue
			}
			t.options[name] = options
		}
	}
	return t
}

// template returns the create skeleton for a type, deep-copied so callers can
// mutate it.
func (t *translator) template(typeSpec schema.TypeSpec) (map[string]any, bool) {
	payload, found := t.templates[strings.ToLower(typeSpec.Implementation)]
	if !found {
		return nil, false
	}
	copied, _ := deepCopy(payload).(map[string]any)
	return copied, copied != nil
}

// decode translates one wire record into the local representation. The raw
// payload rides along untouched so unmanaged attributes survive updates.
func (t *translator) decode(payload map[string]any, refs resource.RefTable) (resource.Remote, error) {
	record := resource.Remote{
		Raw: payload,
		Definition: resource.Definition{
			Attrs: make(map[string]resource.Value),
		},
	}

	id, ok := asInt64(payload["id"])
	if !ok && !t.spec.Singleton {
		return resource.Remote{}, internalError(fmt.Sprintf("%s record has no id", t.spec.Category), nil)
	}
	record.ID = id

	if t.spec.Singleton {
		record.Name = t.spec.SingletonName
	} else {
		name, _ := payload[t.spec.NameKey].(string)
		if name == "" {
			return resource.Remote{}, internalError(fmt.Sprintf("%s record %d has no %s", t.spec.Category, id, t.spec.NameKey), nil)
		}
		record.Name = name
	}

	if t.spec.Typed() {
		discriminator, _ := payload[t.spec.TypeKey].(string)
		if t.spec.TypeKey == "implementation" {
			if typeSpec, found := t.spec.TypeByImplementation(discriminator); found {
				record.Type = typeSpec.Value
			} else {
				record.Type = strings.ToLower(discriminator)
			}
		} else {
			record.Type = discriminator
		}
	}

	fieldValues := fieldMap(payload)
	fields, _ := t.spec.FieldSpecs(record.Type)
	claimed := make(map[string]bool, len(fields))
	for _, field := range fields {
		if field.IsField {
			claimed[field.APIName] = true
		}

		var wire resource.Value
		if field.Kind == schema.TagSet || field.Kind == schema.ProfileRef || !field.IsField {
			wire = payload[field.APIName]
		} else if entry, found := fieldValues[field.APIName]; found {
			wire = entry["value"]
		} else {
			continue
		}

		local, err := t.decodeValue(field, wire, refs)
		if err != nil {
			return resource.Remote{}, err
		}
		switch field.Kind {
		case schema.TagSet:
			record.Tags, _ = local.([]string)
		default:
			if local != nil {
				record.Attrs[field.Name] = local
			}
		}
	}

	if t.spec.OpenFields {
		record.Fields = make(map[string]resource.Value)
		record.Secrets = make(map[string]resource.Value)
		for name, entry := range fieldValues {
			if claimed[name] {
				continue
			}
			value := entry["value"]
			if value == nil {
				continue
			}
			if secretField(entry) {
				record.Secrets[name] = value
			} else {
				record.Fields[name] = value
			}
		}
	}

	return record, nil
}

func (t *translator) decodeValue(field schema.FieldSpec, wire resource.Value, refs resource.RefTable) (resource.Value, error) {
	if wire == nil {
		return nil, nil
	}

	switch field.Kind {
	case schema.Enum:
		if name, found := schema.EnumName(field, wire); found {
			return name, nil
		}
		return wire, nil
	case schema.EnumSet:
		options := t.options[field.APIName]
		items, _ := wire.([]any)
		names := make([]any, 0, len(items))
		for _, item := range items {
			if options != nil {
				if name, found := options.nameByRaw[valueKey(item)]; found {
					names = append(names, name)
					continue
				}
			}
			names = append(names, item)
		}
		return names, nil
	case schema.TagSet:
		ids, _ := wire.([]any)
		nameByID := make(map[int64]string, len(refs.Tags))
		for name, id := range refs.Tags {
			nameByID[id] = name
		}
		names := make([]string, 0, len(ids))
		for _, item := range ids {
			id, ok := asInt64(item)
			if !ok {
				continue
			}
			if name, found := nameByID[id]; found {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		return names, nil
	case schema.ProfileRef:
		id, ok := asInt64(wire)
		if !ok {
			return nil, nil
		}
		for name, profileID := range refs.SyncProfiles {
			if profileID == id {
				return name, nil
			}
		}
		return nil, nil
	default:
		return wire, nil
	}
}

// encodeCreate builds the wire payload for a new record. Typed categories
// start from the remote schema template so provider defaults and field
// ordering are preserved.
func (t *translator) encodeCreate(definition resource.Definition, refs resource.RefTable) (map[string]any, error) {
	if t.spec.Category == schema.Tags {
		return map[string]any{t.spec.NameKey: definition.Name}, nil
	}

	payload := map[string]any{}
	if t.spec.Typed() {
		typeSpec, found := t.spec.TypeSpec(definition.Type)
		if !found && !t.spec.OpenFields {
			return nil, validationError(fmt.Sprintf("%s %q has unknown type %q", t.spec.Category, definition.Name, definition.Type), nil)
		}
		template, hasTemplate := t.template(typeSpec)
		if !hasTemplate {
			if template, hasTemplate = t.templateByDiscriminator(definition.Type); !hasTemplate {
				return nil, remoteOperationError(fmt.Sprintf(
					"%s %q: the remote offers no schema for type %q", t.spec.Category, definition.Name, definition.Type), nil)
			}
		}
		payload = template
	}

	payload[t.spec.NameKey] = definition.Name
	if err := t.applyDefinition(payload, definition, refs); err != nil {
		return nil, err
	}
	return payload, nil
}

// templateByDiscriminator resolves schema templates for open-field categories
// where the discriminator is the definition name rather than the
// implementation.
func (t *translator) templateByDiscriminator(discriminator string) (map[string]any, bool) {
	for _, payload := range t.templates {
		value, _ := payload[t.spec.TypeKey].(string)
		if strings.EqualFold(value, discriminator) {
			copied, _ := deepCopy(payload).(map[string]any)
			return copied, copied != nil
		}
	}
	return nil, false
}

// encodeUpdate builds the wire payload for an in-place update: the remote's
// raw payload with the managed attributes overwritten. Unmanaged remote
// attributes and fields pass through verbatim.
func (t *translator) encodeUpdate(update diff.Update, refs resource.RefTable) (map[string]any, error) {
	payload, _ := deepCopy(update.Remote.Raw).(map[string]any)
	if payload == nil {
		payload = map[string]any{}
	}
	if !t.spec.Singleton {
		payload[t.spec.NameKey] = update.Desired.Name
	}
	if err := t.applyDefinition(payload, update.Desired, refs); err != nil {
		return nil, err
	}
	return payload, nil
}

func (t *translator) applyDefinition(payload map[string]any, definition resource.Definition, refs resource.RefTable) error {
	fields, _ := t.spec.FieldSpecs(definition.Type)
	for _, field := range fields {
		desired, declared := definition.Attrs[field.Name]
		if field.Kind == schema.TagSet {
			desired, declared = definition.Tags, true
		}

		if field.Kind == schema.Secret {
			t.applySecret(payload, field, desired)
			continue
		}

		if !declared || desired == nil {
			if field.Default == nil {
				continue
			}
			// The differ treats the schema default as the desired value, so
			// the encoder must agree.
			desired = field.Default
		}

		wire, err := t.encodeValue(definition, field, desired, refs)
		if err != nil {
			return err
		}
		if field.IsField {
			setFieldValue(payload, field.APIName, wire)
		} else {
			payload[field.APIName] = wire
		}
	}

	if t.spec.OpenFields {
		keys := make([]string, 0, len(definition.Fields))
		for key := range definition.Fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			setFieldValue(payload, key, definition.Fields[key])
		}

		secretKeys := make([]string, 0, len(definition.Secrets))
		for key := range definition.Secrets {
			secretKeys = append(secretKeys, key)
		}
		sort.Strings(secretKeys)
		for _, key := range secretKeys {
			remoteValue := fieldValue(payload, key)
			if resolved := secrets.Resolve(definition.Secrets[key], remoteValue); resolved != nil {
				setFieldValue(payload, key, resolved)
			}
		}
	}

	return nil
}

// applySecret writes a declared secret value or strips a placeholder the
// remote sent back. An obfuscated value is never echoed to the remote, and an
// undeclared secret is never overwritten with a schema default.
func (t *translator) applySecret(payload map[string]any, field schema.FieldSpec, desired resource.Value) {
	var current resource.Value
	if field.IsField {
		current = fieldValue(payload, field.APIName)
	} else {
		current = payload[field.APIName]
	}

	resolved := secrets.Resolve(desired, current)
	if field.IsField {
		setFieldValue(payload, field.APIName, resolved)
		return
	}
	if resolved == nil {
		delete(payload, field.APIName)
		return
	}
	payload[field.APIName] = resolved
}

func (t *translator) encodeValue(definition resource.Definition, field schema.FieldSpec, desired resource.Value, refs resource.RefTable) (resource.Value, error) {
	switch field.Kind {
	case schema.Enum:
		name, _ := desired.(string)
		if raw, found := schema.LookupEnum(field, name); found {
			return raw, nil
		}
		return desired, nil
	case schema.EnumSet:
		options := t.options[field.APIName]
		items := resource.StringSet(desired)
		raws := make([]any, 0, len(items))
		for _, item := range items {
			if options != nil {
				if raw, found := options.rawByName[strings.ToLower(item)]; found {
					raws = append(raws, raw)
					continue
				}
			}
			return nil, validationError(fmt.Sprintf(
				"%s %q: %s option %q is not offered by the remote", t.spec.Category, definition.Name, field.Name, item), nil)
		}
		return raws, nil
	case schema.TagSet:
		names, _ := desired.([]string)
		ids := make([]any, 0, len(names))
		seen := make(map[int64]bool, len(names))
		for _, name := range names {
			id, found := refs.Tags[name]
			if !found {
				return nil, validationError(fmt.Sprintf(
					"%s %q references tag %q with no remote id", t.spec.Category, definition.Name, name), nil)
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
		return ids, nil
	case schema.ProfileRef:
		name, _ := desired.(string)
		for profile, id := range refs.SyncProfiles {
			if strings.EqualFold(profile, name) {
				return id, nil
			}
		}
		return nil, validationError(fmt.Sprintf(
			"%s %q references sync profile %q with no remote id", t.spec.Category, definition.Name, name), nil)
	default:
		return desired, nil
	}
}

// secretField reports whether a wire field entry holds an obfuscated value.
func secretField(entry map[string]any) bool {
	privacy, _ := entry["privacy"].(string)
	switch strings.ToLower(privacy) {
	case "password", "apikey":
		return true
	}
	fieldType, _ := entry["type"].(string)
	return strings.EqualFold(fieldType, "password")
}

func fieldList(payload map[string]any) []map[string]any {
	raw, _ := payload["fields"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if entry, ok := item.(map[string]any); ok {
			out = append(out, entry)
		}
	}
	return out
}

func fieldMap(payload map[string]any) map[string]map[string]any {
	entries := fieldList(payload)
	out := make(map[string]map[string]any, len(entries))
	for _, entry := range entries {
		name, _ := entry["name"].(string)
		if name != "" {
			out[name] = entry
		}
	}
	return out
}

func fieldValue(payload map[string]any, name string) resource.Value {
	if entry, found := fieldMap(payload)[name]; found {
		return entry["value"]
	}
	return nil
}

// setFieldValue writes into the payload's fields array, appending a minimal
// entry when the schema template does not carry the field.
func setFieldValue(payload map[string]any, name string, value resource.Value) {
	raw, _ := payload["fields"].([]any)
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if entryName, _ := entry["name"].(string); entryName == name {
			entry["value"] = value
			return
		}
	}
	payload["fields"] = append(raw, map[string]any{"name": name, "value": value})
}

func asInt64(value resource.Value) (int64, bool) {
	switch typed := value.(type) {
	case int:
		return int64(typed), true
	case int64:
		return typed, true
	case float64:
		if typed == float64(int64(typed)) {
			return int64(typed), true
		}
	}
	return 0, false
}

func valueKey(value resource.Value) string {
	normalized, err := resource.Normalize(value)
	if err != nil {
		normalized = value
	}
	return fmt.Sprintf("%T|%v", normalized, normalized)
}

func deepCopy(value resource.Value) resource.Value {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = deepCopy(item)
		}
		return out
	default:
		return value
	}
}
