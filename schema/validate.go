package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/declarr/declarr/faults"
	"github.com/declarr/declarr/resource"
	"github.com/declarr/declarr/secrets"
)

// Validate checks a desired-state collection against the category schema.
// Every violation is reported, not just the first; any violation aborts the
// run before a remote call is made.
func Validate(spec CategorySpec, collection resource.Collection) error {
	names := collection.Names()
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := ValidateDefinition(spec, collection.Definitions[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func ValidateDefinition(spec CategorySpec, definition resource.Definition) error {
	return validateDefinition(spec, definition, false)
}

// ValidateRemoteDefinition applies the same checks to a definition decoded
// from the remote instance. Secret constraints are relaxed so that
// placeholder-shaped values read back from the API do not raise.
func ValidateRemoteDefinition(spec CategorySpec, definition resource.Definition) error {
	return validateDefinition(spec, definition, true)
}

func validateDefinition(spec CategorySpec, definition resource.Definition, fromRemote bool) error {
	if strings.TrimSpace(definition.Name) == "" {
		return validationError(spec.Category, "(unnamed)", "name", "must not be empty")
	}

	fields, ok := spec.FieldSpecs(definition.Type)
	if !ok {
		known := make([]string, 0, len(spec.Types))
		for _, typeSpec := range spec.Types {
			known = append(known, typeSpec.Value)
		}
		return validationError(spec.Category, definition.Name, "type",
			fmt.Sprintf("unknown type %q (expected one of: %s)", definition.Type, strings.Join(known, ", ")))
	}
	if spec.Typed() && strings.TrimSpace(definition.Type) == "" {
		return validationError(spec.Category, definition.Name, "type", "must not be empty")
	}

	var errs []error
	declared := make(map[string]FieldSpec, len(fields))
	for _, field := range fields {
		declared[field.Name] = field
		if err := validateField(spec, definition, field, fromRemote); err != nil {
			errs = append(errs, err)
		}
	}

	attrNames := make([]string, 0, len(definition.Attrs))
	for attr := range definition.Attrs {
		attrNames = append(attrNames, attr)
	}
	sort.Strings(attrNames)
	for _, attr := range attrNames {
		if _, found := declared[attr]; !found {
			errs = append(errs, validationError(spec.Category, definition.Name, attr, "field is not declared for this type"))
		}
	}

	if !spec.OpenFields && (len(definition.Fields) > 0 || len(definition.Secrets) > 0) {
		errs = append(errs, validationError(spec.Category, definition.Name, "fields", "category does not accept free-form fields"))
	}
	for fieldName := range definition.Fields {
		if _, dup := definition.Secrets[fieldName]; dup {
			errs = append(errs, validationError(spec.Category, definition.Name, fieldName,
				"defined in both fields and secret_fields"))
		}
	}

	for _, tag := range definition.Tags {
		if strings.TrimSpace(tag) == "" {
			errs = append(errs, validationError(spec.Category, definition.Name, "tags", "tag names must not be empty"))
		}
	}

	return errors.Join(errs...)
}

func validateField(spec CategorySpec, definition resource.Definition, field FieldSpec, fromRemote bool) error {
	if field.Kind == TagSet {
		// Tags are carried on the definition itself.
		return nil
	}

	value, found := definition.Attrs[field.Name]
	if !found || value == nil {
		if field.Required && !fromRemote {
			return validationError(spec.Category, definition.Name, field.Name, "required field is not set")
		}
		return nil
	}

	switch field.Kind {
	case Bool:
		if _, ok := value.(bool); !ok {
			return validationError(spec.Category, definition.Name, field.Name, "must be a boolean")
		}
	case Int:
		number, ok := asInt(value)
		if !ok {
			return validationError(spec.Category, definition.Name, field.Name, "must be an integer")
		}
		if field.HasRange && (number < field.MinInt || number > field.MaxInt) {
			return validationError(spec.Category, definition.Name, field.Name,
				fmt.Sprintf("must be between %d and %d", field.MinInt, field.MaxInt))
		}
	case Float:
		switch value.(type) {
		case float64, float32, int, int64:
		default:
			return validationError(spec.Category, definition.Name, field.Name, "must be a number")
		}
	case String:
		text, ok := value.(string)
		if !ok {
			return validationError(spec.Category, definition.Name, field.Name, "must be a string")
		}
		if field.Required && strings.TrimSpace(text) == "" {
			return validationError(spec.Category, definition.Name, field.Name, "must not be empty")
		}
	case Secret:
		text, ok := value.(string)
		if !ok {
			return validationError(spec.Category, definition.Name, field.Name, "must be a string")
		}
		if secrets.IsPlaceholder(text) {
			if fromRemote {
				return nil
			}
			return validationError(spec.Category, definition.Name, field.Name,
				"looks like an obfuscated placeholder, declare the real value")
		}
		if field.Required && text == "" {
			return validationError(spec.Category, definition.Name, field.Name, "must not be empty")
		}
		if field.MinLength > 0 && text != "" && len(text) < field.MinLength {
			return validationError(spec.Category, definition.Name, field.Name,
				fmt.Sprintf("must be at least %d characters", field.MinLength))
		}
	case Enum:
		text, ok := value.(string)
		if !ok {
			return validationError(spec.Category, definition.Name, field.Name, "must be a string")
		}
		if _, found := LookupEnum(field, text); !found {
			return validationError(spec.Category, definition.Name, field.Name,
				fmt.Sprintf("invalid value %q (expected one of: %s)", text, strings.Join(enumNames(field), ", ")))
		}
	case EnumSet, StringSet, StringList:
		items, ok := asStringList(value)
		if !ok {
			return validationError(spec.Category, definition.Name, field.Name, "must be a list of strings")
		}
		if field.Required && len(items) == 0 {
			return validationError(spec.Category, definition.Name, field.Name, "must not be empty")
		}
	case Mapping:
		switch value.(type) {
		case map[string]any, map[any]any:
		default:
			return validationError(spec.Category, definition.Name, field.Name, "must be a mapping")
		}
	case ProfileRef:
		text, ok := value.(string)
		if !ok || strings.TrimSpace(text) == "" {
			return validationError(spec.Category, definition.Name, field.Name, "must name an app sync profile")
		}
	}

	return nil
}

// LookupEnum resolves a local enum option name to its raw remote value,
// case-insensitively.
func LookupEnum(field FieldSpec, name string) (resource.Value, bool) {
	for option, raw := range field.Enum {
		if strings.EqualFold(option, name) {
			return raw, true
		}
	}
	return nil, false
}

// EnumName resolves a raw remote value back to its local option name.
func EnumName(field FieldSpec, raw resource.Value) (string, bool) {
	normalizedRaw, err := resource.Normalize(raw)
	if err != nil {
		return "", false
	}
	for option, optionRaw := range field.Enum {
		normalizedOption, err := resource.Normalize(optionRaw)
		if err != nil {
			continue
		}
		if normalizedOption == normalizedRaw {
			return option, true
		}
	}
	return "", false
}

func enumNames(field FieldSpec) []string {
	names := make([]string, 0, len(field.Enum))
	for option := range field.Enum {
		names = append(names, option)
	}
	sort.Strings(names)
	return names
}

func asInt(value resource.Value) (int64, bool) {
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

func asStringList(value resource.Value) ([]string, bool) {
	switch typed := value.(type) {
	case []string:
		return typed, true
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			text, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, text)
		}
		return out, true
	}
	return nil, false
}

func validationError(category Category, name string, field string, constraint string) error {
	return faults.NewTypedError(
		faults.ValidationError,
		fmt.Sprintf("%s.definitions[%q].%s: %s", category, name, field, constraint),
		nil,
	)
}
