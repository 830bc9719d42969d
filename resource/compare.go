package resource

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Equal reports whether two payload values are the same after normalization.
func Equal(a Value, b Value) bool {
	normalizedA, err := Normalize(a)
	if err != nil {
		return false
	}
	normalizedB, err := Normalize(b)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(normalizedA, normalizedB)
}

// EqualFold compares two string values case-insensitively. Non-strings fall
// back to Equal.
func EqualFold(a Value, b Value) bool {
	stringA, okA := a.(string)
	stringB, okB := b.(string)
	if okA && okB {
		return strings.EqualFold(stringA, stringB)
	}
	return Equal(a, b)
}

// SetEqual compares two list values with set semantics: order and duplicates
// are ignored. Values that are not lists fall back to Equal.
func SetEqual(a Value, b Value) bool {
	listA, okA := asList(a)
	listB, okB := asList(b)
	if !okA || !okB {
		return Equal(a, b)
	}

	return reflect.DeepEqual(canonicalSet(listA), canonicalSet(listB))
}

// SetEqualFold compares two list values with set semantics and
// case-insensitive string elements. Non-lists fall back to EqualFold.
func SetEqualFold(a Value, b Value) bool {
	listA, okA := asList(a)
	listB, okB := asList(b)
	if !okA || !okB {
		return EqualFold(a, b)
	}

	return reflect.DeepEqual(canonicalSet(foldStrings(listA)), canonicalSet(foldStrings(listB)))
}

func foldStrings(list []any) []any {
	out := make([]any, len(list))
	for idx, item := range list {
		if text, ok := item.(string); ok {
			out[idx] = strings.ToLower(text)
			continue
		}
		out[idx] = item
	}
	return out
}

// SortedSet normalizes a list value into a deterministic, deduplicated slice.
func SortedSet(value Value) []Value {
	list, ok := asList(value)
	if !ok {
		if value == nil {
			return nil
		}
		return []Value{value}
	}
	return canonicalSet(list)
}

// StringSet converts a list value into a sorted, deduplicated string slice.
func StringSet(value Value) []string {
	list, ok := asList(value)
	if !ok {
		return nil
	}

	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, item := range list {
		text, ok := item.(string)
		if !ok {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, text)
	}
	sort.Strings(out)
	return out
}

func asList(value Value) ([]any, bool) {
	switch typed := value.(type) {
	case nil:
		return nil, true
	case []any:
		return typed, true
	case []string:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = item
		}
		return out, true
	}
	return nil, false
}

func canonicalSet(list []any) []Value {
	seen := make(map[string]Value, len(list))
	keys := make([]string, 0, len(list))
	for _, item := range list {
		normalized, err := Normalize(item)
		if err != nil {
			normalized = item
		}
		key := fmt.Sprintf("%T|%v", normalized, normalized)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = normalized
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]Value, 0, len(keys))
	for _, key := range keys {
		out = append(out, seen[key])
	}
	return out
}
