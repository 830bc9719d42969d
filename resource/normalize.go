package resource

import (
	"math"
	"sort"

	"github.com/declarr/declarr/faults"
)

// Normalize rewrites a decoded payload into a canonical form: integers as
// int64, maps with sorted insertion order, and nested values normalized
// recursively. Comparisons in the differ only run against normalized values.
func Normalize(value Value) (Value, error) {
	return normalizeValue(value)
}

func normalizeValue(value any) (any, error) {
	switch typed := value.(type) {
	case nil, bool, string:
		return typed, nil
	case float32:
		return normalizeFloat(float64(typed))
	case float64:
		return normalizeFloat(typed)
	case int:
		return int64(typed), nil
	case int8:
		return int64(typed), nil
	case int16:
		return int64(typed), nil
	case int32:
		return int64(typed), nil
	case int64:
		return typed, nil
	case uint:
		return normalizeUint(uint64(typed))
	case uint8:
		return normalizeUint(uint64(typed))
	case uint16:
		return normalizeUint(uint64(typed))
	case uint32:
		return normalizeUint(uint64(typed))
	case uint64:
		return normalizeUint(typed)
	case []any:
		return normalizeSlice(typed)
	case map[string]any:
		return normalizeStringMap(typed)
	case map[any]any:
		return normalizeAnyMap(typed)
	}

	return nil, faults.NewTypedError(faults.ValidationError, "payload contains unsupported value type", nil)
}

func normalizeFloat(value float64) (any, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, faults.NewTypedError(faults.ValidationError, "payload contains non-finite float", nil)
	}
	// JSON decoding widens whole numbers to float64; fold them back so a
	// remote 25.0 equals a declared 25.
	if value == math.Trunc(value) && math.Abs(value) < float64(math.MaxInt64) {
		return int64(value), nil
	}
	return value, nil
}

func normalizeUint(value uint64) (int64, error) {
	if value > math.MaxInt64 {
		return 0, faults.NewTypedError(faults.ValidationError, "payload contains integer out of range", nil)
	}
	return int64(value), nil
}

func normalizeSlice(values []any) ([]any, error) {
	normalized := make([]any, len(values))
	for idx, item := range values {
		itemValue, err := normalizeValue(item)
		if err != nil {
			return nil, err
		}
		normalized[idx] = itemValue
	}
	return normalized, nil
}

func normalizeStringMap(values map[string]any) (map[string]any, error) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	normalized := make(map[string]any, len(values))
	for _, key := range keys {
		itemValue, err := normalizeValue(values[key])
		if err != nil {
			return nil, err
		}
		normalized[key] = itemValue
	}

	return normalized, nil
}

// normalizeAnyMap handles yaml.v3 decoding of nested mappings.
func normalizeAnyMap(values map[any]any) (map[string]any, error) {
	converted := make(map[string]any, len(values))
	for key, item := range values {
		stringKey, ok := key.(string)
		if !ok {
			return nil, faults.NewTypedError(faults.ValidationError, "payload map keys must be strings", nil)
		}
		converted[stringKey] = item
	}
	return normalizeStringMap(converted)
}
