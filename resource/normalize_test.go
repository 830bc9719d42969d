package resource

import (
	"reflect"
	"testing"
)

func TestNormalizeFoldsNumericTypes(t *testing.T) {
	t.Parallel()

	got, err := Normalize(map[string]any{
		"priority": float64(25),
		"port":     int(9696),
		"timeout":  60.5,
		"enable":   true,
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	want := map[string]any{
		"priority": int64(25),
		"port":     int64(9696),
		"timeout":  60.5,
		"enable":   true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected normalized payload: %#v", got)
	}
}

func TestNormalizeConvertsYAMLMaps(t *testing.T) {
	t.Parallel()

	got, err := Normalize(map[any]any{
		"host": "flaresolverr",
		"port": 8191,
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	obj, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected string-keyed map, got %#v", got)
	}
	if obj["host"] != "flaresolverr" || obj["port"] != int64(8191) {
		t.Fatalf("unexpected payload: %#v", obj)
	}
}

func TestNormalizeRejectsBadValues(t *testing.T) {
	t.Parallel()

	if _, err := Normalize(map[any]any{5: "x"}); err == nil {
		t.Fatalf("expected error for non-string map key")
	}
	if _, err := Normalize(struct{ X int }{1}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestEqualAfterNormalization(t *testing.T) {
	t.Parallel()

	if !Equal(float64(25), int(25)) {
		t.Fatalf("expected 25.0 to equal 25")
	}
	if Equal("a", "A") {
		t.Fatalf("Equal must be case-sensitive")
	}
	if !EqualFold("UseNet", "usenet") {
		t.Fatalf("expected case-insensitive match")
	}
}

func TestSetEqualIgnoresOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	a := []any{"movies", "tv", "movies"}
	b := []any{"tv", "movies"}
	if !SetEqual(a, b) {
		t.Fatalf("expected set equality")
	}
	if SetEqual([]any{"movies"}, []any{"tv"}) {
		t.Fatalf("expected set inequality")
	}
	if !SetEqual(nil, []any{}) {
		t.Fatalf("nil and empty list must be set-equal")
	}
	if !SetEqual([]any{int(5), "x"}, []any{"x", float64(5)}) {
		t.Fatalf("expected numeric folding inside sets")
	}
}

func TestSetEqualFoldIgnoresCase(t *testing.T) {
	t.Parallel()

	if !SetEqualFold([]any{"movies/sd", "tv/hd"}, []any{"TV/HD", "Movies/SD"}) {
		t.Fatalf("expected case-insensitive set equality")
	}
	if SetEqualFold([]any{"movies/sd"}, []any{"movies/hd"}) {
		t.Fatalf("expected set inequality")
	}
	if !SetEqualFold(nil, []any{}) {
		t.Fatalf("nil and empty list must be set-equal")
	}
	if !SetEqualFold([]any{int(5), "X"}, []any{"x", float64(5)}) {
		t.Fatalf("non-string elements must still fold numerically")
	}
	if !SetEqualFold("Movies", "movies") {
		t.Fatalf("non-lists must fall back to EqualFold")
	}
}

func TestStringSet(t *testing.T) {
	t.Parallel()

	got := StringSet([]any{"b", "a", "b"})
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected string set: %#v", got)
	}
}
