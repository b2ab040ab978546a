package directory

import (
	"slices"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  any
		want []string
	}{
		{
			name: "mixed shapes",
			raw: []any{
				"A",
				map[string]any{"name": "B"},
				map[string]any{"value": "C"},
				map[string]any{},
			},
			want: []string{"A", "B", "C", ""},
		},
		{
			name: "name wins over value",
			raw:  []any{map[string]any{"name": "India", "value": "IN"}},
			want: []string{"India"},
		},
		{
			name: "empty name falls back to value",
			raw:  []any{map[string]any{"name": "", "value": "IN"}},
			want: []string{"IN"},
		},
		{
			name: "numeric name formatted",
			raw:  []any{map[string]any{"name": 42.0}, map[string]any{"value": 1.5}},
			want: []string{"42", "1.5"},
		},
		{
			name: "zero name falls back to value",
			raw:  []any{map[string]any{"name": 0.0, "value": "x"}},
			want: []string{"x"},
		},
		{
			name: "boolean name",
			raw:  []any{map[string]any{"name": true}, map[string]any{"name": false}},
			want: []string{"true", ""},
		},
		{
			name: "nested fields ignored",
			raw:  []any{map[string]any{"name": map[string]any{"x": "y"}, "value": []any{"z"}}},
			want: []string{""},
		},
		{
			name: "other item kinds",
			raw:  []any{1.0, true, nil, []any{"x"}},
			want: []string{"", "", "", ""},
		},
		{
			name: "duplicates and order kept",
			raw:  []any{"b", "a", "b", ""},
			want: []string{"b", "a", "b", ""},
		},
		{
			name: "string slice",
			raw:  []string{"x", "y"},
			want: []string{"x", "y"},
		},
		{name: "object", raw: map[string]any{"name": "India"}, want: []string{}},
		{name: "string", raw: "India", want: []string{}},
		{name: "nil", raw: nil, want: []string{}},
		{name: "empty array", raw: []any{}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Normalize(tt.raw)
			if got == nil {
				t.Fatal("Normalize returned nil, want non-nil slice")
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		want    []string
		wantErr bool
	}{
		{name: "strings", data: `["India","USA"]`, want: []string{"India", "USA"}},
		{name: "objects", data: `[{"name":"Goa"},{"value":"Kerala"},{}]`, want: []string{"Goa", "Kerala", ""}},
		{name: "scalar fields", data: `[{"name":5},{"name":0,"value":"x"},{"name":true},{"name":false}]`, want: []string{"5", "x", "true", ""}},
		{name: "non-array", data: `{"countries":["India"]}`, want: []string{}},
		{name: "null", data: `null`, want: []string{}},
		{name: "malformed", data: `["India"`, wantErr: true},
		{name: "html", data: `<html>oops</html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeJSON([]byte(tt.data))
			if tt.wantErr {
				if !IsParse(err) {
					t.Fatalf("expected ParseError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("NormalizeJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}
