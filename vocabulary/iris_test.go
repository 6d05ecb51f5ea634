package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicate(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "plain key maps to OME core",
			key:      "Name",
			expected: OME + "Name",
		},
		{
			name:     "omero prefixed key maps to OMERO namespace",
			key:      "omero:archived",
			expected: OMERO + "archived",
		},
		{
			name:     "prefix is stripped exactly once",
			key:      "omero:omero:x",
			expected: OMERO + "omero:x",
		},
		{
			name:     "prefix must match at start",
			key:      "not-omero:x",
			expected: OME + "not-omero:x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Predicate(tt.key))
		})
	}
}

func TestPrefixesStable(t *testing.T) {
	first := Prefixes()
	second := Prefixes()
	assert.Equal(t, first, second, "prefix bindings must be deterministic")

	seen := make(map[string]bool)
	for _, p := range first {
		assert.NotEmpty(t, p.Prefix)
		assert.NotEmpty(t, p.Namespace)
		assert.False(t, seen[p.Prefix], "duplicate prefix %q", p.Prefix)
		seen[p.Prefix] = true
	}
}

func TestContextCopies(t *testing.T) {
	ctx := Context()
	ctx["extra"] = "x"
	assert.NotContains(t, Context(), "extra", "Context must return a fresh map")
	assert.Equal(t, OME, Context()["ome"])
}
