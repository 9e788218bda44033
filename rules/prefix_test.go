package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixTable_Expand(t *testing.T) {
	ex := PrefixTable{"ex": "http://example.org/", "my_ns": "urn:my:"}

	tests := []struct {
		name     string
		prefixes PrefixTable
		in       string
		want     string
	}{
		{"known prefix", ex, "ex:Person", "http://example.org/Person"},
		{"underscore prefix", ex, "my_ns:thing", "urn:my:thing"},
		{"empty table", PrefixTable{}, "ex:Person", "ex:Person"},
		{"nil table", nil, "ex:Person", "ex:Person"},
		{"full uri", PrefixTable{}, "http://full/uri", "http://full/uri"},
		{"no colon", ex, "Person", "Person"},
		{"uppercase prefix", PrefixTable{"Ex": "http://x/"}, "Ex:Person", "Ex:Person"},
		{"digit in prefix", PrefixTable{"ex1": "http://x/"}, "ex1:Person", "ex1:Person"},
		{"empty local", ex, "ex:", "http://example.org/"},
		{"empty namespace", PrefixTable{"ex": ""}, "ex:Person", "ex:Person"},
		{"only first colon", ex, "ex:a:b", "http://example.org/a:b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.prefixes.Expand(tt.in))
		})
	}
}

func TestPrefixTable_Merge(t *testing.T) {
	base := PrefixTable{"a": "1", "b": "2"}
	merged := base.Merge(map[string]string{"b": "3", "c": "4"})

	assert.Equal(t, PrefixTable{"a": "1", "b": "3", "c": "4"}, merged)
	assert.Equal(t, "2", base["b"], "base must not be modified")
}
