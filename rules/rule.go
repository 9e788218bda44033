package rules

import (
	"fmt"
	"strings"

	"github.com/c360studio/semmap/vocabulary/mapping"
)

// Kind identifies how a rule is authored and serialized.
type Kind string

const (
	// KindDirect maps one source path to one target property.
	KindDirect Kind = "direct"

	// KindURI builds the subject URI from a pattern. It has no target property.
	KindURI Kind = "uri"

	// KindObject builds a resource-valued target from a pattern.
	KindObject Kind = "object"

	// KindType asserts a constant rdf:type.
	KindType Kind = "type"

	// KindComplex carries a rule the editor does not model structurally.
	KindComplex Kind = "complex"
)

// ParseKind parses a kind tag case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindDirect, KindURI, KindObject, KindType, KindComplex:
		return k, nil
	default:
		return "", fmt.Errorf("unknown rule kind: %q", s)
	}
}

// Rule holds the field values of one mapping rule as collected by the
// editor. Which fields are read depends on Kind.
type Rule struct {
	Name string
	Kind Kind

	// Source is the source path of a direct mapping.
	Source string

	// Target is the target property URI or CURIE. Unused by URI mappings.
	Target string

	// NodeType is the value type of the target. Object mappings ignore it.
	NodeType mapping.NodeType

	// Pattern is the brace-delimited pattern of URI and object mappings.
	Pattern string

	// Type is the class URI of a type mapping.
	Type string

	// Payload is the TransformRule element of a complex rule.
	Payload *Element
}

// Names returns the rule names in order.
func Names(rules []Rule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}
