package mapping

// NodeType is the value type of a mapped value.
type NodeType string

const (
	// NodeTypeAutoDetect lets the transformation engine infer the type.
	NodeTypeAutoDetect NodeType = "AutoDetectValueType"

	// NodeTypeURI marks the value as a resource identifier.
	NodeTypeURI NodeType = "UriValueType"

	// NodeTypeBoolean is an xsd:boolean literal.
	NodeTypeBoolean NodeType = "BooleanValueType"

	// NodeTypeString is a plain string literal.
	NodeTypeString NodeType = "StringValueType"

	// NodeTypeInteger is an xsd:integer literal.
	NodeTypeInteger NodeType = "IntegerValueType"

	// NodeTypeLong is an xsd:long literal.
	NodeTypeLong NodeType = "LongValueType"

	// NodeTypeFloat is an xsd:float literal.
	NodeTypeFloat NodeType = "FloatValueType"

	// NodeTypeDouble is an xsd:double literal.
	NodeTypeDouble NodeType = "DoubleValueType"
)

// ValueTypeInfo describes a node type as offered to rule authors.
type ValueTypeInfo struct {
	Label    string   `json:"label"`
	Value    NodeType `json:"value"`
	Category string   `json:"category"`
}

// valueTypes is ordered the way authors see it: grouped by category.
var valueTypes = []ValueTypeInfo{
	{Label: "Autodetect", Value: NodeTypeAutoDetect, Category: ""},
	{Label: "Resource", Value: NodeTypeURI, Category: ""},
	{Label: "Boolean", Value: NodeTypeBoolean, Category: "Literals"},
	{Label: "String", Value: NodeTypeString, Category: "Literals"},
	{Label: "Integer", Value: NodeTypeInteger, Category: "Literals (Numbers)"},
	{Label: "Long", Value: NodeTypeLong, Category: "Literals (Numbers)"},
	{Label: "Float", Value: NodeTypeFloat, Category: "Literals (Numbers)"},
	{Label: "Double", Value: NodeTypeDouble, Category: "Literals (Numbers)"},
}

// ValueTypes returns all known node types in display order.
func ValueTypes() []ValueTypeInfo {
	out := make([]ValueTypeInfo, len(valueTypes))
	copy(out, valueTypes)
	return out
}

// IsKnown reports whether t is one of the declared node types.
func (t NodeType) IsKnown() bool {
	for _, vt := range valueTypes {
		if vt.Value == t {
			return true
		}
	}
	return false
}

// Label returns the display label for t, or the raw value if t is unknown.
func (t NodeType) Label() string {
	for _, vt := range valueTypes {
		if vt.Value == t {
			return vt.Label
		}
	}
	return string(t)
}

// Completion categories reported by the path completion endpoints.
const (
	CategoryMatchingCandidates = "MatchingCandidateCache"
	CategoryVocabulary         = "VocabularyCache"
)

var categoryLabels = map[string]string{
	CategoryMatchingCandidates: "Suggestions",
	CategoryVocabulary:         "Vocabulary Matches",
}

// TranslateTerm maps term through dict, returning term itself when dict has
// no entry for it. A nil dict uses the completion category labels.
func TranslateTerm(term string, dict map[string]string) string {
	if dict == nil {
		dict = categoryLabels
	}
	if label, ok := dict[term]; ok {
		return label
	}
	return term
}
