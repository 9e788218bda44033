package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueTypes_Order(t *testing.T) {
	types := ValueTypes()
	assert.Len(t, types, 8)
	assert.Equal(t, NodeTypeAutoDetect, types[0].Value)
	assert.Equal(t, NodeTypeURI, types[1].Value)
	assert.Equal(t, "Literals (Numbers)", types[len(types)-1].Category)

	// Mutating the copy must not leak into the package table.
	types[0].Label = "changed"
	assert.Equal(t, "Autodetect", ValueTypes()[0].Label)
}

func TestNodeType_Label(t *testing.T) {
	assert.Equal(t, "Resource", NodeTypeURI.Label())
	assert.Equal(t, "CustomValueType", NodeType("CustomValueType").Label())
	assert.True(t, NodeTypeDouble.IsKnown())
	assert.False(t, NodeType("").IsKnown())
}

func TestTranslateTerm(t *testing.T) {
	assert.Equal(t, "Suggestions", TranslateTerm(CategoryMatchingCandidates, nil))
	assert.Equal(t, "Vocabulary Matches", TranslateTerm(CategoryVocabulary, nil))
	assert.Equal(t, "Other", TranslateTerm("Other", nil))
	assert.Equal(t, "B", TranslateTerm("a", map[string]string{"a": "B"}))
}

func TestDefaultPrefixes_Copy(t *testing.T) {
	p := DefaultPrefixes()
	assert.Equal(t, NamespaceRDF, p["rdf"])
	p["rdf"] = "x"
	assert.Equal(t, NamespaceRDF, DefaultPrefixes()["rdf"])
	assert.Equal(t, "http://www.w3.org/1999/02/22-rdf-syntax-ns#type", RDFType)
}
