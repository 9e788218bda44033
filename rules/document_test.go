package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semmap/vocabulary/mapping"
)

func TestSerialize_DuplicateNamesBlockDocument(t *testing.T) {
	doc, msgs := Serialize([]Rule{
		{Name: "r1", Kind: KindDirect, Source: "a", Target: "ex:a"},
		{Name: "r1", Kind: KindType, Type: "ex:T"},
	}, testPrefixes)

	assert.Nil(t, doc)
	require.Len(t, msgs, 1)
	assert.Equal(t, "The following name is not unique: r1", msgs[0].Text)
}

func TestSerialize_Empty(t *testing.T) {
	doc, msgs := Serialize(nil, nil)
	require.Empty(t, msgs)
	data, err := doc.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "<TransformRules></TransformRules>", string(data))
}

func TestSerialize_WireFormat(t *testing.T) {
	doc, msgs := Serialize([]Rule{
		{Name: "label", Kind: KindDirect, Source: "rdfs:label", Target: "ex:name", NodeType: mapping.NodeTypeString},
		{Name: "type", Kind: KindType, Type: "http://example.org/Person"},
	}, testPrefixes)
	require.Empty(t, msgs)

	data, err := doc.Bytes()
	require.NoError(t, err)

	want := `<TransformRules>` +
		`<TransformRule name="label"><Input path="rdfs:label"></Input>` +
		`<MappingTarget uri="http://example.org/name"><ValueType nodeType="StringValueType"></ValueType></MappingTarget>` +
		`</TransformRule>` +
		`<TransformRule name="type" targetProperty="http://www.w3.org/1999/02/22-rdf-syntax-ns#type">` +
		`<TransformInput function="constantUri"><Param name="value" value="http://example.org/Person"></Param></TransformInput>` +
		`</TransformRule>` +
		`</TransformRules>`
	assert.Equal(t, want, string(data))
}

func TestSerialize_PreservesOrder(t *testing.T) {
	rules := []Rule{
		{Name: "c", Kind: KindType},
		{Name: "a", Kind: KindURI, Pattern: "{x}"},
		{Name: "b", Kind: KindDirect},
	}
	doc, msgs := Serialize(rules, nil)
	require.Empty(t, msgs)
	assert.Equal(t, []string{"c", "a", "b"}, doc.Names())
	assert.Equal(t, 3, doc.Len())
	assert.NotNil(t, doc.Rule("a"))
	assert.Nil(t, doc.Rule("missing"))
}

func TestParseDocument_RoundTrip(t *testing.T) {
	doc, msgs := Serialize([]Rule{
		{Name: "uri", Kind: KindURI, Pattern: "http://example.org/{id}"},
		{Name: "knows", Kind: KindObject, Pattern: "{friend}", Target: "ex:knows"},
	}, testPrefixes)
	require.Empty(t, msgs)
	data, err := doc.Bytes()
	require.NoError(t, err)

	parsed, err := ParseDocument(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"uri", "knows"}, parsed.Names())

	again, err := parsed.Bytes()
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestParseDocument_CommentsAreNotRules(t *testing.T) {
	in := `<TransformRules><!-- generated --><TransformRule name="a"></TransformRule>` +
		`<!-- b follows --><TransformRule name="b"></TransformRule></TransformRules>`
	doc, err := ParseDocument([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, doc.Names())
	assert.Equal(t, 2, doc.Len())

	out, err := doc.Bytes()
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestParseDocument_Errors(t *testing.T) {
	_, err := ParseDocument([]byte(`<Other/>`))
	assert.True(t, errors.Is(err, ErrNotRuleDocument))

	_, err = ParseDocument([]byte(`<TransformRules><TransformRule>`))
	assert.Error(t, err)

	_, err = ParseDocument(nil)
	assert.Error(t, err)
}

func TestMarshal(t *testing.T) {
	_, err := Marshal([]Rule{{Name: "x"}, {Name: "x"}}, nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Messages, 1)

	data, err := Marshal([]Rule{{Name: "x", Kind: KindType, Type: "a&b"}}, nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), `value="a&amp;b"`)
}
