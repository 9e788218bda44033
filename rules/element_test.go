package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseElement(t *testing.T) {
	el, err := ParseElement([]byte(`<?xml version="1.0"?>
<TransformRule xmlns="urn:x" name="r" b="2" a="1">
  <Param name="p">text value</Param>
  <Nested><Deep id="d"/></Nested>
</TransformRule>`))
	require.NoError(t, err)

	assert.Equal(t, "TransformRule", el.Name)
	require.Len(t, el.Attrs, 4)
	assert.Equal(t, "xmlns", el.Attrs[0].Name.Local, "namespace declaration is kept as written")
	assert.Equal(t, "b", el.Attrs[2].Name.Local, "attribute order is preserved")
	assert.Len(t, el.Children, 2, "whitespace between elements is not kept")

	param := el.Child("Param")
	require.NotNil(t, param)
	assert.Equal(t, "text value", param.TextContent())

	assert.Nil(t, el.Child("Deep"))
	deep := el.Find("Deep")
	require.NotNil(t, deep)
	assert.Equal(t, "d", deep.AttrValue("id"))
}

func TestElement_SetAttr(t *testing.T) {
	el := NewElement("X").SetAttr("a", "1").SetAttr("b", "2").SetAttr("a", "3")
	require.Len(t, el.Attrs, 2)
	assert.Equal(t, "3", el.AttrValue("a"))
	assert.Equal(t, `<X a="3" b="2"></X>`, el.String())
}

func TestElement_Clone(t *testing.T) {
	orig := NewElement("A").SetAttr("k", "v").Append(NewElement("B").SetAttr("k", "v"))
	c := orig.Clone()
	c.SetAttr("k", "changed")
	c.Children[0].SetAttr("k", "changed")
	c.Append(NewElement("C"))

	assert.Equal(t, "v", orig.AttrValue("k"))
	assert.Equal(t, "v", orig.Children[0].AttrValue("k"))
	assert.Len(t, orig.Children, 1)

	var nilEl *Element
	assert.Nil(t, nilEl.Clone())
}

func TestElement_ChildrenNamed(t *testing.T) {
	el := NewElement("R").Append(NewElement("I"), NewElement("P"), NewElement("I"))
	assert.Len(t, el.ChildrenNamed("I"), 2)
	assert.Empty(t, el.ChildrenNamed("Z"))
}

func TestParseElement_RoundTripsPassthroughContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"prefixed attribute", `<TransformRule xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:type="x"></TransformRule>`},
		{"prefixed element", `<TransformRule><ext:Hint xmlns:ext="urn:ext" ext:level="2"></ext:Hint></TransformRule>`},
		{"mixed content", `<Param>a<b></b>c</Param>`},
		{"comment", `<TransformRule><!-- keep me --><Input path="p"></Input></TransformRule>`},
		{"escaped text", `<Param>a &amp; b &lt; c</Param>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el, err := ParseElement([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.in, el.String())
		})
	}
}

func TestParseElement_PrefixedAttributeLookup(t *testing.T) {
	el, err := ParseElement([]byte(`<R xmlns:xsi="urn:xsi" xsi:type="t" type="plain"></R>`))
	require.NoError(t, err)
	assert.Equal(t, "t", el.AttrValue("xsi:type"))
	assert.Equal(t, "plain", el.AttrValue("type"))
}

func TestParseElement_MixedContentOrder(t *testing.T) {
	el, err := ParseElement([]byte(`<Param>a<b/>c</Param>`))
	require.NoError(t, err)
	require.Len(t, el.Children, 3)
	assert.Equal(t, TextNode, el.Children[0].Kind)
	assert.Equal(t, ElementNode, el.Children[1].Kind)
	assert.Equal(t, "ac", el.TextContent())
	assert.Same(t, el.Children[1], el.Child("b"))
}

func TestParseElement_Errors(t *testing.T) {
	for _, in := range []string{``, `   `, `<A><B></A>`, `<A>`, `<!-- only a comment -->`} {
		_, err := ParseElement([]byte(in))
		assert.Error(t, err, "input %q", in)
	}
}
