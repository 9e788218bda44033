package rules

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// NodeKind is the type of a node in an Element tree.
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
	CommentNode
)

// Element is a minimal XML node tree. Element nodes keep their attributes
// and children in document order, text and comment nodes carry Text.
// Names and attribute names are kept as written, prefix included, and
// namespace declarations are kept as ordinary attributes, so passthrough
// rules are written back the way they were read. Whitespace-only text,
// processing instructions and directives are not kept.
type Element struct {
	Kind     NodeKind
	Name     string
	Attrs    []xml.Attr
	Children []*Element
	Text     string
}

// NewElement creates an element with no attributes or children.
func NewElement(name string) *Element {
	return &Element{Name: name}
}

// NewText creates a text node.
func NewText(text string) *Element {
	return &Element{Kind: TextNode, Text: text}
}

// NewComment creates a comment node.
func NewComment(text string) *Element {
	return &Element{Kind: CommentNode, Text: text}
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue returns the value of the named attribute or "" if it is absent.
func (e *Element) AttrValue(name string) string {
	v, _ := e.Attr(name)
	return v
}

// SetAttr overwrites the named attribute in place, or appends it.
func (e *Element) SetAttr(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name.Local == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	return e
}

// Append adds children in order and returns e.
func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

func (e *Element) isNamed(name string) bool {
	return e.Kind == ElementNode && e.Name == name
}

// Child returns the first direct child element with the given name.
func (e *Element) Child(name string) *Element {
	for _, c := range e.Children {
		if c.isNamed(name) {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns the direct child elements with the given name.
func (e *Element) ChildrenNamed(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.isNamed(name) {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first descendant element (not e itself) with the given
// name in document order.
func (e *Element) Find(name string) *Element {
	for _, c := range e.Children {
		if c.isNamed(name) {
			return c
		}
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// TextContent concatenates the text of all descendant text nodes.
func (e *Element) TextContent() string {
	if e.Kind == TextNode {
		return e.Text
	}
	var b strings.Builder
	for _, c := range e.Children {
		if c.Kind != CommentNode {
			b.WriteString(c.TextContent())
		}
	}
	return b.String()
}

// Clone returns a deep copy of e.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	out := &Element{
		Kind:  e.Kind,
		Name:  e.Name,
		Attrs: append([]xml.Attr(nil), e.Attrs...),
		Text:  e.Text,
	}
	for _, c := range e.Children {
		out.Children = append(out.Children, c.Clone())
	}
	return out
}

// MarshalXML implements xml.Marshaler. The start element supplied by the
// encoder is ignored; e's own name and attributes are written.
func (e *Element) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	switch e.Kind {
	case TextNode:
		return enc.EncodeToken(xml.CharData(e.Text))
	case CommentNode:
		return enc.EncodeToken(xml.Comment(e.Text))
	}

	start := xml.StartElement{
		Name: xml.Name{Local: e.Name},
		Attr: append([]xml.Attr(nil), e.Attrs...),
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range e.Children {
		if err := c.MarshalXML(enc, xml.StartElement{}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// qualified joins a raw token name back into its written form.
func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// ParseElement parses the first element found in data. Prefixes are not
// resolved: `xsi:type` stays an attribute named "xsi:type".
func ParseElement(data []byte) (*Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		root  *Element
		stack []*Element
	)
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			if root == nil {
				return nil, fmt.Errorf("parse element: no element found")
			}
			return nil, fmt.Errorf("parse element: unexpected end of input in <%s>", stack[len(stack)-1].Name)
		}
		if err != nil {
			return nil, fmt.Errorf("parse element: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := NewElement(qualified(t.Name))
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, xml.Attr{Name: xml.Name{Local: qualified(a.Name)}, Value: a.Value})
			}
			if len(stack) > 0 {
				stack[len(stack)-1].Append(el)
			} else {
				root = el
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parse element: unexpected </%s>", qualified(t.Name))
			}
			top := stack[len(stack)-1]
			if name := qualified(t.Name); name != top.Name {
				return nil, fmt.Errorf("parse element: </%s> closes <%s>", name, top.Name)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return root, nil
			}

		case xml.CharData:
			if len(stack) > 0 && strings.TrimSpace(string(t)) != "" {
				stack[len(stack)-1].Append(NewText(string(t)))
			}

		case xml.Comment:
			if len(stack) > 0 {
				stack[len(stack)-1].Append(NewComment(string(t)))
			}
		}
	}
}

// String renders e as XML. Encoding errors render as an empty string.
func (e *Element) String() string {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := e.MarshalXML(enc, xml.StartElement{}); err != nil {
		return ""
	}
	if err := enc.Flush(); err != nil {
		return ""
	}
	return buf.String()
}
