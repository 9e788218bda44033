package rules

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// ErrNotRuleDocument is returned when parsed XML is not a TransformRules document.
var ErrNotRuleDocument = errors.New("not a TransformRules document")

// Document is an ordered list of rule elements under a TransformRules root.
type Document struct {
	root *Element
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{root: NewElement(ElementRules)}
}

// Add appends a rule element.
func (d *Document) Add(rule *Element) {
	d.root.Append(rule)
}

// Rules returns the TransformRule elements in document order. Comments
// and other nodes under the root are kept for encoding but are not rules.
func (d *Document) Rules() []*Element {
	return d.root.ChildrenNamed(ElementRule)
}

// Len returns the number of rules.
func (d *Document) Len() int {
	return len(d.Rules())
}

// Rule returns the rule with the given name.
func (d *Document) Rule(name string) *Element {
	for _, r := range d.Rules() {
		if r.AttrValue(AttrName) == name {
			return r
		}
	}
	return nil
}

// Names returns the name attribute of every rule in document order.
func (d *Document) Names() []string {
	rules := d.Rules()
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.AttrValue(AttrName)
	}
	return names
}

// Encode writes the document as XML without an XML declaration.
func (d *Document) Encode(w io.Writer) error {
	enc := xml.NewEncoder(w)
	if err := d.root.MarshalXML(enc, xml.StartElement{}); err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	return enc.Flush()
}

// Bytes returns the XML encoding of the document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseDocument parses a TransformRules document.
func ParseDocument(data []byte) (*Document, error) {
	root, err := ParseElement(data)
	if err != nil {
		return nil, err
	}
	if root.Name != ElementRules {
		return nil, fmt.Errorf("%w: root element is %q", ErrNotRuleDocument, root.Name)
	}
	return &Document{root: root}, nil
}

// Serialize validates rule names and, if they are unique, emits every rule
// in order. When validation fails the document is nil and the messages say
// why; no rule is emitted.
func Serialize(rules []Rule, prefixes PrefixTable) (*Document, []Message) {
	if msgs := ValidateNames(Names(rules)); len(msgs) > 0 {
		return nil, msgs
	}
	doc := NewDocument()
	for _, r := range rules {
		doc.Add(Emit(r, prefixes))
	}
	return doc, nil
}

// Marshal serializes rules straight to XML. Validation failures are
// returned as a *ValidationError.
func Marshal(rules []Rule, prefixes PrefixTable) ([]byte, error) {
	doc, msgs := Serialize(rules, prefixes)
	if len(msgs) > 0 {
		return nil, &ValidationError{Messages: msgs}
	}
	return doc.Bytes()
}
