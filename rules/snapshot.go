package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semmap/vocabulary/mapping"
)

// RuleFields is the raw field snapshot of one rule row as the editor
// collects it.
type RuleFields struct {
	Name     string `json:"name" yaml:"name"`
	Kind     string `json:"kind" yaml:"kind"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Target   string `json:"target,omitempty" yaml:"target,omitempty"`
	NodeType string `json:"node_type,omitempty" yaml:"node_type,omitempty"`
	Pattern  string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	RuleXML  string `json:"rule_xml,omitempty" yaml:"rule_xml,omitempty"`
}

// Snapshot is the editor state handed over for one save.
type Snapshot struct {
	Prefixes map[string]string `json:"prefixes,omitempty" yaml:"prefixes,omitempty"`
	Rules    []RuleFields      `json:"rules" yaml:"rules"`
}

// Rule converts the fields into a Rule. Unknown kinds and complex rules
// whose XML does not parse are rejected.
func (f RuleFields) Rule() (Rule, error) {
	kind, err := ParseKind(f.Kind)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", f.Name, err)
	}
	r := Rule{
		Name:     f.Name,
		Kind:     kind,
		Source:   f.Source,
		Target:   f.Target,
		NodeType: mapping.NodeType(f.NodeType),
		Pattern:  f.Pattern,
		Type:     f.Type,
	}
	if kind == KindComplex && strings.TrimSpace(f.RuleXML) != "" {
		payload, err := ParseElement([]byte(f.RuleXML))
		if err != nil {
			return Rule{}, fmt.Errorf("rule %q: %w", f.Name, err)
		}
		r.Payload = payload
	}
	return r, nil
}

// ToRules converts every rule row in order.
func (s Snapshot) ToRules() ([]Rule, error) {
	out := make([]Rule, 0, len(s.Rules))
	for _, f := range s.Rules {
		r, err := f.Rule()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// DecodeSnapshot parses a YAML or JSON snapshot. Input starting with '{'
// or '[' is read as JSON, since YAML does not accept every JSON escape.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		return &s, nil
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
