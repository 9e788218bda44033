// Package rules turns the field values of a mapping editor into a
// TransformRules XML document.
//
// Serialization runs in three steps. ValidateNames checks that every rule
// name is unique; a single duplicate blocks the whole document. Compile
// splits URI patterns such as "http://example.org/{id}" into literal and
// path segments. Emit builds one TransformRule element per rule, dispatching
// on the rule kind. Serialize composes the three.
//
// Emit never fails: missing fields produce empty attributes. Name
// uniqueness is the only check performed before a document is produced.
//
// Example:
//
//	doc, msgs := rules.Serialize([]rules.Rule{
//	    {Name: "label", Kind: rules.KindDirect, Source: "rdfs:label", Target: "foaf:name",
//	        NodeType: mapping.NodeTypeString},
//	}, rules.PrefixTable(mapping.DefaultPrefixes()))
//	if len(msgs) > 0 {
//	    // report msgs, nothing to save
//	}
//	data, err := doc.Bytes()
package rules
