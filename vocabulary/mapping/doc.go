// Package mapping defines the vocabulary used by transformation rules:
// well-known namespace IRIs, the default CURIE prefix table, and the value
// types a mapping target can declare.
//
// Value types are serialized verbatim into the nodeType attribute of a
// rule's ValueType element, so their string values are part of the wire
// format and must not change.
package mapping
