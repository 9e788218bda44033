package mapping

// Standard namespaces referenced by transformation rules.
const (
	NamespaceRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceOWL  = "http://www.w3.org/2002/07/owl#"
	NamespaceXSD  = "http://www.w3.org/2001/XMLSchema#"
	NamespaceDC   = "http://purl.org/dc/terms/"
	NamespaceSKOS = "http://www.w3.org/2004/02/skos/core#"
	NamespacePROV = "http://www.w3.org/ns/prov#"
	NamespaceFOAF = "http://xmlns.com/foaf/0.1/"
)

// RDFType is the target property of every type mapping.
const RDFType = NamespaceRDF + "type"

// DefaultPrefixes returns the prefix table used when a project does not
// configure its own. The returned map is a fresh copy.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":  NamespaceRDF,
		"rdfs": NamespaceRDFS,
		"owl":  NamespaceOWL,
		"xsd":  NamespaceXSD,
		"dc":   NamespaceDC,
		"skos": NamespaceSKOS,
		"prov": NamespacePROV,
		"foaf": NamespaceFOAF,
	}
}
