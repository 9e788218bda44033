package rules

import "regexp"

// PrefixTable maps CURIE prefixes to namespace URIs.
type PrefixTable map[string]string

var curiePrefix = regexp.MustCompile(`^([a-z_]+):`)

// Expand replaces a leading "prefix:" with its namespace. Strings without a
// lowercase prefix, or whose prefix has no (or an empty) namespace, are
// returned unchanged.
func (p PrefixTable) Expand(curie string) string {
	m := curiePrefix.FindStringSubmatch(curie)
	if m == nil {
		return curie
	}
	ns := p[m[1]]
	if ns == "" {
		return curie
	}
	return ns + curie[len(m[0]):]
}

// Merge returns a new table with the entries of p overridden by other.
func (p PrefixTable) Merge(other map[string]string) PrefixTable {
	out := make(PrefixTable, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
