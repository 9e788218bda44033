package rules

import (
	"strconv"
	"strings"
)

// maxGeneratedNames bounds the search for a free generated name.
const maxGeneratedNames = 1000

// GenerateName returns prefix followed by the smallest counter in
// 1..1000 that does not collide with an existing name.
func GenerateName(prefix string, existing []string) (string, bool) {
	taken := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		taken[n] = struct{}{}
	}
	for count := 1; count <= maxGeneratedNames; count++ {
		name := prefix + strconv.Itoa(count)
		if _, ok := taken[name]; !ok {
			return name, true
		}
	}
	return "", false
}

// LocalName returns the part of uri after its last '/', '#' or ':'.
func LocalName(uri string) string {
	if uri == "" {
		return "(no URI defined)"
	}
	if i := strings.LastIndexAny(uri, "/#:"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
