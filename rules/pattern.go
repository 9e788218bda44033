package rules

import "strings"

// Segment is one piece of a compiled pattern: either literal text or a
// reference to a source path.
type Segment struct {
	Value string
	Path  bool
}

// Literal returns a literal segment.
func Literal(text string) Segment {
	return Segment{Value: text}
}

// PathRef returns a path reference segment.
func PathRef(path string) Segment {
	return Segment{Value: path, Path: true}
}

// String renders the segment back in pattern syntax.
func (s Segment) String() string {
	if s.Path {
		return "{" + s.Value + "}"
	}
	return s.Value
}

// Compile splits pattern on every '{' and '}'. Pieces at even positions are
// literals and pieces at odd positions are path references. Braces are not
// checked for balance; "a}b" compiles to [Literal("a"), PathRef("b")].
// The result is never empty.
func Compile(pattern string) []Segment {
	segments := make([]Segment, 0, strings.Count(pattern, "{")+strings.Count(pattern, "}")+1)
	start := 0
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '{' || pattern[i] == '}' {
			segments = append(segments, segmentAt(len(segments), pattern[start:i]))
			start = i + 1
		}
	}
	return append(segments, segmentAt(len(segments), pattern[start:]))
}

func segmentAt(index int, value string) Segment {
	if index%2 == 1 {
		return PathRef(value)
	}
	return Literal(value)
}

// PatternSourceHint returns the first path reference of pattern, or false
// when the pattern has no references.
func PatternSourceHint(pattern string) (string, bool) {
	segments := Compile(pattern)
	if len(segments) < 2 {
		return "", false
	}
	return segments[1].Value, true
}

// IsBlankPattern reports whether pattern is empty or whitespace only.
func IsBlankPattern(pattern string) bool {
	return strings.TrimSpace(pattern) == ""
}
