package rules

import "strings"

// Severity classifies a validation message.
type Severity string

const (
	SeverityError   Severity = "Error"
	SeverityWarning Severity = "Warning"
)

// Message is a validation or transport message shown to the rule author.
type Message struct {
	Severity Severity `json:"type"`
	Text     string   `json:"message"`
}

// ErrorMessage returns an error-severity message.
func ErrorMessage(text string) Message {
	return Message{Severity: SeverityError, Text: text}
}

// DuplicateNameError reports a rule name used more than once.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return "The following name is not unique: " + e.Name
}

// Message converts the error into an error-severity message.
func (e *DuplicateNameError) Message() Message {
	return ErrorMessage(e.Error())
}

// ValidationError carries the messages that blocked a serialization.
type ValidationError struct {
	Messages []Message
}

func (e *ValidationError) Error() string {
	texts := make([]string, len(e.Messages))
	for i, m := range e.Messages {
		texts[i] = m.Text
	}
	return strings.Join(texts, "; ")
}

// DuplicateNames returns each name that occurs more than once, once, in the
// order of its first occurrence.
func DuplicateNames(names []string) []string {
	counts := make(map[string]int, len(names))
	for _, n := range names {
		counts[n]++
	}
	var dups []string
	for _, n := range names {
		if counts[n] > 1 {
			dups = append(dups, n)
			counts[n] = 0
		}
	}
	return dups
}

// ValidateNames returns one error message per duplicated name. The result
// is empty when all names are unique.
func ValidateNames(names []string) []Message {
	dups := DuplicateNames(names)
	if len(dups) == 0 {
		return nil
	}
	msgs := make([]Message, len(dups))
	for i, n := range dups {
		msgs[i] = (&DuplicateNameError{Name: n}).Message()
	}
	return msgs
}
