// Package status summarizes validation and transport messages for display
// next to the rule editor.
package status

import (
	"bytes"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/c360studio/semmap/rules"
)

// State is the indicator shown to the rule author.
type State string

const (
	StateValid   State = "valid"
	StateWarning State = "warning"
	StateInvalid State = "invalid"
	StatePending State = "pending"
)

// Summary is the outcome of the last save attempt.
type Summary struct {
	State    State           `json:"state"`
	Errors   int             `json:"errors"`
	Warnings int             `json:"warnings"`
	Messages []rules.Message `json:"messages,omitempty"`
}

// Summarize derives the indicator state: any error wins over warnings,
// and no messages at all means valid.
func Summarize(messages []rules.Message) Summary {
	s := Summary{Messages: messages}
	for _, m := range messages {
		switch m.Severity {
		case rules.SeverityError:
			s.Errors++
		case rules.SeverityWarning:
			s.Warnings++
		}
	}
	switch {
	case s.Errors > 0:
		s.State = StateInvalid
	case s.Warnings > 0:
		s.State = StateWarning
	default:
		s.State = StateValid
	}
	return s
}

// Pending returns the summary shown while a save is scheduled.
func Pending() Summary {
	return Summary{State: StatePending}
}

// Badge returns the count shown on the indicator.
func (s Summary) Badge() int {
	switch s.State {
	case StateInvalid:
		return s.Errors
	case StateWarning:
		return s.Warnings
	default:
		return 0
	}
}

// RenderHTML renders messages as numbered <div class="msg"> lines.
// Message text is escaped.
func RenderHTML(messages []rules.Message) (string, error) {
	var buf bytes.Buffer
	for i, m := range messages {
		div := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Div,
			Data:     "div",
			Attr:     []html.Attribute{{Key: "class", Val: "msg"}},
		}
		div.AppendChild(&html.Node{
			Type: html.TextNode,
			Data: strconv.Itoa(i+1) + ". " + m.Text,
		})
		if err := html.Render(&buf, div); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
