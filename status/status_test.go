package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semmap/rules"
)

func TestSummarize(t *testing.T) {
	warn := rules.Message{Severity: rules.SeverityWarning, Text: "w"}
	errMsg := rules.ErrorMessage("e")

	tests := []struct {
		name     string
		messages []rules.Message
		state    State
		badge    int
	}{
		{"none", nil, StateValid, 0},
		{"warnings", []rules.Message{warn, warn}, StateWarning, 2},
		{"errors win", []rules.Message{warn, errMsg}, StateInvalid, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.messages)
			assert.Equal(t, tt.state, s.State)
			assert.Equal(t, tt.badge, s.Badge())
		})
	}
}

func TestPending(t *testing.T) {
	assert.Equal(t, StatePending, Pending().State)
	assert.Zero(t, Pending().Badge())
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML([]rules.Message{
		rules.ErrorMessage("The following name is not unique: <b>"),
		rules.ErrorMessage(`say "hi" & bye`),
	})
	require.NoError(t, err)
	assert.Equal(t,
		`<div class="msg">1. The following name is not unique: &lt;b&gt;</div>`+
			`<div class="msg">2. say &#34;hi&#34; &amp; bye</div>`,
		out)

	empty, err := RenderHTML(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
