// Package transport delivers serialized rule documents to the rules API,
// either over HTTP or as a NATS request.
package transport

import (
	"context"
	"fmt"
)

// HeaderProject names the project a document belongs to. Servers fall back
// to their configured project when it is absent.
const HeaderProject = "X-Semmap-Project"

// Transport stores a serialized TransformRules document.
type Transport interface {
	PutRules(ctx context.Context, doc []byte) error
}

// Error is a failure reported by the remote side. Message is the response
// body as received so it can be shown to the rule author verbatim.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("rules api returned %d: %s", e.StatusCode, e.Message)
}
