package transport

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// DefaultSubject is the request subject served by the rules API.
const DefaultSubject = "semmap.rules.put"

// NATSTransport sends rule documents as NATS requests. An empty reply means
// the document was stored; any other reply is the error text.
type NATSTransport struct {
	conn    *nats.Conn
	subject string
	project string
	logger  *slog.Logger
}

// NewNATSTransport creates a NATS transport on an existing connection.
func NewNATSTransport(conn *nats.Conn, subject string, logger *slog.Logger) *NATSTransport {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSTransport{conn: conn, subject: subject, logger: logger}
}

// WithProject sets the project sent in the HeaderProject header.
func (t *NATSTransport) WithProject(project string) *NATSTransport {
	t.project = project
	return t
}

// PutRules implements Transport.
func (t *NATSTransport) PutRules(ctx context.Context, doc []byte) error {
	if t.conn == nil {
		return fmt.Errorf("NATS connection required")
	}
	msg := nats.NewMsg(t.subject)
	msg.Data = doc
	if t.project != "" {
		msg.Header.Set(HeaderProject, t.project)
	}
	reply, err := t.conn.RequestMsgWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("request %s: %w", t.subject, err)
	}
	if len(reply.Data) > 0 {
		t.logger.Warn("Error committing rules", "subject", t.subject, "response", string(reply.Data))
		return &Error{Message: string(reply.Data)}
	}
	return nil
}
