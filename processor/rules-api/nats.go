package rulesapi

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/c360studio/semmap/storage"
	"github.com/c360studio/semmap/transport"
)

// ServeNATS answers rule documents published on subject. An empty reply
// means the document was stored; any other reply is the error text shown
// to the editor. The subscription is drained when ctx is done or the
// component stops.
func (c *Component) ServeNATS(ctx context.Context, nc *nats.Conn, subject string) error {
	if subject == "" {
		subject = transport.DefaultSubject
	}

	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		project := msg.Header.Get(transport.HeaderProject)
		if project == "" {
			project = c.config.Project
		}
		reply := c.handleNATSDocument(ctx, project, msg.Data)
		if msg.Reply == "" {
			return
		}
		if err := msg.Respond([]byte(reply)); err != nil {
			c.logger.Warn("Failed to reply to rules request", "subject", subject, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}

	c.logger.Info("Serving rules over NATS", "subject", subject)

	stopped := c.done()
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
		}
		if err := sub.Drain(); err != nil {
			c.logger.Debug("Drain rules subscription", "error", err)
		}
	}()
	return nil
}

func (c *Component) handleNATSDocument(ctx context.Context, project string, data []byte) string {
	if err := storage.ValidateProject(project); err != nil {
		return err.Error()
	}
	_, msgs, err := c.storeDocument(ctx, project, "nats", data)
	if err != nil {
		c.logger.Error("Failed to store rules", "project", project, "error", err)
		return "failed to store rules"
	}
	if len(msgs) > 0 {
		return joinMessages(msgs)
	}
	return ""
}
