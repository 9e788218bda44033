package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxErrorBodySize bounds how much of an error response is read.
const maxErrorBodySize = 64 << 10

// ContentTypeXML is the content type of rule documents.
const ContentTypeXML = "text/xml"

// HTTPTransport PUTs rule documents to <baseURL>/rules.
type HTTPTransport struct {
	baseURL string
	project string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPTransport creates an HTTP transport. A nil client gets a 30s
// timeout and a nil logger uses slog.Default().
func NewHTTPTransport(baseURL string, client *http.Client, logger *slog.Logger) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPTransport{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// WithProject sets the project sent in the HeaderProject header.
func (t *HTTPTransport) WithProject(project string) *HTTPTransport {
	t.project = project
	return t
}

// PutRules implements Transport.
func (t *HTTPTransport) PutRules(ctx context.Context, doc []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, t.baseURL+"/rules", bytes.NewReader(doc))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Content-Type", ContentTypeXML)
	req.Header.Set("X-Request-ID", requestID)
	if t.project != "" {
		req.Header.Set(HeaderProject, t.project)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("put rules: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		t.logger.Debug("Committed rules", "request_id", requestID, "bytes", len(doc))
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	t.logger.Warn("Error committing rules",
		"request_id", requestID,
		"status", resp.StatusCode,
		"response", string(body))
	return &Error{StatusCode: resp.StatusCode, Message: string(body)}
}
