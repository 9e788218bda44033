package rulesapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/c360studio/semmap/rules"
	"github.com/c360studio/semmap/storage"
	"github.com/c360studio/semmap/transport"
	"github.com/c360studio/semmap/vocabulary/mapping"
)

// maxRequestBodySize limits PUT and POST body sizes.
const maxRequestBodySize = 4 << 20 // 4 MB

// RegisterHTTPHandlers registers all rules-api HTTP handlers under the given prefix.
// The prefix should be the path segment without a trailing slash (e.g. "api/semmap").
// Handlers are registered as:
//
//	GET  <prefix>/rules
//	PUT  <prefix>/rules
//	POST <prefix>/rules/serialize
//	GET  <prefix>/value-types
//	GET  <prefix>/prefixes
func (c *Component) RegisterHTTPHandlers(prefix string, mux *http.ServeMux) {
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix = prefix + "/"
	}

	mux.HandleFunc(prefix+"rules", c.handleRules)
	mux.HandleFunc(prefix+"rules/serialize", c.handleSerialize)
	mux.HandleFunc(prefix+"value-types", c.handleValueTypes)
	mux.HandleFunc(prefix+"prefixes", c.handlePrefixes)
}

// MetricsHandler exposes the component's Prometheus registry.
func (c *Component) MetricsHandler() http.Handler {
	return c.metrics.handler()
}

// PutResponse is returned after a document is stored.
type PutResponse struct {
	Project   string `json:"project"`
	ID        string `json:"id"`
	Revision  uint64 `json:"revision"`
	RuleCount int    `json:"rule_count"`
}

// MessagesResponse carries validation messages back to the editor.
type MessagesResponse struct {
	Messages []rules.Message `json:"messages"`
}

// projectFor returns the project named by the request query or header,
// falling back to the configured default.
func (c *Component) projectFor(r *http.Request) (string, error) {
	project := r.URL.Query().Get("project")
	if project == "" {
		project = r.Header.Get(transport.HeaderProject)
	}
	if project == "" {
		project = c.config.Project
	}
	if err := storage.ValidateProject(project); err != nil {
		return "", err
	}
	return project, nil
}

func (c *Component) handleRules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.handleGetRules(w, r)
	case http.MethodPut:
		c.handlePutRules(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetRules returns the latest stored document for a project.
func (c *Component) handleGetRules(w http.ResponseWriter, r *http.Request) {
	project, err := c.projectFor(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	store := c.ruleStore()
	if store == nil {
		http.Error(w, "rules store not available", http.StatusServiceUnavailable)
		return
	}

	entry, err := store.GetRules(r.Context(), project)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "no rules stored for project "+project, http.StatusNotFound)
		return
	}
	if err != nil {
		c.logger.Error("Failed to read rules", "project", project, "error", err)
		http.Error(w, "failed to read rules", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", transport.ContentTypeXML)
	w.Header().Set("ETag", strconv.FormatUint(entry.Revision, 10))
	_, _ = w.Write(entry.Document)
}

// handlePutRules stores a TransformRules document. Rejections are written as
// plain text so the editor can show them verbatim.
func (c *Component) handlePutRules(w http.ResponseWriter, r *http.Request) {
	project, err := c.projectFor(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	entry, msgs, err := c.storeDocument(r.Context(), project, "http", data)
	if err != nil {
		c.logger.Error("Failed to store rules", "project", project, "error", err)
		http.Error(w, "failed to store rules", http.StatusInternalServerError)
		return
	}
	if len(msgs) > 0 {
		http.Error(w, joinMessages(msgs), http.StatusBadRequest)
		return
	}

	writeJSON(w, PutResponse{
		Project:   project,
		ID:        entry.ID,
		Revision:  entry.Revision,
		RuleCount: entry.RuleCount,
	})
}

// handleSerialize converts an editor snapshot into TransformRules XML
// without storing it.
func (c *Component) handleSerialize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	snap, err := rules.DecodeSnapshot(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ruleList, err := snap.ToRules()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, msgs := rules.Serialize(ruleList, c.prefixes.Merge(snap.Prefixes))
	if len(msgs) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		if err := json.NewEncoder(w).Encode(MessagesResponse{Messages: msgs}); err != nil {
			c.logger.Warn("Failed to encode messages", "error", err)
		}
		return
	}

	out, err := doc.Bytes()
	if err != nil {
		c.logger.Error("Failed to encode document", "error", err)
		http.Error(w, "failed to encode document", http.StatusInternalServerError)
		return
	}
	c.metrics.serialized.Inc()
	c.updateLastActivity()

	w.Header().Set("Content-Type", transport.ContentTypeXML)
	_, _ = w.Write(out)
}

// handleValueTypes lists the node types offered by the rule editor.
func (c *Component) handleValueTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, mapping.ValueTypes())
}

// handlePrefixes returns the prefix table used for CURIE expansion.
func (c *Component) handlePrefixes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, c.prefixes)
}

func joinMessages(msgs []rules.Message) string {
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = m.Text
	}
	return strings.Join(lines, "\n")
}

// writeJSON encodes v as JSON and writes it to w with a 200 status.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
