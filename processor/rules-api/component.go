// Package rulesapi provides the endpoints that transform rule editors save
// to. Documents arrive as TransformRules XML over HTTP PUT or as NATS
// requests, are checked for duplicate rule names, and are stored per
// project.
package rulesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/natsclient"

	"github.com/c360studio/semmap/rules"
	"github.com/c360studio/semmap/storage"
	"github.com/c360studio/semmap/vocabulary/mapping"
)

// Component implements the rules-api component.
type Component struct {
	name       string
	config     Config
	logger     *slog.Logger
	natsClient *natsclient.Client
	prefixes   rules.PrefixTable
	metrics    *metrics

	storeMu sync.RWMutex
	store   storage.RuleStore

	// Lifecycle state machine
	// States: 0=stopped, 1=starting, 2=running, 3=stopping
	state     atomic.Int32
	startTime time.Time
	mu        sync.RWMutex
	runCtx    context.Context
	cancel    context.CancelFunc

	documentsStored atomic.Int64
	rejections      atomic.Int64
	lastActivityMu  sync.RWMutex
	lastActivity    time.Time
}

const (
	stateStopped  = 0
	stateStarting = 1
	stateRunning  = 2
	stateStopping = 3
)

// NewComponent constructs a rules-api Component from raw JSON config and deps.
func NewComponent(rawConfig json.RawMessage, deps component.Dependencies) (component.Discoverable, error) {
	config := DefaultConfig()
	if len(rawConfig) > 0 {
		if err := json.Unmarshal(rawConfig, &config); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}
	if config.Project == "" {
		config.Project = DefaultConfig().Project
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return newComponent(config, deps.GetLogger(), deps.NATSClient), nil
}

func newComponent(config Config, logger *slog.Logger, nc *natsclient.Client) *Component {
	if logger == nil {
		logger = slog.Default()
	}
	return &Component{
		name:       "rules-api",
		config:     config,
		logger:     logger,
		natsClient: nc,
		prefixes:   rules.PrefixTable(mapping.DefaultPrefixes()).Merge(config.Prefixes),
		metrics:    newMetrics(),
	}
}

// SetStore replaces the document store. It must be called before Start.
func (c *Component) SetStore(store storage.RuleStore) {
	c.storeMu.Lock()
	c.store = store
	c.storeMu.Unlock()
}

func (c *Component) ruleStore() storage.RuleStore {
	c.storeMu.RLock()
	defer c.storeMu.RUnlock()
	return c.store
}

// Initialize prepares the component for startup.
func (c *Component) Initialize() error {
	c.logger.Debug("Initialized rules-api", "project", c.config.Project, "use_kv", c.config.UseKV)
	return nil
}

// Start opens the document store and marks the component running.
func (c *Component) Start(ctx context.Context) error {
	if !c.state.CompareAndSwap(stateStopped, stateStarting) {
		current := c.state.Load()
		if current == stateRunning || current == stateStarting {
			return fmt.Errorf("component already running or starting")
		}
		return fmt.Errorf("component in invalid state: %d", current)
	}

	defer func() {
		if c.state.Load() == stateStarting {
			c.state.Store(stateStopped)
		}
	}()

	if err := c.openStore(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.runCtx = runCtx
	c.cancel = cancel
	c.startTime = time.Now()
	c.mu.Unlock()

	c.state.Store(stateRunning)
	c.logger.Info("rules-api started", "project", c.config.Project)
	return nil
}

func (c *Component) openStore(ctx context.Context) error {
	if c.ruleStore() != nil {
		return nil
	}
	if c.config.UseKV && c.natsClient != nil {
		js, err := c.natsClient.JetStream()
		if err != nil {
			return fmt.Errorf("get JetStream: %w", err)
		}
		kv, err := storage.NewKVStore(ctx, js)
		if err != nil {
			return fmt.Errorf("open rules store: %w", err)
		}
		c.SetStore(kv)
		return nil
	}
	if c.config.UseKV {
		c.logger.Warn("use_kv set without NATS client, storing rules in memory")
	}
	c.SetStore(storage.NewMemoryStore())
	return nil
}

// Stop gracefully stops the component.
func (c *Component) Stop(_ time.Duration) error {
	if !c.state.CompareAndSwap(stateRunning, stateStopping) {
		current := c.state.Load()
		if current == stateStopped || current == stateStopping {
			return nil
		}
		return fmt.Errorf("component in unexpected state: %d", current)
	}

	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	c.state.Store(stateStopped)
	c.logger.Info("rules-api stopped",
		"documents_stored", c.documentsStored.Load(),
		"rejections", c.rejections.Load())
	return nil
}

// Meta returns component metadata.
func (c *Component) Meta() component.Metadata {
	return component.Metadata{
		Name:        "rules-api",
		Type:        "processor",
		Description: "HTTP and NATS endpoints for storing transform rule documents",
		Version:     "0.1.0",
	}
}

// InputPorts returns an empty port list; documents arrive over HTTP or a
// direct NATS subscription.
func (c *Component) InputPorts() []component.Port {
	return []component.Port{}
}

// OutputPorts returns an empty port list.
func (c *Component) OutputPorts() []component.Port {
	return []component.Port{}
}

// ConfigSchema returns the configuration schema.
func (c *Component) ConfigSchema() component.ConfigSchema {
	return rulesAPISchema
}

// Health returns the current health status.
func (c *Component) Health() component.HealthStatus {
	state := c.state.Load()
	running := state == stateRunning

	c.mu.RLock()
	startTime := c.startTime
	c.mu.RUnlock()

	status := "stopped"
	switch state {
	case stateStarting:
		status = "starting"
	case stateRunning:
		status = "running"
	case stateStopping:
		status = "stopping"
	}

	return component.HealthStatus{
		Healthy:    running,
		LastCheck:  time.Now(),
		ErrorCount: int(c.rejections.Load()),
		Uptime:     time.Since(startTime),
		Status:     status,
	}
}

// DataFlow returns current data flow metrics.
func (c *Component) DataFlow() component.FlowMetrics {
	return component.FlowMetrics{
		LastActivity: c.getLastActivity(),
	}
}

// storeDocument validates and stores a TransformRules document. Validation
// failures are returned as messages with a nil error.
func (c *Component) storeDocument(ctx context.Context, project, via string, data []byte) (*storage.Entry, []rules.Message, error) {
	store := c.ruleStore()
	if store == nil {
		return nil, nil, fmt.Errorf("component not started")
	}

	doc, err := rules.ParseDocument(data)
	if err != nil {
		c.reject(reasonMalformed)
		return nil, []rules.Message{rules.ErrorMessage(err.Error())}, nil
	}
	if msgs := rules.ValidateNames(doc.Names()); len(msgs) > 0 {
		c.reject(reasonDuplicate)
		return nil, msgs, nil
	}

	entry, err := store.PutRules(ctx, project, data, doc.Len())
	if err != nil {
		c.reject(reasonStorage)
		return nil, nil, err
	}

	c.documentsStored.Add(1)
	c.metrics.saved.WithLabelValues(via).Inc()
	c.metrics.ruleCount.WithLabelValues(project).Set(float64(entry.RuleCount))
	c.updateLastActivity()
	c.logger.Debug("Stored rules",
		"project", project,
		"via", via,
		"rules", entry.RuleCount,
		"revision", entry.Revision)
	return entry, nil, nil
}

// done returns a channel closed when the component stops. It is nil before
// Start, which blocks forever in a select.
func (c *Component) done() <-chan struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.runCtx == nil {
		return nil
	}
	return c.runCtx.Done()
}

func (c *Component) reject(reason string) {
	c.rejections.Add(1)
	c.metrics.rejected.WithLabelValues(reason).Inc()
}

func (c *Component) updateLastActivity() {
	c.lastActivityMu.Lock()
	c.lastActivity = time.Now()
	c.lastActivityMu.Unlock()
}

func (c *Component) getLastActivity() time.Time {
	c.lastActivityMu.RLock()
	defer c.lastActivityMu.RUnlock()
	return c.lastActivity
}
