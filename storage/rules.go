// Package storage keeps the latest TransformRules document of each project,
// either in memory or in a NATS KV bucket.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
)

// BucketRules is the KV bucket holding rule documents.
const BucketRules = "SEMMAP_RULES"

var projectKey = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)

// Entry is one stored rule document.
type Entry struct {
	Project   string    `json:"project"`
	ID        string    `json:"id"`
	Revision  uint64    `json:"revision"`
	Document  []byte    `json:"document"`
	RuleCount int       `json:"rule_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RuleStore stores rule documents per project.
type RuleStore interface {
	PutRules(ctx context.Context, project string, doc []byte, ruleCount int) (*Entry, error)
	GetRules(ctx context.Context, project string) (*Entry, error)
}

// ValidateProject checks that project is usable as a storage key.
func ValidateProject(project string) error {
	if !projectKey.MatchString(project) {
		return fmt.Errorf("%w: %q", ErrInvalidProject, project)
	}
	return nil
}

// clone copies e so callers cannot modify a stored document.
func (e *Entry) clone() *Entry {
	out := *e
	out.Document = append([]byte(nil), e.Document...)
	return &out
}

func newEntry(project string, doc []byte, ruleCount int) *Entry {
	return &Entry{
		Project:   project,
		ID:        uuid.New().String(),
		Document:  append([]byte(nil), doc...),
		RuleCount: ruleCount,
		UpdatedAt: time.Now(),
	}
}

// MemoryStore is a RuleStore for tests and single-process use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

// PutRules stores doc as the project's current document.
func (s *MemoryStore) PutRules(_ context.Context, project string, doc []byte, ruleCount int) (*Entry, error) {
	if err := ValidateProject(project); err != nil {
		return nil, err
	}
	e := newEntry(project, doc, ruleCount)

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.entries[project]; ok {
		e.Revision = prev.Revision
	}
	e.Revision++
	s.entries[project] = e

	return e.clone(), nil
}

// GetRules returns the project's current document.
func (s *MemoryStore) GetRules(_ context.Context, project string) (*Entry, error) {
	if err := ValidateProject(project); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[project]
	if !ok {
		return nil, ErrNotFound
	}
	return e.clone(), nil
}

// KVStore is a RuleStore backed by NATS KV. The bucket keeps the last
// five revisions of each project.
type KVStore struct {
	rules jetstream.KeyValue
}

// NewKVStore opens the rules bucket, creating it if needed.
func NewKVStore(ctx context.Context, js jetstream.JetStream) (*KVStore, error) {
	kv, err := getOrCreateBucket(ctx, js, BucketRules)
	if err != nil {
		return nil, fmt.Errorf("create rules bucket: %w", err)
	}
	return &KVStore{rules: kv}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "Semmap transform rule documents",
		History:     5,
	})
}

// PutRules stores doc under the project key.
func (s *KVStore) PutRules(ctx context.Context, project string, doc []byte, ruleCount int) (*Entry, error) {
	if err := ValidateProject(project); err != nil {
		return nil, err
	}
	e := newEntry(project, doc, ruleCount)

	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal rules entry: %w", err)
	}
	rev, err := s.rules.Put(ctx, project, data)
	if err != nil {
		return nil, fmt.Errorf("store rules: %w", err)
	}
	e.Revision = rev
	return e, nil
}

// GetRules returns the latest document of project.
func (s *KVStore) GetRules(ctx context.Context, project string) (*Entry, error) {
	if err := ValidateProject(project); err != nil {
		return nil, err
	}
	kvEntry, err := s.rules.Get(ctx, project)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get rules: %w", err)
	}

	var e Entry
	if err := json.Unmarshal(kvEntry.Value(), &e); err != nil {
		return nil, fmt.Errorf("unmarshal rules entry: %w", err)
	}
	e.Revision = kvEntry.Revision()
	return &e, nil
}
