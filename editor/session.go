// Package editor hosts the state of one rule editing session: the current
// rule rows, the auto-save timer, and the status shown after each save.
package editor

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/c360studio/semmap/rules"
	"github.com/c360studio/semmap/status"
	"github.com/c360studio/semmap/transport"
)

const (
	// DefaultSaveDelay is the quiet period before an automatic save.
	DefaultSaveDelay = 2 * time.Second

	// DefaultSaveTimeout bounds an automatic save.
	DefaultSaveTimeout = 30 * time.Second
)

// Options configures a Session.
type Options struct {
	SaveDelay   time.Duration
	SaveTimeout time.Duration
	Prefixes    rules.PrefixTable
	Logger      *slog.Logger

	// OnStatus is called after every status change. It must not call back
	// into the session's Close.
	OnStatus func(status.Summary)
}

// Session holds the editor state and saves it through a Transport.
type Session struct {
	transport   transport.Transport
	prefixes    rules.PrefixTable
	logger      *slog.Logger
	onStatus    func(status.Summary)
	saveTimeout time.Duration
	autosave    *Debouncer

	mu         sync.Mutex
	rules      []rules.Rule
	generation uint64
	dirty      bool
	status     status.Summary
}

// NewSession creates a session with no rules.
func NewSession(t transport.Transport, opts Options) *Session {
	if opts.SaveDelay <= 0 {
		opts.SaveDelay = DefaultSaveDelay
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = DefaultSaveTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Session{
		transport:   t,
		prefixes:    opts.Prefixes,
		logger:      opts.Logger,
		onStatus:    opts.OnStatus,
		saveTimeout: opts.SaveTimeout,
		status:      status.Summarize(nil),
	}
	s.autosave = NewDebouncer(opts.SaveDelay, s.autoSave)
	return s
}

// Load replaces the rules without marking the session modified.
func (s *Session) Load(rs []rules.Rule) {
	s.mu.Lock()
	s.rules = append([]rules.Rule(nil), rs...)
	s.mu.Unlock()
}

// Update replaces the rules and schedules a save.
func (s *Session) Update(rs []rules.Rule) {
	s.mu.Lock()
	s.rules = append([]rules.Rule(nil), rs...)
	s.mu.Unlock()
	s.Modified()
}

// Modified marks the session dirty and restarts the auto-save timer.
func (s *Session) Modified() {
	s.mu.Lock()
	s.generation++
	s.dirty = true
	s.mu.Unlock()
	s.setStatus(status.Pending())
	s.autosave.Trigger()
}

// Rules returns a copy of the current rules.
func (s *Session) Rules() []rules.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]rules.Rule(nil), s.rules...)
}

// NextName returns an unused rule name of the form prefix+N.
func (s *Session) NextName(prefix string) (string, bool) {
	return rules.GenerateName(prefix, rules.Names(s.Rules()))
}

// Dirty reports whether there are changes that have not been saved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Status returns the last status.
func (s *Session) Status() status.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Save serializes and stores the current rules immediately, cancelling a
// pending auto-save. Duplicate names abort the save with a
// *rules.ValidationError before anything is sent.
func (s *Session) Save(ctx context.Context) (status.Summary, error) {
	s.autosave.Cancel()

	s.mu.Lock()
	generation := s.generation
	current := s.dropBlankURIMappings(s.rules)
	s.mu.Unlock()

	doc, msgs := rules.Serialize(current, s.prefixes)
	if len(msgs) > 0 {
		return s.setStatus(status.Summarize(msgs)), &rules.ValidationError{Messages: msgs}
	}

	data, err := doc.Bytes()
	if err != nil {
		return s.fail(err), err
	}
	if err := s.transport.PutRules(ctx, data); err != nil {
		s.logger.Warn("Error committing rules", "error", err)
		return s.fail(err), err
	}

	s.mu.Lock()
	if s.generation == generation {
		s.dirty = false
	}
	s.mu.Unlock()

	s.logger.Debug("Saved rules", "rules", doc.Len(), "bytes", len(data))
	return s.setStatus(status.Summarize(nil)), nil
}

// SaveAndOpen saves and returns the editor path of the named rule.
func (s *Session) SaveAndOpen(ctx context.Context, name string) (string, error) {
	if _, err := s.Save(ctx); err != nil {
		return "", err
	}
	return "./editor/" + url.PathEscape(name), nil
}

// Close stops the auto-save timer and waits for a running save.
func (s *Session) Close() {
	s.autosave.Stop()
}

func (s *Session) autoSave() {
	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()
	if _, err := s.Save(ctx); err != nil {
		s.logger.Debug("Auto-save failed", "error", err)
	}
}

// dropBlankURIMappings removes URI mappings whose pattern was cleared; an
// empty pattern means the author removed the URI mapping.
func (s *Session) dropBlankURIMappings(rs []rules.Rule) []rules.Rule {
	out := make([]rules.Rule, 0, len(rs))
	for _, r := range rs {
		if r.Kind == rules.KindURI && rules.IsBlankPattern(r.Pattern) {
			s.logger.Debug("Dropping empty URI mapping", "rule", r.Name)
			continue
		}
		out = append(out, r)
	}
	return out
}

// fail records err as the only status message. Remote errors are shown as
// received.
func (s *Session) fail(err error) status.Summary {
	text := err.Error()
	var terr *transport.Error
	if errors.As(err, &terr) {
		text = terr.Message
	}
	return s.setStatus(status.Summarize([]rules.Message{rules.ErrorMessage(text)}))
}

func (s *Session) setStatus(sum status.Summary) status.Summary {
	s.mu.Lock()
	s.status = sum
	s.mu.Unlock()
	if s.onStatus != nil {
		s.onStatus(sum)
	}
	return sum
}
