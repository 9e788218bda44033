package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/c360studio/semmap/rules"
	"github.com/c360studio/semmap/status"
	"github.com/c360studio/semmap/transport"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recordingTransport captures every document it is asked to store.
type recordingTransport struct {
	mu   sync.Mutex
	docs []string
	err  error
	sent chan struct{}
}

func newRecordingTransport() *recordingTransport {
	return &recordingTransport{sent: make(chan struct{}, 16)}
}

func (r *recordingTransport) PutRules(_ context.Context, doc []byte) error {
	r.mu.Lock()
	r.docs = append(r.docs, string(doc))
	err := r.err
	r.mu.Unlock()
	r.sent <- struct{}{}
	return err
}

func (r *recordingTransport) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

func (r *recordingTransport) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[len(r.docs)-1]
}

func TestSession_SaveSuccess(t *testing.T) {
	tr := newRecordingTransport()
	s := NewSession(tr, Options{Prefixes: rules.PrefixTable{"ex": "http://example.org/"}})
	defer s.Close()

	s.Load([]rules.Rule{{Name: "t", Kind: rules.KindType, Type: "ex:T"}})
	assert.False(t, s.Dirty())

	sum, err := s.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, status.StateValid, sum.State)
	assert.Equal(t, 1, tr.count())
	assert.Contains(t, tr.last(), `name="t"`)
}

func TestSession_DuplicateNamesBlockSave(t *testing.T) {
	tr := newRecordingTransport()
	s := NewSession(tr, Options{SaveDelay: time.Hour})
	defer s.Close()

	s.Update([]rules.Rule{{Name: "r1", Kind: rules.KindType}, {Name: "r1", Kind: rules.KindDirect}})
	assert.True(t, s.Dirty())
	assert.Equal(t, status.StatePending, s.Status().State)

	sum, err := s.Save(context.Background())
	var verr *rules.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, status.StateInvalid, sum.State)
	require.Len(t, sum.Messages, 1)
	assert.Equal(t, "The following name is not unique: r1", sum.Messages[0].Text)
	assert.Zero(t, tr.count(), "nothing is sent when validation fails")
	assert.True(t, s.Dirty())
}

func TestSession_TransportErrorShownVerbatim(t *testing.T) {
	tr := newRecordingTransport()
	tr.err = &transport.Error{StatusCode: 400, Message: "Invalid rule"}
	s := NewSession(tr, Options{SaveDelay: time.Hour})
	defer s.Close()

	s.Update([]rules.Rule{{Name: "a", Kind: rules.KindType}})
	sum, err := s.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, status.StateInvalid, sum.State)
	assert.Equal(t, "Invalid rule", sum.Messages[0].Text)
	assert.True(t, s.Dirty())
}

func TestSession_AutoSaveCoalesces(t *testing.T) {
	tr := newRecordingTransport()
	var statusMu sync.Mutex
	var states []status.State
	s := NewSession(tr, Options{
		SaveDelay: 30 * time.Millisecond,
		OnStatus: func(sum status.Summary) {
			statusMu.Lock()
			states = append(states, sum.State)
			statusMu.Unlock()
		},
	})
	defer s.Close()

	for i := 0; i < 5; i++ {
		s.Update([]rules.Rule{{Name: "a", Kind: rules.KindURI, Pattern: "http://x/{id}"}})
	}

	select {
	case <-tr.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("auto-save did not run")
	}
	require.Eventually(t, func() bool { return !s.Dirty() }, time.Second, 5*time.Millisecond)

	// No second save should follow the burst.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, tr.count())

	statusMu.Lock()
	defer statusMu.Unlock()
	assert.Equal(t, status.StateValid, states[len(states)-1])
	assert.Contains(t, states, status.StatePending)
}

func TestSession_ManualSaveCancelsAutoSave(t *testing.T) {
	tr := newRecordingTransport()
	s := NewSession(tr, Options{SaveDelay: 50 * time.Millisecond})
	defer s.Close()

	s.Update([]rules.Rule{{Name: "a", Kind: rules.KindType}})
	_, err := s.Save(context.Background())
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, tr.count())
}

// blockingTransport holds every PutRules call until release is closed.
type blockingTransport struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingTransport) PutRules(ctx context.Context, _ []byte) error {
	b.started <- struct{}{}
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestSession_UpdateDuringSaveStaysDirty(t *testing.T) {
	tr := &blockingTransport{started: make(chan struct{}, 1), release: make(chan struct{})}
	s := NewSession(tr, Options{SaveDelay: time.Hour})
	defer s.Close()

	s.Update([]rules.Rule{{Name: "a", Kind: rules.KindType}})

	done := make(chan error, 1)
	go func() {
		_, err := s.Save(context.Background())
		done <- err
	}()

	select {
	case <-tr.started:
	case <-time.After(time.Second):
		t.Fatal("save never reached the transport")
	}
	s.Update([]rules.Rule{{Name: "a", Kind: rules.KindType}, {Name: "b", Kind: rules.KindType}})
	close(tr.release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("save did not finish")
	}
	assert.True(t, s.Dirty(), "edits made while saving are still unsaved")
}

func TestSession_DropsBlankURIMapping(t *testing.T) {
	tr := newRecordingTransport()
	s := NewSession(tr, Options{})
	defer s.Close()

	s.Load([]rules.Rule{
		{Name: "uri", Kind: rules.KindURI, Pattern: "   "},
		{Name: "t", Kind: rules.KindType, Type: "http://x/T"},
	})
	_, err := s.Save(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, tr.last(), `name="uri"`)
	assert.Contains(t, tr.last(), `name="t"`)
}

func TestSession_SaveAndOpen(t *testing.T) {
	s := NewSession(newRecordingTransport(), Options{})
	defer s.Close()

	path, err := s.SaveAndOpen(context.Background(), "my rule")
	require.NoError(t, err)
	assert.Equal(t, "./editor/my%20rule", path)
}

func TestSession_NextName(t *testing.T) {
	s := NewSession(newRecordingTransport(), Options{})
	defer s.Close()

	s.Load([]rules.Rule{{Name: "direct1"}, {Name: "direct2"}})
	name, ok := s.NextName("direct")
	assert.True(t, ok)
	assert.Equal(t, "direct3", name)
}
