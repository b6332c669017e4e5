package daemon

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/tiledecor/internal/decor"
	"github.com/1broseidon/tiledecor/internal/geometry"
)

type fakeSource struct {
	mu     sync.Mutex
	states []decor.WindowState
	err    error
	panics bool
	calls  int
}

func (s *fakeSource) Windows() ([]decor.WindowState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.panics {
		panic("source exploded")
	}
	return s.states, s.err
}

func (s *fakeSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeSyncer struct {
	mu    sync.Mutex
	snaps [][]decor.WindowState
	err   error
}

func (f *fakeSyncer) Sync(states []decor.WindowState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snaps = append(f.snaps, states)
	return f.err
}

func (f *fakeSyncer) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.snaps)
}

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestPoll_FeedsSnapshot(t *testing.T) {
	src := &fakeSource{states: []decor.WindowState{{ID: 7, Content: geometry.New(0, 0, 10, 10)}}}
	syn := &fakeSyncer{}
	p := NewPoller(PollerConfig{Logger: quietLogger(&bytes.Buffer{})}, src, syn)

	if err := p.Poll(); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if syn.Count() != 1 || syn.snaps[0][0].ID != 7 {
		t.Fatalf("expected snapshot forwarded, got %+v", syn.snaps)
	}
}

func TestPoll_SourceErrorSkipsSync(t *testing.T) {
	src := &fakeSource{err: errors.New("no display")}
	syn := &fakeSyncer{}
	p := NewPoller(PollerConfig{}, src, syn)

	err := p.Poll()
	if err == nil || !strings.Contains(err.Error(), "no display") {
		t.Fatalf("expected source error, got %v", err)
	}
	if syn.Count() != 0 {
		t.Fatalf("expected no sync on error")
	}
}

func TestPoll_RecoversPanic(t *testing.T) {
	p := NewPoller(PollerConfig{}, &fakeSource{panics: true}, &fakeSyncer{})

	err := p.Poll()
	if err == nil || !strings.Contains(err.Error(), "source exploded") {
		t.Fatalf("expected recovered panic as error, got %v", err)
	}
}

func TestNewPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(PollerConfig{Interval: -1}, &fakeSource{}, &fakeSyncer{})
	if p.interval != DefaultInterval {
		t.Fatalf("expected default interval, got %v", p.interval)
	}
}

func TestRun_PollsUntilCancelled(t *testing.T) {
	var logs bytes.Buffer
	src := &fakeSource{}
	syn := &fakeSyncer{err: errors.New("draw failed")}
	p := NewPoller(PollerConfig{Interval: time.Millisecond, Logger: quietLogger(&logs)}, src, syn)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for syn.Count() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("poller did not tick, %d passes", syn.Count())
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if !strings.Contains(logs.String(), "poll failed") {
		t.Fatalf("expected sync errors to be logged, got %q", logs.String())
	}
}
