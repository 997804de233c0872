package console

import (
	"context"
	"sync"
)

// SelectionState names the lifecycle phase of the conversation pane.
type SelectionState string

const (
	SelectionIdle    SelectionState = "idle"
	SelectionLoading SelectionState = "loading"
	SelectionLoaded  SelectionState = "loaded"
	SelectionFailed  SelectionState = "failed"
)

// ConversationFetcher loads a conversation's full detail. The service
// satisfies this; tests use stubs with controllable latency.
type ConversationFetcher interface {
	Conversation(ctx context.Context, tenant string, id int64) (ConversationDetail, error)
}

// SelectionSnapshot is an immutable view of the selector for rendering.
type SelectionSnapshot struct {
	State  SelectionState
	ID     int64
	Detail ConversationDetail
	Err    error
}

// Selector tracks which conversation the viewer has open and mediates the
// fetch lifecycle. Concurrent selections race naturally; the last selection
// wins. Each fetch carries a sequence number, and a completion whose number
// is not the latest is discarded, so a slow response for a previously
// selected conversation can never overwrite the pane.
type Selector struct {
	fetcher ConversationFetcher
	tenant  string

	mu     sync.Mutex
	seq    uint64
	state  SelectionState
	id     int64
	detail ConversationDetail
	err    error
}

// NewSelector builds an idle selector bound to one tenant.
func NewSelector(fetcher ConversationFetcher, tenant string) *Selector {
	return &Selector{fetcher: fetcher, tenant: tenant, state: SelectionIdle}
}

// Select makes id the current conversation and fetches its detail. The
// returned snapshot reflects the selector after the fetch completed or was
// superseded by a newer selection.
func (s *Selector) Select(ctx context.Context, id int64) SelectionSnapshot {
	seq := s.begin(id)
	detail, err := s.fetcher.Conversation(ctx, s.tenant, id)
	s.commit(seq, id, detail, err)
	return s.Snapshot()
}

// Retry re-fetches the current conversation after a failure. It is a no-op
// unless the selector is in the failed state.
func (s *Selector) Retry(ctx context.Context) SelectionSnapshot {
	s.mu.Lock()
	if s.state != SelectionFailed {
		s.mu.Unlock()
		return s.snapshotLocked()
	}
	id := s.id
	s.mu.Unlock()
	return s.Select(ctx, id)
}

// Clear returns the selector to idle, discarding any in-flight fetch.
func (s *Selector) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state = SelectionIdle
	s.id = 0
	s.detail = ConversationDetail{}
	s.err = nil
}

// Snapshot returns the current state for rendering.
func (s *Selector) Snapshot() SelectionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Selector) snapshotLocked() SelectionSnapshot {
	return SelectionSnapshot{State: s.state, ID: s.id, Detail: s.detail, Err: s.err}
}

func (s *Selector) begin(id int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state = SelectionLoading
	s.id = id
	s.detail = ConversationDetail{}
	s.err = nil
	return s.seq
}

func (s *Selector) commit(seq uint64, id int64, detail ConversationDetail, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		// A newer selection or Clear superseded this fetch.
		return
	}
	s.id = id
	if err != nil {
		s.state = SelectionFailed
		s.detail = ConversationDetail{}
		s.err = err
		return
	}
	s.state = SelectionLoaded
	s.detail = detail
	s.err = nil
}
