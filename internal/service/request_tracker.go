package service

import (
	"context"
	"sync"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/metrics"
)

// Request kinds tracked for supersession.
const (
	KindSearch   = "search"
	KindScreener = "screener"
)

type trackKey struct {
	uid  string
	kind string
}

type tracked struct {
	gen    uint64
	cancel context.CancelFunc
}

// RequestTracker makes the newest request of a (user, kind) pair win.
// Starting a request cancels the one in flight before it; the cancelled request
// finishes with apperrors.ErrSuperseded instead of its result.
type RequestTracker struct {
	mu       sync.Mutex
	seq      uint64
	inflight map[trackKey]tracked
	metrics  *metrics.Metrics
}

// NewRequestTracker creates an empty tracker.
func NewRequestTracker(m *metrics.Metrics) *RequestTracker {
	return &RequestTracker{
		inflight: make(map[trackKey]tracked),
		metrics:  m,
	}
}

// Begin registers a new request and returns its context together with a finish
// function. finish must be called exactly once with the request's outcome; it
// returns apperrors.ErrSuperseded if a newer request started in the meantime,
// otherwise err unchanged.
func (t *RequestTracker) Begin(ctx context.Context, uid, kind string) (context.Context, func(err error) error) {
	ctx, cancel := context.WithCancel(ctx)
	key := trackKey{uid: uid, kind: kind}

	t.mu.Lock()
	t.seq++
	gen := t.seq
	if prev, ok := t.inflight[key]; ok {
		prev.cancel()
	}
	t.inflight[key] = tracked{gen: gen, cancel: cancel}
	t.mu.Unlock()

	finish := func(err error) error {
		t.mu.Lock()
		cur, ok := t.inflight[key]
		current := ok && cur.gen == gen
		if current {
			delete(t.inflight, key)
		}
		t.mu.Unlock()
		cancel()

		if !current {
			t.metrics.ObserveSuperseded(kind)
			return apperrors.ErrSuperseded
		}
		return err
	}

	return ctx, finish
}

// InFlight reports how many requests are currently tracked.
func (t *RequestTracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight)
}
