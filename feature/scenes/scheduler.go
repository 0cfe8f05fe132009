package scenes

import (
	"context"
	"sync"
	"time"
)

// WorkFunc is one unit of scheduled work.
type WorkFunc[R any] func(ctx context.Context) (R, error)

type task[R any] struct {
	ctx  context.Context
	fn   WorkFunc[R]
	done chan struct{}

	// next is set, before done is closed, when a newer task replaced this one.
	next *task[R]
	res  R
	err  error
}

type lane[R any] struct {
	pending *task[R]
}

// Scheduler runs work serially per key. While work for a key is running,
// only the most recently scheduled work is kept; callers whose work was
// dropped receive the result of the work that replaced it.
type Scheduler[R any] struct {
	timeout time.Duration

	mu    sync.Mutex
	lanes map[string]*lane[R]
}

// NewScheduler creates a scheduler. A positive timeout bounds each unit of work.
func NewScheduler[R any](timeout time.Duration) *Scheduler[R] {
	return &Scheduler[R]{
		timeout: timeout,
		lanes:   make(map[string]*lane[R]),
	}
}

// Schedule queues fn under key and waits for its outcome. coalesced reports
// that fn was superseded and the result belongs to later work. Once queued,
// work runs even if ctx is cancelled; Schedule then returns ctx.Err().
func (s *Scheduler[R]) Schedule(ctx context.Context, key string, fn WorkFunc[R]) (res R, coalesced bool, err error) {
	t := &task[R]{ctx: ctx, fn: fn, done: make(chan struct{})}

	s.mu.Lock()
	if l, busy := s.lanes[key]; busy {
		if old := l.pending; old != nil {
			old.next = t
			close(old.done)
		}
		l.pending = t
	} else {
		s.lanes[key] = &lane[R]{}
		go s.drain(key, t)
	}
	s.mu.Unlock()

	cur := t
	for {
		select {
		case <-cur.done:
			if cur.next != nil {
				cur = cur.next
				coalesced = true
				continue
			}
			return cur.res, coalesced, cur.err
		case <-ctx.Done():
			var zero R
			return zero, false, ctx.Err()
		}
	}
}

// Pending reports whether any work for key is running or queued.
func (s *Scheduler[R]) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.lanes[key]
	return ok
}

func (s *Scheduler[R]) drain(key string, t *task[R]) {
	for t != nil {
		s.run(t)
		close(t.done)

		s.mu.Lock()
		l := s.lanes[key]
		t, l.pending = l.pending, nil
		if t == nil {
			delete(s.lanes, key)
		}
		s.mu.Unlock()
	}
}

func (s *Scheduler[R]) run(t *task[R]) {
	ctx := context.WithoutCancel(t.ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	t.res, t.err = t.fn(ctx)
}
