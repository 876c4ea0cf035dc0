// Package queue implements a deferred task queue: a collector for
// asynchronous work units that runs them concurrently and delivers a
// single terminal outcome once every unit has settled, or as soon as
// the first unit fails.
package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrAborted is the settlement reason used by Abort when the caller
// does not supply one.
var ErrAborted = errors.New("queue aborted")

// WorkUnit is a single asynchronous operation tracked by a Queue. It
// receives a resolve/reject pair and must eventually call exactly one
// of them. Calls after the first settlement of the unit are ignored.
type WorkUnit func(resolve func(any), reject func(error))

// Queue tracks registered work units and fires its terminal
// continuation exactly once. Success values are aggregated in
// registration order, regardless of the order units settle in. A unit
// that never settles leaves the queue pending forever; there is no
// timeout layer.
type Queue struct {
	mu sync.Mutex

	results     []any
	outstanding int
	registered  int

	thenAttached bool
	onFulfilled  func([]any)
	onRejected   func(error)

	settled bool
	fired   bool
	err     error

	done chan struct{}
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{done: make(chan struct{})}
}

// Defer registers a work unit and starts it on its own goroutine.
// Registering on an already settled queue is a contract violation and
// is ignored; the reported result is never altered after the fact.
func (q *Queue) Defer(unit WorkUnit) {
	q.mu.Lock()
	if q.settled {
		q.mu.Unlock()
		return
	}
	idx := q.registered
	q.registered++
	q.outstanding++
	q.results = append(q.results, nil)
	q.mu.Unlock()

	var once sync.Once
	resolve := func(v any) {
		once.Do(func() { q.unitFulfilled(idx, v) })
	}
	reject := func(err error) {
		once.Do(func() { q.unitRejected(err) })
	}
	go unit(resolve, reject)
}

// Then attaches the terminal continuation. The first failure among the
// registered units fires onRejected with that unit's reason; otherwise
// onFulfilled fires with every unit's success value in registration
// order once all of them have settled. A queue with no registered
// units completes on the next tick with an empty aggregate. Either
// continuation fires at most once per queue.
func (q *Queue) Then(onFulfilled func([]any), onRejected func(error)) {
	q.mu.Lock()
	q.thenAttached = true
	q.onFulfilled = onFulfilled
	q.onRejected = onRejected
	q.maybeSettleLocked()
	q.mu.Unlock()
}

// Abort settles the queue as failed with the given reason, or
// ErrAborted when reason is nil. Outcomes of still-pending units
// become no-ops. Aborting a settled queue does nothing.
func (q *Queue) Abort(reason error) {
	if reason == nil {
		reason = ErrAborted
	}
	q.mu.Lock()
	if q.settled {
		q.mu.Unlock()
		return
	}
	q.err = reason
	q.maybeSettleLocked()
	q.mu.Unlock()
}

// Wait blocks until the queue settles or ctx is done. It reports the
// aggregated success values in registration order, or the first
// failure reason. Wait does not attach a continuation and may be used
// together with Then; a queue whose continuation was never attached
// still settles for Wait once a unit fails or Abort is called, but a
// successful queue only settles through Then (Then is the signal that
// no further units will be registered).
func (q *Queue) Wait(ctx context.Context) ([]any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-q.done:
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return nil, q.err
	}
	results := make([]any, len(q.results))
	copy(results, q.results)
	return results, nil
}

func (q *Queue) unitFulfilled(idx int, v any) {
	q.mu.Lock()
	if q.settled {
		q.mu.Unlock()
		return
	}
	q.results[idx] = v
	q.outstanding--
	q.maybeSettleLocked()
	q.mu.Unlock()
}

func (q *Queue) unitRejected(err error) {
	q.mu.Lock()
	if q.settled {
		q.mu.Unlock()
		return
	}
	q.err = err
	q.maybeSettleLocked()
	q.mu.Unlock()
}

// maybeSettleLocked settles the queue if its terminal condition is
// met: a stored failure settles right away, success needs every unit
// settled and the continuation attached. Must be called with q.mu
// held. The continuation itself runs on a fresh goroutine, outside
// the lock.
func (q *Queue) maybeSettleLocked() {
	if !q.settled {
		switch {
		case q.err != nil:
			q.settled = true
			close(q.done)
		case q.thenAttached && q.outstanding == 0:
			q.settled = true
			close(q.done)
		default:
			return
		}
	}
	if q.fired || !q.thenAttached {
		return
	}
	q.fired = true
	if q.err != nil {
		if fn := q.onRejected; fn != nil {
			err := q.err
			go fn(err)
		}
		return
	}
	if fn := q.onFulfilled; fn != nil {
		results := make([]any, len(q.results))
		copy(results, q.results)
		go fn(results)
	}
}
