package dom

import "sync"

const (
	// EventDocumentLoad fires once a document finishes loading.
	EventDocumentLoad = "load"
	// EventFrameAttach fires on a frame when a child frame is attached.
	EventFrameAttach = "frameattach"
)

type eventHandler struct {
	fn   func(data any)
	once bool
}

// EventEmitter dispatches named events to registered handlers. It is
// safe for concurrent use; events are dispatched on the emitting
// goroutine, outside the emitter's lock.
type EventEmitter struct {
	mu       sync.Mutex
	handlers map[string][]*eventHandler
}

// On registers a handler for the given event.
func (e *EventEmitter) On(event string, fn func(data any)) {
	e.add(event, &eventHandler{fn: fn})
}

// Once registers a single-fire handler: it is removed before its first
// invocation, so an aborted or removed subscriber never leaks. The
// returned cancel func unregisters the handler early; cancelling after
// the handler fired is a no-op.
func (e *EventEmitter) Once(event string, fn func(data any)) (cancel func()) {
	h := &eventHandler{fn: fn, once: true}
	e.add(event, h)
	return func() { e.remove(event, h) }
}

// Emit dispatches the event to every registered handler, removing
// single-fire handlers first.
func (e *EventEmitter) Emit(event string, data any) {
	e.mu.Lock()
	hs := e.handlers[event]
	fns := make([]func(any), 0, len(hs))
	kept := hs[:0]
	for _, h := range hs {
		fns = append(fns, h.fn)
		if !h.once {
			kept = append(kept, h)
		}
	}
	if e.handlers != nil {
		e.handlers[event] = kept
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(data)
	}
}

func (e *EventEmitter) add(event string, h *eventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handlers == nil {
		e.handlers = make(map[string][]*eventHandler)
	}
	e.handlers[event] = append(e.handlers[event], h)
}

func (e *EventEmitter) remove(event string, h *eventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	hs := e.handlers[event]
	for i, h2 := range hs {
		if h == h2 {
			e.handlers[event] = append(hs[:i], hs[i+1:]...)
			return
		}
	}
}
