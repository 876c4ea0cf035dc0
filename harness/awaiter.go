// Package harness provides the test-support layer for a DOM
// accessibility-rule engine: waiting on nested frame loads, injecting
// stylesheets, building fixtures and mocking the rule-evaluation
// context.
package harness

import (
	"context"

	"github.com/domtestio/domtest/dom"
	"github.com/domtestio/domtest/queue"
)

// AwaitNestedLoad invokes done once the frame's document has finished
// loading and every nested frame, recursively, has too. Frames
// attached after the call are not waited on. There is no timeout: a
// frame that never finishes loading keeps done pending forever.
func AwaitNestedLoad(f *dom.Frame, done func()) {
	nestedLoadQueue(f).Then(func([]any) { done() }, nil)
}

// WaitForNestedLoad is the blocking form of AwaitNestedLoad, bounded
// by ctx.
func WaitForNestedLoad(ctx context.Context, f *dom.Frame) error {
	q := nestedLoadQueue(f)
	q.Then(nil, nil)
	_, err := q.Wait(ctx)
	return err
}

// nestedLoadQueue builds one queue per frame: a unit for the frame's
// own document load, and one recursive unit per currently-attached
// child frame. Termination follows from the frame tree being finite
// and acyclic.
func nestedLoadQueue(f *dom.Frame) *queue.Queue {
	q := queue.New()
	doc := f.Document()
	q.Defer(func(resolve func(any), _ func(error)) {
		doc.OnLoaded(func() { resolve(nil) })
	})
	for _, child := range f.ChildFrames() {
		child := child
		q.Defer(func(resolve func(any), _ func(error)) {
			AwaitNestedLoad(child, func() { resolve(nil) })
		})
	}
	return q
}
