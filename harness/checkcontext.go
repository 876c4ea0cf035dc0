package harness

import (
	"sync"

	"golang.org/x/net/html"
)

// CheckContext mocks the context object a rule check runs against,
// recording the data and related nodes the check reports so tests can
// assert on them.
type CheckContext struct {
	mu      sync.Mutex
	data    []any
	related []*html.Node
}

// Data records a value the check reported.
func (c *CheckContext) Data(v any) {
	c.mu.Lock()
	c.data = append(c.data, v)
	c.mu.Unlock()
}

// RelatedNodes records nodes the check flagged as related to its
// outcome.
func (c *CheckContext) RelatedNodes(nodes ...*html.Node) {
	c.mu.Lock()
	c.related = append(c.related, nodes...)
	c.mu.Unlock()
}

// ReportedData returns everything recorded through Data, in call
// order.
func (c *CheckContext) ReportedData() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.data))
	copy(out, c.data)
	return out
}

// Related returns every node recorded through RelatedNodes.
func (c *CheckContext) Related() []*html.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*html.Node, len(c.related))
	copy(out, c.related)
	return out
}

// Reset clears all recorded state so the context can be reused
// between checks.
func (c *CheckContext) Reset() {
	c.mu.Lock()
	c.data = nil
	c.related = nil
	c.mu.Unlock()
}
