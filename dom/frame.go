package dom

import (
	"fmt"
	"sync"

	"golang.org/x/net/html"
)

// Frame is one browsing context in the frame tree: a document plus
// the child frames attached to its iframe elements. The tree is
// acyclic by construction; a frame never appears below itself.
type Frame struct {
	EventEmitter

	mu       sync.RWMutex
	name     string
	parent   *Frame
	doc      *Document
	children map[*html.Node]*Frame
}

// NewFrame creates a frame owning the given document. Top-level
// frames have no parent until attached below another frame.
func NewFrame(name string, doc *Document) *Frame {
	return &Frame{
		name:     name,
		doc:      doc,
		children: make(map[*html.Node]*Frame),
	}
}

// Name reports the frame's name.
func (f *Frame) Name() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.name
}

// Document returns the frame's document.
func (f *Frame) Document() *Document {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.doc
}

// Parent returns the parent frame, or nil for a top-level frame.
func (f *Frame) Parent() *Frame {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.parent
}

// AttachFrame binds child to the first iframe element matched by the
// CSS selector that does not already have a content frame. The child
// becomes part of this frame's subtree.
func (f *Frame) AttachFrame(selector string, child *Frame) error {
	sel := f.Document().Find(selector)

	f.mu.Lock()
	var bound bool
	for _, n := range sel.Nodes {
		if n.Data != "iframe" {
			continue
		}
		if _, taken := f.children[n]; taken {
			continue
		}
		f.children[n] = child
		bound = true
		break
	}
	f.mu.Unlock()
	if !bound {
		return fmt.Errorf("no unbound iframe matches %q", selector)
	}

	child.mu.Lock()
	child.parent = f
	child.mu.Unlock()
	f.Emit(EventFrameAttach, child)
	return nil
}

// ChildFrames resolves the document's iframe elements to their
// attached content frames, in document order. It is a point-in-time
// snapshot: frames attached afterwards are not included, and iframe
// elements without a content frame are skipped.
func (f *Frame) ChildFrames() []*Frame {
	nodes := f.Document().Find("iframe").Nodes

	f.mu.RLock()
	defer f.mu.RUnlock()
	frames := make([]*Frame, 0, len(nodes))
	for _, n := range nodes {
		if child, ok := f.children[n]; ok {
			frames = append(frames, child)
		}
	}
	return frames
}
