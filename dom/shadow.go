package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ShadowMode is the encapsulation mode of a shadow root.
type ShadowMode string

const (
	ShadowModeOpen   ShadowMode = "open"
	ShadowModeClosed ShadowMode = "closed"
)

// ShadowRoot holds the shadow content attached to a host element. The
// content is an independent fragment; queries against the host
// document do not reach into it.
type ShadowRoot struct {
	mode    ShadowMode
	host    *html.Node
	content *goquery.Document
}

// Mode reports the shadow root's encapsulation mode.
func (s *ShadowRoot) Mode() ShadowMode { return s.mode }

// Host returns the element the shadow root is attached to.
func (s *ShadowRoot) Host() *html.Node { return s.host }

// Find queries the shadow content.
func (s *ShadowRoot) Find(selector string) *goquery.Selection {
	return s.content.Find(selector)
}

// AttachShadow attaches a shadow root with the given inner markup to
// the first element matched by the CSS selector. Attaching a second
// shadow root to the same host is an error, as it is in browsers.
func (d *Document) AttachShadow(selector string, mode ShadowMode, innerHTML string) (*ShadowRoot, error) {
	sel := d.Find(selector)
	if sel.Length() == 0 {
		return nil, fmt.Errorf("no element matches %q", selector)
	}
	host := sel.Nodes[0]

	content, err := goquery.NewDocumentFromReader(strings.NewReader(innerHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing shadow content: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shadows == nil {
		d.shadows = make(map[*html.Node]*ShadowRoot)
	}
	if _, ok := d.shadows[host]; ok {
		return nil, fmt.Errorf("element %q already hosts a shadow root", selector)
	}
	root := &ShadowRoot{mode: mode, host: host, content: content}
	d.shadows[host] = root
	return root, nil
}

// ShadowRootOf returns the shadow root attached to the first element
// matched by the selector. Closed shadow roots are not returned,
// mirroring how closed roots are unreachable from page scripts.
func (d *Document) ShadowRootOf(selector string) (*ShadowRoot, bool) {
	sel := d.Find(selector)
	if sel.Length() == 0 {
		return nil, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	root, ok := d.shadows[sel.Nodes[0]]
	if !ok || root.mode == ShadowModeClosed {
		return nil, false
	}
	return root, true
}
