package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ReadyState mirrors document.readyState.
type ReadyState string

const (
	ReadyStateLoading     ReadyState = "loading"
	ReadyStateInteractive ReadyState = "interactive"
	ReadyStateComplete    ReadyState = "complete"
)

// Document is one browsing context's document: parsed markup plus the
// loading state machine. Markup queries and mutations go through
// goquery; the load event fires exactly once, when FinishLoading
// transitions the ready state to complete.
type Document struct {
	EventEmitter

	mu      sync.RWMutex
	url     string
	ready   ReadyState
	doc     *goquery.Document
	shadows map[*html.Node]*ShadowRoot
}

// Parse reads an HTML document in the loading state.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &Document{ready: ReadyStateLoading, doc: doc}, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(src string) (*Document, error) {
	return Parse(strings.NewReader(src))
}

// MustParse parses src and panics on malformed input. For tests and
// fixtures whose markup is a literal.
func MustParse(src string) *Document {
	d, err := ParseString(src)
	if err != nil {
		panic(err)
	}
	return d
}

// URL reports the location the document was loaded from, if any.
func (d *Document) URL() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.url
}

// SetURL records the location the document was loaded from.
func (d *Document) SetURL(u string) {
	d.mu.Lock()
	d.url = u
	d.mu.Unlock()
}

// ReadyState reports the document's current loading state.
func (d *Document) ReadyState() ReadyState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ready
}

// SetReadyState forces the loading state without emitting events.
// FinishLoading is the normal way to reach ReadyStateComplete.
func (d *Document) SetReadyState(rs ReadyState) {
	d.mu.Lock()
	d.ready = rs
	d.mu.Unlock()
}

// FinishLoading transitions the document to ReadyStateComplete and
// emits the load event. Only the first call emits; a document loads
// once.
func (d *Document) FinishLoading() {
	d.mu.Lock()
	if d.ready == ReadyStateComplete {
		d.mu.Unlock()
		return
	}
	d.ready = ReadyStateComplete
	d.mu.Unlock()
	d.Emit(EventDocumentLoad, nil)
}

// OnLoaded invokes fn once the document has finished loading: right
// away when the ready state is already complete, otherwise through a
// single-fire load subscription. The returned cancel func drops a
// still-pending subscription.
func (d *Document) OnLoaded(fn func()) (cancel func()) {
	d.mu.RLock()
	if d.ready == ReadyStateComplete {
		d.mu.RUnlock()
		fn()
		return func() {}
	}
	// Subscribe while holding the lock so FinishLoading cannot slip
	// between the state check and the registration.
	cancel = d.Once(EventDocumentLoad, func(any) { fn() })
	d.mu.RUnlock()
	return cancel
}

// Find returns the selection matching the CSS selector.
func (d *Document) Find(selector string) *goquery.Selection {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.doc.Find(selector)
}

// Selection returns the root selection of the document.
func (d *Document) Selection() *goquery.Selection {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.doc.Selection
}

// Head returns the document's head element selection.
func (d *Document) Head() *goquery.Selection {
	return d.Find("head")
}

// AppendToHead appends a node (e.g. a link or style element) to the
// document head.
func (d *Document) AppendToHead(n *html.Node) error {
	head := d.Head()
	if head.Length() == 0 {
		return fmt.Errorf("document has no head element")
	}
	d.mu.Lock()
	head.AppendNodes(n)
	d.mu.Unlock()
	return nil
}

// HTML serializes the whole document.
func (d *Document) HTML() (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return goquery.OuterHtml(d.doc.Selection)
}

// Element builds a detached element node with the given attributes,
// in document order. Attribute pairs must be key, value, key, value.
func Element(tag string, attrPairs ...string) *html.Node {
	if len(attrPairs)%2 != 0 {
		panic("dom.Element: attribute pairs must come in twos")
	}
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i < len(attrPairs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrPairs[i], Val: attrPairs[i+1]})
	}
	return n
}

// TextElement builds a detached element node wrapping a single text
// child, e.g. an inline style element.
func TextElement(tag, text string, attrPairs ...string) *html.Node {
	n := Element(tag, attrPairs...)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
