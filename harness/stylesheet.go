package harness

import (
	"fmt"
	"io"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/net/html"

	"github.com/domtestio/domtest/dom"
	"github.com/domtestio/domtest/loader"
	"github.com/domtestio/domtest/queue"
)

// StyleSheet describes one stylesheet to inject. Href takes
// precedence over Text: a non-empty Href produces a link element
// whose load settles on the fetch outcome, otherwise Text produces an
// inline style element that always loads synchronously.
type StyleSheet struct {
	Href       string
	MediaPrint bool
	Text       string
}

// StyleSheetOptions carries the environment stylesheet loads run in.
// The zero value injects inline sheets but cannot fetch hrefs.
type StyleSheetOptions struct {
	// Logger receives debug output; nil discards it.
	Logger logrus.FieldLogger
	// Filesystems maps URL schemes to filesystems, as the loader
	// package expects.
	Filesystems map[string]afero.Fs
	// Base resolves relative hrefs.
	Base *url.URL
}

func (opts StyleSheetOptions) logger() logrus.FieldLogger {
	if opts.Logger != nil {
		return opts.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// element builds the DOM node carrying the stylesheet.
func (s StyleSheet) element() *html.Node {
	if s.Href != "" {
		attrs := []string{"rel", "stylesheet", "type", "text/css", "href", s.Href}
		if s.MediaPrint {
			attrs = append(attrs, "media", "print")
		}
		return dom.Element("link", attrs...)
	}
	return dom.TextElement("style", s.Text, "type", "text/css")
}

// AddStyleSheet injects a single stylesheet into the document head
// and returns a one-unit queue that settles with the injected node on
// load, or with the fetch error for a link that fails to load. The
// element is appended before the fetch outcome is known, the way a
// browser inserts the link node before the network round trip.
func AddStyleSheet(doc *dom.Document, sheet StyleSheet, opts StyleSheetOptions) *queue.Queue {
	q := queue.New()

	node := sheet.element()
	if err := doc.AppendToHead(node); err != nil {
		q.Defer(func(_ func(any), reject func(error)) {
			reject(fmt.Errorf("injecting stylesheet: %w", err))
		})
		return q
	}

	q.Defer(func(resolve func(any), reject func(error)) {
		if sheet.Href == "" {
			resolve(node)
			return
		}
		u, err := loader.Resolve(opts.Base, sheet.Href)
		if err != nil {
			reject(fmt.Errorf("stylesheet %q: %w", sheet.Href, err))
			return
		}
		if _, err := loader.Load(opts.logger(), opts.Filesystems, u); err != nil {
			reject(fmt.Errorf("stylesheet %q: %w", sheet.Href, err))
			return
		}
		resolve(node)
	})
	return q
}

// AddStyleSheets injects a batch of stylesheets and returns the
// aggregate queue: it fulfills with every injected node once all
// sheets have loaded, and fails with the first load error while any
// remaining fetches finish in the background unobserved.
func AddStyleSheets(doc *dom.Document, sheets []StyleSheet, opts StyleSheetOptions) *queue.Queue {
	batch := queue.New()
	for _, sheet := range sheets {
		sq := AddStyleSheet(doc, sheet, opts)
		batch.Defer(func(resolve func(any), reject func(error)) {
			sq.Then(func(results []any) { resolve(results[0]) }, reject)
		})
	}
	return batch
}
