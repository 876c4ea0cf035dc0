package harness

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domtestio/domtest/dom"
	"github.com/domtestio/domtest/queue"
)

func awaitQueue(t *testing.T, q *queue.Queue) ([]any, error) {
	t.Helper()
	q.Then(nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return q.Wait(ctx)
}

func TestAddStyleSheetInline(t *testing.T) {
	t.Parallel()

	doc := dom.MustParse(plainPage)
	q := AddStyleSheet(doc, StyleSheet{Text: ".a{color:red}"}, StyleSheetOptions{})

	_, err := awaitQueue(t, q)
	require.NoError(t, err)

	style := doc.Find("head > style")
	require.Equal(t, 1, style.Length())
	assert.Equal(t, ".a{color:red}", style.Text())
}

func TestAddStyleSheetHrefPrecedence(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/styles/a.css", []byte(".a{}"), 0o644))

	doc := dom.MustParse(plainPage)
	// Href wins over Text: one link element, no style element.
	q := AddStyleSheet(doc, StyleSheet{
		Href: "file:///styles/a.css",
		Text: "ignored",
	}, StyleSheetOptions{Filesystems: map[string]afero.Fs{"file": fs}})

	_, err := awaitQueue(t, q)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("head > link").Length())
	assert.Equal(t, 0, doc.Find("head > style").Length())
}

func TestAddStyleSheetMediaPrint(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/print.css", []byte("@page{}"), 0o644))

	doc := dom.MustParse(plainPage)
	q := AddStyleSheet(doc, StyleSheet{
		Href:       "file:///print.css",
		MediaPrint: true,
	}, StyleSheetOptions{Filesystems: map[string]afero.Fs{"file": fs}})

	_, err := awaitQueue(t, q)
	require.NoError(t, err)

	media, ok := doc.Find("head > link").Attr("media")
	require.True(t, ok)
	assert.Equal(t, "print", media)
}

func TestAddStyleSheetsBatchSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("body{}"))
	}))
	defer srv.Close()

	doc := dom.MustParse(plainPage)
	q := AddStyleSheets(doc, []StyleSheet{
		{Href: srv.URL + "/a.css"},
		{Href: srv.URL + "/b.css"},
	}, StyleSheetOptions{Filesystems: map[string]afero.Fs{"http": afero.NewMemMapFs()}})

	results, err := awaitQueue(t, q)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Both link elements ended up in head.
	links := doc.Find("head > link")
	require.Equal(t, 2, links.Length())
	href, _ := links.First().Attr("href")
	assert.Equal(t, srv.URL+"/a.css", href)
}

func TestAddStyleSheetsFirstFailureWins(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	doc := dom.MustParse(plainPage)
	q := AddStyleSheets(doc, []StyleSheet{
		{Text: ".inline{}"}, // settles successfully, and first
		{Href: srv.URL + "/broken.css"},
	}, StyleSheetOptions{Filesystems: map[string]afero.Fs{"http": afero.NewMemMapFs()}})

	_, err := awaitQueue(t, q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.css")
}

func TestAddStyleSheetRelativeHref(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/fixtures/rel.css", []byte(".r{}"), 0o644))

	doc := dom.MustParse(plainPage)
	base := &url.URL{Scheme: "file", Path: "/fixtures/"}
	q := AddStyleSheet(doc, StyleSheet{Href: "rel.css"}, StyleSheetOptions{
		Filesystems: map[string]afero.Fs{"file": fs},
		Base:        base,
	})

	_, err := awaitQueue(t, q)
	require.NoError(t, err)
}

func TestAddStyleSheetNoHead(t *testing.T) {
	t.Parallel()

	doc := dom.MustParse(plainPage)
	doc.Find("head").Remove()

	q := AddStyleSheet(doc, StyleSheet{Text: ".a{}"}, StyleSheetOptions{})
	_, err := awaitQueue(t, q)
	assert.Error(t, err)
}
