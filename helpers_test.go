package glubpage_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/lemmi/glubpage"
	"github.com/lemmi/glubpage/htmldoc"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testPage = `<!doctype html>
<html><head><title>test</title></head>
<body>
<ul id="latest-posts"></ul>
<ul id="all-posts"></ul>
<div id="ad-slot"><p>stale</p></div>
<ul id="affiliates"></ul>
</body></html>`

// siteFetcher serves fixed bodies by path; unknown paths are 404s.
type siteFetcher map[string]string

func (f siteFetcher) Fetch(ctx context.Context, path, accept string) ([]byte, error) {
	body, ok := f[path]
	if !ok {
		return nil, &glubpage.StatusError{URL: path, Code: http.StatusNotFound}
	}
	return []byte(body), nil
}

// recorder is a Document that remembers everything written to its elements.
type recorder struct {
	mu  sync.Mutex
	els map[string]*recElement
}

type recElement struct {
	mu     sync.Mutex
	writes []string
}

func newRecorder(ids ...string) *recorder {
	r := &recorder{els: map[string]*recElement{}}
	for _, id := range ids {
		r.els[id] = &recElement{}
	}
	return r
}

func (r *recorder) ElementByID(id string) glubpage.Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	if el, ok := r.els[id]; ok {
		return el
	}
	return nil
}

func (r *recorder) writes(id string) []string {
	el := r.els[id]
	el.mu.Lock()
	defer el.mu.Unlock()
	return append([]string(nil), el.writes...)
}

func (r *recorder) last(id string) string {
	w := r.writes(id)
	if len(w) == 0 {
		return ""
	}
	return w[len(w)-1]
}

func (e *recElement) SetInnerHTML(markup string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.writes = append(e.writes, markup)
}

func parsePage(t *testing.T) *htmldoc.Document {
	t.Helper()
	doc, err := htmldoc.ParseString(testPage)
	require.NoError(t, err)
	return doc
}

func innerHTML(t *testing.T, doc *htmldoc.Document, id string) string {
	t.Helper()
	s, ok := doc.InnerHTML(id)
	require.True(t, ok, "no element %q", id)
	return s
}

func observedContext() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return glubpage.LoggingContext(context.Background(), zap.New(core)), logs
}

// countingFetcher counts the fetches passed on to Fetcher.
type countingFetcher struct {
	glubpage.Fetcher
	mu sync.Mutex
	n  int
}

func (f *countingFetcher) Fetch(ctx context.Context, path, accept string) ([]byte, error) {
	f.mu.Lock()
	f.n++
	f.mu.Unlock()
	return f.Fetcher.Fetch(ctx, path, accept)
}
