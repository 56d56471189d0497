package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/lemmi/glubpage"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteFS() Backend {
	return http.FS(fstest.MapFS{
		"index.html":          {Data: []byte("<h1>home</h1>")},
		"posts/manifest.json": {Data: []byte(`{"posts":[]}`)},
		"posts/a.html":        {Data: []byte("<h1>a</h1>")},
		"assets/ads.html":     {Data: []byte("<p>ad</p>")},
	})
}

type cidFS struct {
	Backend
}

func (cidFS) CID() string {
	return "abc123"
}

func TestFetcher(t *testing.T) {
	f := NewFetcher(siteFS())

	b, err := f.Fetch(context.Background(), glubpage.ManifestPath, "application/json")
	require.NoError(t, err)
	assert.Equal(t, `{"posts":[]}`, string(b))

	b, err = f.Fetch(context.Background(), "assets/../assets/ads.html", "text/html")
	require.NoError(t, err)
	assert.Equal(t, "<p>ad</p>", string(b))

	for _, p := range []string{"/assets/affiliates.json", "/posts", "/"} {
		_, err = f.Fetch(context.Background(), p, "")
		var se *glubpage.StatusError
		require.True(t, errors.As(err, &se), p)
		assert.Equal(t, http.StatusNotFound, se.Code, p)
	}
}

func TestFetcherCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFetcher(siteFS()).Fetch(ctx, glubpage.ManifestPath, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaticHandler(t *testing.T) {
	h := NewStaticHandler(siteFS())
	for _, tc := range []struct {
		path string
		code int
		body string
	}{
		{"/", http.StatusOK, "<h1>home</h1>"},
		{"/posts/a.html", http.StatusOK, "<h1>a</h1>"},
		{"/posts/", http.StatusNotFound, ""},
		{"/posts", http.StatusNotFound, ""},
		{"/missing", http.StatusNotFound, ""},
		{"/../index.html", http.StatusOK, "<h1>home</h1>"},
	} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example.com"+tc.path, nil))
		assert.Equal(t, tc.code, w.Code, tc.path)
		if tc.body != "" {
			assert.Equal(t, tc.body, w.Body.String(), tc.path)
		}
		assert.Empty(t, w.Header().Get("ETag"))
	}
}

func TestStaticHandlerCID(t *testing.T) {
	h := NewStaticHandler(cidFS{siteFS()})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/manifest.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `"abc123"`, w.Header().Get("ETag"))

	r := httptest.NewRequest(http.MethodGet, "/posts/manifest.json", nil)
	r.Header.Set("If-None-Match", `"abc123"`)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNotModified, w.Code)
}

func TestStaticHandlerCd(t *testing.T) {
	h := NewStaticHandler(siteFS()).Cd("posts")
	f, err := h.Open("../../manifest.json")
	require.NoError(t, err)
	f.Close()

	_, err = h.Open("/index.html")
	assert.Error(t, err)
}
