package feed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lemmi/glubpage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestManifestRoundTrip(t *testing.T) {
	s := Site{Root: t.TempDir()}

	m := s.ReadManifest(context.Background())
	assert.NotNil(t, m.Posts)
	assert.Empty(t, m.Posts)

	m.Posts = append(m.Posts,
		glubpage.Post{ID: "1", Title: "Old & <new>", Slug: "a.html", DateISO: "2024-01-01T00:00:00+00:00"},
		glubpage.Post{ID: "2", Title: "New", Slug: "b.html", DateISO: "2024-02-01T00:00:00+00:00"},
	)
	require.NoError(t, s.WriteManifest(m))

	b, err := os.ReadFile(s.ManifestPath())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "{\n  \"posts\": [\n    {\n"))
	assert.Contains(t, string(b), `"Old & <new>"`)

	got := s.ReadManifest(context.Background())
	require.Len(t, got.Posts, 2)
	assert.Equal(t, "New", got.Posts[0].Title)
	assert.Equal(t, map[string]struct{}{"1": {}, "2": {}}, KnownIDs(got))
}

func TestReadManifestCorrupt(t *testing.T) {
	s := Site{Root: t.TempDir()}
	require.NoError(t, s.EnsureDirs())
	require.NoError(t, os.WriteFile(s.ManifestPath(), []byte("{not json"), 0644))

	core, logs := observer.New(zap.DebugLevel)
	ctx := glubpage.LoggingContext(context.Background(), zap.New(core))

	m := s.ReadManifest(ctx)
	assert.Empty(t, m.Posts)
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestReadManifestDropsEmptyEntries(t *testing.T) {
	s := Site{Root: t.TempDir()}
	require.NoError(t, s.EnsureDirs())
	require.NoError(t, os.WriteFile(s.ManifestPath(), []byte(`{"posts":[1,{"slug":"a"}]}`), 0644))

	m := s.ReadManifest(context.Background())
	assert.Equal(t, glubpage.Posts{{Slug: "a"}}, m.Posts)
}

func TestPublish(t *testing.T) {
	s := Site{Root: t.TempDir()}
	require.NoError(t, os.MkdirAll(filepath.Join(s.Root, "assets"), 0755))
	require.NoError(t, os.WriteFile(s.AdsPath(), []byte(`<p class="ad">ad</p>`), 0644))

	page := Page{
		Date:    time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
		Title:   "Hello, World!",
		Content: "<p>Body</p>",
		Source:  "http://example.com/src",
	}
	entry, err := s.Publish(context.Background(), page, "id-1", "Body")
	require.NoError(t, err)

	assert.Equal(t, glubpage.Post{
		ID:      "id-1",
		Title:   "Hello, World!",
		Slug:    "2024-01-05-hello-world.html",
		Path:    "posts/2024-01-05-hello-world.html",
		DateISO: "2024-01-05T10:00:00+00:00",
		Source:  "http://example.com/src",
		Summary: "Body",
	}, entry)
	assert.Equal(t, "/posts/2024-01-05-hello-world.html", entry.Href())

	b, err := os.ReadFile(filepath.Join(s.PostsDir(), entry.Slug))
	require.NoError(t, err)
	html := string(b)
	assert.Contains(t, html, "Hello, World!")
	assert.Contains(t, html, "Body")
	assert.Contains(t, html, "2024-01-05T10:00:00+00:00")
	assert.Contains(t, html, `href="http://example.com/src"`)
	assert.Contains(t, html, `class="ad"`)
	assert.Contains(t, html, `href="/styles.css"`)
	assert.Contains(t, html, `src="/site.js"`)

	m := s.ReadManifest(context.Background())
	assert.Equal(t, glubpage.Posts{entry}, m.Posts)
}
