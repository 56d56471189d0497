package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Test</title>
<item>
  <title>First post</title>
  <link>http://example.com/1</link>
  <guid>g1</guid>
  <pubDate>Mon, 02 Jan 2006 15:04:05 +0000</pubDate>
  <description>&lt;p&gt;Hello &lt;b&gt;world&lt;/b&gt;&lt;/p&gt;&lt;script&gt;alert(1)&lt;/script&gt;</description>
</item>
<item>
  <title>Second</title>
  <link>http://example.com/2</link>
  <description>two</description>
</item>
<item>
  <title>   </title>
  <description>three</description>
</item>
</channel>
</rss>`

func feedServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeed))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestImporter(t *testing.T) {
	srv := feedServer(t)
	s := Site{Root: t.TempDir()}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	im := &Importer{
		Site:         s,
		Feeds:        []string{srv.URL + "/missing.xml", srv.URL + "/feed.xml"},
		ItemsPerFeed: 2,
		Client:       srv.Client(),
		Now:          func() time.Time { return now },
	}
	added, err := im.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	m := s.ReadManifest(context.Background())
	require.Len(t, m.Posts, 2)
	assert.Equal(t, "Second", m.Posts[0].Title)
	assert.Equal(t, "2024-05-01-second.html", m.Posts[0].Slug)
	assert.Equal(t, "http://example.com/2", m.Posts[0].ID)
	assert.Equal(t, "First post", m.Posts[1].Title)
	assert.Equal(t, "g1", m.Posts[1].ID)
	assert.Equal(t, "2006-01-02T15:04:05+00:00", m.Posts[1].DateISO)
	assert.Equal(t, "Hello world", m.Posts[1].Summary)
	assert.Equal(t, "http://example.com/1", m.Posts[1].Source)

	b, err := os.ReadFile(filepath.Join(s.PostsDir(), "2006-01-02-first-post.html"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "<b>world</b>")
	assert.NotContains(t, string(b), "alert(1)")

	// a second run only picks up what is new
	im.ItemsPerFeed = 3
	im.Now = func() time.Time { return now.Add(24 * time.Hour) }
	added, err = im.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	m = s.ReadManifest(context.Background())
	require.Len(t, m.Posts, 3)
	assert.Equal(t, "Untitled", m.Posts[0].Title)
	assert.Equal(t, "2024-05-02-untitled.html", m.Posts[0].Slug)
	assert.Equal(t, "three", m.Posts[0].Summary)
}
