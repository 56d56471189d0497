package feed

import (
	"context"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/lemmi/glubpage"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	bm "github.com/microcosm-cc/bluemonday"
)

const DefaultItemsPerFeed = 20

// DefaultFeeds are imported when no feeds are configured.
var DefaultFeeds = []string{
	"https://hnrss.org/frontpage",
	"https://rss.nytimes.com/services/xml/rss/nyt/Technology.xml",
}

var contentPolicy = bm.UGCPolicy()

// Importer turns the newest items of a set of feeds into post pages and
// manifest entries. Items already in the manifest are skipped.
type Importer struct {
	Site         Site
	Feeds        []string
	ItemsPerFeed int
	Client       *http.Client
	Now          func() time.Time
}

func (im *Importer) now() time.Time {
	if im.Now == nil {
		return time.Now()
	}
	return im.Now()
}

// Run imports all feeds and saves the manifest once. It returns the number of
// posts added.
func (im *Importer) Run(ctx context.Context) (int, error) {
	log := glubpage.Logger(ctx)
	if err := im.Site.EnsureDirs(); err != nil {
		return 0, err
	}
	m := im.Site.ReadManifest(ctx)
	known := KnownIDs(m)

	limit := im.ItemsPerFeed
	if limit <= 0 {
		limit = DefaultItemsPerFeed
	}

	added := 0
	for _, url := range im.Feeds {
		log := log.With(zap.String("feed", url))
		log.Info("Fetching feed")

		items, err := im.fetch(ctx, url)
		if err != nil {
			log.Warn("Cannot parse feed", zap.Error(err))
		}
		if len(items) == 0 {
			log.Info("No entries found")
			continue
		}
		if len(items) > limit {
			items = items[:limit]
		}

		for _, item := range items {
			id := Identity(item)
			if _, ok := known[id]; ok {
				continue
			}
			page, summary := im.page(item)
			filename, err := im.Site.WritePost(page)
			if err != nil {
				return added, err
			}
			log.Info("Wrote post", zap.String("file", "posts/"+filename))

			m.Posts = append(m.Posts, page.Entry(filename, id, summary))
			known[id] = struct{}{}
			added++
		}
	}

	if err := im.Site.WriteManifest(m); err != nil {
		return added, err
	}
	log.Info("Done",
		zap.Int("added", added),
		zap.Int("total", len(m.Posts)),
		zap.String("manifest", im.Site.ManifestPath()))
	return added, nil
}

func (im *Importer) fetch(ctx context.Context, url string) ([]*gofeed.Item, error) {
	fp := gofeed.NewParser()
	if im.Client != nil {
		fp.Client = im.Client
	}
	f, err := fp.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, err
	}
	return f.Items, nil
}

// page builds the post page of item and the summary for its manifest entry.
func (im *Importer) page(item *gofeed.Item) (Page, string) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "Untitled"
	}
	content := item.Content
	if content == "" {
		content = item.Description
	}
	return Page{
		Date:    PickDate(item, im.now()),
		Title:   title,
		Content: template.HTML(contentPolicy.Sanitize(content)),
		Source:  item.Link,
	}, Summarize(content, SummaryLength)
}
