package glubpage

import (
	"bytes"
	"context"
	"embed"
	"html/template"

	"go.uber.org/zap"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var tmpl = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

const (
	DefaultLatestLimit = 10

	LoadingText      = "Loading…"
	LatestEmptyText  = "No posts yet."
	ArchiveEmptyText = "No posts found."
)

// Renderer fills the mount points of a page. The zero value fetches nothing
// and must be given a Fetcher.
type Renderer struct {
	Fetcher Fetcher

	// Dates formats post dates, LayoutDates{} if nil.
	Dates DateFormatter

	// LatestLimit caps the latest-posts list, DefaultLatestLimit if 0.
	LatestLimit int
}

// List describes one post list mount.
type List struct {
	ID    string
	Limit int
	Empty string
}

func (r *Renderer) dates() DateFormatter {
	if r.Dates == nil {
		return LayoutDates{}
	}
	return r.Dates
}

func (r *Renderer) latestLimit() int {
	if r.LatestLimit == 0 {
		return DefaultLatestLimit
	}
	return r.LatestLimit
}

func (r *Renderer) RenderLatest(ctx context.Context, doc Document) {
	r.RenderList(ctx, doc, List{ID: LatestPostsID, Limit: r.latestLimit(), Empty: LatestEmptyText})
}

func (r *Renderer) RenderArchive(ctx context.Context, doc Document) {
	r.RenderList(ctx, doc, List{ID: AllPostsID, Empty: ArchiveEmptyText})
}

// RenderList shows a loading item, loads the manifest and replaces the
// mount's content with the posts or a single empty-state item.
func (r *Renderer) RenderList(ctx context.Context, doc Document, l List) {
	el := doc.ElementByID(l.ID)
	if el == nil {
		return
	}
	el.SetInnerHTML(placeholder(ctx, LoadingText))

	posts := LoadPosts(ctx, r.Fetcher).Head(l.Limit)
	if len(posts) == 0 {
		el.SetInnerHTML(placeholder(ctx, l.Empty))
		return
	}

	markup, err := r.postsHTML(posts)
	if err != nil {
		Logger(ctx).Error("Failed to render posts", zap.String("id", l.ID), zap.Error(err))
		el.SetInnerHTML(placeholder(ctx, l.Empty))
		return
	}
	el.SetInnerHTML(markup)
}

type postView struct {
	Href    string
	Title   string
	Date    string
	Summary string
}

func (r *Renderer) postsHTML(posts Posts) (string, error) {
	dates := r.dates()
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		v := postView{
			Href:    p.Href(),
			Title:   p.DisplayTitle(),
			Summary: p.Summary,
		}
		if d, ok := dates.FormatDate(p.DateISO); ok {
			v.Date = d
		}
		views = append(views, v)
	}
	return execute("posts", views)
}

func placeholder(ctx context.Context, text string) string {
	s, err := execute("placeholder", text)
	if err != nil {
		Logger(ctx).Error("Failed to render placeholder", zap.Error(err))
		return ""
	}
	return s
}

func execute(name string, data interface{}) (string, error) {
	buf := bytes.Buffer{}
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
