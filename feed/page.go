package feed

import (
	"bytes"
	"embed"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/lemmi/glubpage"
	"github.com/pkg/errors"
	"github.com/raymondbutcher/tidyhtml"
)

const (
	StylesHref = "/styles.css"
	ScriptSrc  = "/site.js"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var postTmpl = template.Must(template.ParseFS(templateFS, "templates/post.html.tmpl"))

// Page is a post page to be written under posts/. Content must already be
// sanitized.
type Page struct {
	Date    time.Time
	Title   string
	Content template.HTML
	Source  string
}

// Filename is YYYY-MM-DD-<slug>.html.
func (p Page) Filename() string {
	return p.Date.UTC().Format("2006-01-02") + "-" + Slugify(p.Title) + ".html"
}

// Entry is the manifest entry for the page written to filename. The file
// name doubles as the slug.
func (p Page) Entry(filename, id, summary string) glubpage.Post {
	return glubpage.Post{
		ID:      id,
		Title:   p.Title,
		Slug:    filename,
		Path:    "posts/" + filename,
		DateISO: FormatISO(p.Date),
		Source:  p.Source,
		Summary: summary,
	}
}

type pageData struct {
	Page
	DateISO    string
	Ads        template.HTML
	StylesHref string
	ScriptSrc  string
}

// RenderPost renders the complete, tidied page document.
func (s Site) RenderPost(p Page) ([]byte, error) {
	data := pageData{
		Page:       p,
		DateISO:    FormatISO(p.Date),
		StylesHref: StylesHref,
		ScriptSrc:  ScriptSrc,
	}
	if ads, err := os.ReadFile(s.AdsPath()); err == nil {
		data.Ads = template.HTML(ads)
	}

	buf := bytes.Buffer{}
	if err := postTmpl.ExecuteTemplate(&buf, "post.html.tmpl", data); err != nil {
		return nil, errors.Wrapf(err, "template execution failed: %q", p.Title)
	}
	tbuf := bytes.Buffer{}
	if err := tidyhtml.Copy(&tbuf, &buf); err != nil {
		return nil, errors.Wrapf(err, "tidyhtml failed: %q", p.Title)
	}
	return tbuf.Bytes(), nil
}

// WritePost writes the page to posts/ and returns its file name.
func (s Site) WritePost(p Page) (string, error) {
	b, err := s.RenderPost(p)
	if err != nil {
		return "", err
	}
	if err := s.EnsureDirs(); err != nil {
		return "", err
	}
	filename := p.Filename()
	path := filepath.Join(s.PostsDir(), filename)
	if err := os.WriteFile(path, b, 0644); err != nil {
		return "", errors.Wrapf(err, "Cannot write post: %q", path)
	}
	return filename, nil
}
