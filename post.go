package glubpage

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Post is one entry of the posts manifest. The renderer reads title, slug,
// path, date_iso and summary; id and source are written by gctool.
type Post struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Path    string `json:"path"`
	DateISO string `json:"date_iso"`
	Source  string `json:"source"`
	Summary string `json:"summary"`
}

// UnmarshalJSON accepts any JSON object. Scalar fields that are not strings
// are stringified, everything else is ignored.
func (p *Post) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = Post{
		ID:      looseString(raw["id"]),
		Title:   looseString(raw["title"]),
		Slug:    looseString(raw["slug"]),
		Path:    looseString(raw["path"]),
		DateISO: looseString(raw["date_iso"]),
		Source:  looseString(raw["source"]),
		Summary: looseString(raw["summary"]),
	}
	return nil
}

// Href is the link target of the post: the explicit path if there is one,
// /posts/<slug> otherwise.
func (p Post) Href() string {
	if p.Path != "" {
		return "/" + strings.TrimLeft(p.Path, "/")
	}
	return "/posts/" + p.Slug
}

func (p Post) DisplayTitle() string {
	switch {
	case p.Title != "":
		return p.Title
	case p.Slug != "":
		return p.Slug
	}
	return "Untitled"
}

// Posts sorts newest first by comparing date_iso as plain strings.
type Posts []Post

func (p Posts) Len() int {
	return len(p)
}
func (p Posts) Less(i, j int) bool {
	return p[i].DateISO > p[j].DateISO
}
func (p Posts) Swap(i, j int) {
	p[i], p[j] = p[j], p[i]
}

// Head returns the first n posts, or all of them if n <= 0.
func (p Posts) Head(n int) Posts {
	if n <= 0 || n >= len(p) {
		return p
	}
	return p[:n]
}

// Manifest is the document served at ManifestPath.
type Manifest struct {
	Posts Posts `json:"posts"`
}

// AffiliateItem is one entry of the affiliates list.
type AffiliateItem struct {
	Title string
	Name  string
	URL   string
	Note  string
}

func (a *AffiliateItem) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*a = AffiliateItem{
		Title: looseString(raw["title"]),
		Name:  looseString(raw["name"]),
		URL:   looseString(raw["url"]),
		Note:  looseString(raw["note"]),
	}
	return nil
}

func (a AffiliateItem) DisplayTitle() string {
	switch {
	case a.Title != "":
		return a.Title
	case a.Name != "":
		return a.Name
	}
	return "Link"
}

func (a AffiliateItem) Href() string {
	if a.URL == "" {
		return "#"
	}
	return a.URL
}

// looseString turns a raw JSON scalar into its text. Objects, arrays, null
// and missing values become "".
func looseString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}
