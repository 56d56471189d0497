package glubpage

import (
	"context"
	"encoding/json"
	"html/template"
	"strings"

	"go.uber.org/zap"
)

const AffiliatesPath = "/assets/affiliates.json"

// ParseAffiliates accepts a top-level array or an object with an items
// array. Elements that are not objects become items with default title and
// url.
func ParseAffiliates(b []byte) ([]AffiliateItem, error) {
	raw, err := arrayOrField(b, "items")
	if err != nil {
		return nil, err
	}
	items := make([]AffiliateItem, 0, len(raw))
	for _, r := range raw {
		var it AffiliateItem
		if err := json.Unmarshal(r, &it); err != nil {
			it = AffiliateItem{}
		}
		items = append(items, it)
	}
	return items, nil
}

type affiliateView struct {
	Href  template.URL
	Title string
	Note  string
}

func (r *Renderer) RenderAffiliates(ctx context.Context, doc Document) {
	el := doc.ElementByID(AffiliatesID)
	if el == nil {
		return
	}
	log := Logger(ctx).With(zap.String("path", AffiliatesPath))

	b, err := r.Fetcher.Fetch(ctx, AffiliatesPath, "application/json")
	if err != nil {
		log.Warn("Failed to load affiliates", zap.Error(err))
		el.SetInnerHTML("")
		return
	}
	items, err := ParseAffiliates(b)
	if err != nil {
		log.Warn("Failed to parse affiliates", zap.Error(err))
		el.SetInnerHTML("")
		return
	}

	views := make([]affiliateView, 0, len(items))
	for _, it := range items {
		views = append(views, affiliateView{
			Href:  affiliateHref(it.Href()),
			Title: it.DisplayTitle(),
			Note:  it.Note,
		})
	}
	markup, err := execute("affiliates", views)
	if err != nil {
		log.Warn("Failed to render affiliates", zap.Error(err))
		el.SetInnerHTML("")
		return
	}
	el.SetInnerHTML(markup)
}

// Schemes that run code in the page. Affiliate links with these become "#";
// any other url is kept and only escaped.
var blockedSchemes = map[string]bool{
	"javascript": true,
	"vbscript":   true,
	"data":       true,
}

func affiliateHref(href string) template.URL {
	if blockedSchemes[urlScheme(href)] {
		return "#"
	}
	return template.URL(href)
}

// urlScheme returns the lower case scheme of u the way a browser reads it:
// leading control characters and spaces are skipped, tabs and newlines are
// ignored. Relative urls have no scheme.
func urlScheme(u string) string {
	u = strings.TrimLeftFunc(u, func(r rune) bool { return r <= ' ' })
	u = strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return -1
		}
		return r
	}, u)
	i := strings.IndexAny(u, ":/?#")
	if i <= 0 || u[i] != ':' {
		return ""
	}
	return strings.ToLower(u[:i])
}
