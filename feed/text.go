package feed

import (
	"html"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	bm "github.com/microcosm-cc/bluemonday"
)

const (
	SummaryLength = 280

	// ISOLayout matches the date_iso values already in manifests, which
	// carry an explicit +00:00 offset.
	ISOLayout = "2006-01-02T15:04:05-07:00"
)

var (
	slugSpace   = regexp.MustCompile(`\s+`)
	slugInvalid = regexp.MustCompile(`[^a-z0-9\-]+`)
	slugDashes  = regexp.MustCompile(`-{2,}`)
	umlauts     = strings.NewReplacer(
		"ä", "ae",
		"ö", "oe",
		"ü", "ue",
		"ß", "ss")
	whitespace = regexp.MustCompile(`\s+`)

	textPolicy = func() *bm.Policy {
		p := bm.StrictPolicy()
		p.AddSpaceWhenStrippingTag(true)
		return p
	}()
)

// Slugify turns a title into a file name component made of [a-z0-9-].
func Slugify(title string) string {
	s := umlauts.Replace(strings.ToLower(strings.TrimSpace(title)))
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	s = slugSpace.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "-")
	s = strings.Trim(slugDashes.ReplaceAllString(s, "-"), "-")
	if s == "" {
		return "post"
	}
	return s
}

// Summarize reduces an HTML fragment to at most n characters of plain
// text, ending in an ellipsis when it was cut.
func Summarize(fragment string, n int) string {
	txt := html.UnescapeString(textPolicy.Sanitize(fragment))
	txt = strings.TrimSpace(whitespace.ReplaceAllString(txt, " "))
	r := []rune(txt)
	if len(r) > n {
		txt = strings.TrimRightFunc(string(r[:n-1]), unicode.IsSpace) + "…"
	}
	return txt
}

// Identity is the dedupe key of a feed item: its GUID, else its link, else
// a name based UUID of its title and description.
func Identity(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	if item.Link != "" {
		return item.Link
	}
	base := []rune(item.Title + "|" + item.Description)
	if len(base) > 512 {
		base = base[:512]
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(string(base))).String()
}

// PickDate prefers the published date, then the updated date, then now.
func PickDate(item *gofeed.Item, now time.Time) time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC()
	}
	return now.UTC()
}

func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}
