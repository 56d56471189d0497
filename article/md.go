package article

import (
	"bytes"

	bf "github.com/russross/blackfriday"
)

// ImageAltTitleCopy fills a missing image title from its alt text and the
// other way around.
type ImageAltTitleCopy struct {
	bf.Renderer
}

func (md ImageAltTitleCopy) Image(out *bytes.Buffer, link []byte, title []byte, alt []byte) {
	if title == nil {
		title = alt
	}
	if alt == nil {
		alt = title
	}
	md.Renderer.Image(out, link, title, alt)
}

// Markdown converts a post body to HTML. Unless unsafe is set the result is
// sanitized with the UGC policy.
func Markdown(b []byte, unsafe bool) []byte {
	html := bf.Markdown(b,
		ImageAltTitleCopy{
			bf.HtmlRenderer(0, "", ""),
		}, bf.EXTENSION_TABLES)
	if !unsafe {
		html = policy.SanitizeBytes(html)
	}
	return html
}
