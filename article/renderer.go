// Package article renders Markdown post bodies to HTML.
package article

import (
	"io"

	"github.com/lemmi/glubpage/backend"
	"github.com/pkg/errors"

	bm "github.com/microcosm-cc/bluemonday"
)

var policy = bm.UGCPolicy()

type ContentRenderer interface {
	Render() ([]byte, error)
}

type markdownRenderer struct {
	fs      backend.Backend
	md_path string
	unsafe  bool
}

// NewRenderer returns a ContentRenderer for the Markdown file at mdPath in fs.
func NewRenderer(fs backend.Backend, mdPath string, unsafe bool) ContentRenderer {
	return markdownRenderer{fs: fs, md_path: mdPath, unsafe: unsafe}
}

func (a markdownRenderer) Render() ([]byte, error) {
	md, err := a.fs.Open(a.md_path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open markdown file: %q", a.md_path)
	}
	defer md.Close()

	b, err := io.ReadAll(md)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read markdown file: %q", a.md_path)
	}
	return Markdown(b, a.unsafe), nil
}
