package backend

import (
	"context"
	"io"
	"net/http"
	"os"
	"path"

	"github.com/lemmi/glubpage"
	"github.com/pkg/errors"
)

// Backend is the file tree of a site, rooted at the site root.
type Backend interface {
	http.FileSystem
}

type CIDer interface {
	CID() string
}

// Fetcher serves glubpage fetches straight from a Backend. There is no HTTP
// cache in between, so no cache busting is needed.
type Fetcher struct {
	fs Backend
}

var _ glubpage.Fetcher = Fetcher{}

func NewFetcher(fs Backend) Fetcher {
	return Fetcher{fs: fs}
}

// Fetch returns the contents of the file at p. Missing files and
// directories are reported as *glubpage.StatusError with code 404.
func (f Fetcher) Fetch(ctx context.Context, p, _ string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p = path.Clean("/" + p)
	file, err := f.fs.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithStack(&glubpage.StatusError{URL: p, Code: http.StatusNotFound})
		}
		return nil, errors.Wrapf(err, "Cannot open file: %q", p)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot stat file: %q", p)
	}
	if stat.IsDir() {
		return nil, errors.WithStack(&glubpage.StatusError{URL: p, Code: http.StatusNotFound})
	}

	b, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read file: %q", p)
	}
	return b, nil
}
