// Package feed maintains the posts of a site on disk: the post pages under
// posts/, the manifest the page renderer reads, and the import of RSS/Atom
// feeds into both.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/lemmi/glubpage"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Site is a site checkout rooted at Root.
type Site struct {
	Root string
}

func (s Site) PostsDir() string {
	return filepath.Join(s.Root, "posts")
}

func (s Site) ManifestPath() string {
	return filepath.Join(s.PostsDir(), "manifest.json")
}

// AdsPath is the optional ads snippet included in every post page.
func (s Site) AdsPath() string {
	return filepath.Join(s.Root, "assets", "ads.html")
}

func (s Site) EnsureDirs() error {
	if err := os.MkdirAll(s.PostsDir(), 0755); err != nil {
		return errors.Wrapf(err, "Cannot create posts directory: %q", s.PostsDir())
	}
	return nil
}

// ReadManifest loads the manifest. A missing manifest is empty; an
// unreadable or corrupt one is logged and replaced by an empty one.
func (s Site) ReadManifest(ctx context.Context) glubpage.Manifest {
	path := s.ManifestPath()
	log := glubpage.Logger(ctx).With(zap.String("path", path))

	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Cannot read manifest, starting over", zap.Error(err))
		}
		return glubpage.Manifest{Posts: glubpage.Posts{}}
	}

	posts, err := glubpage.ParsePosts(b)
	if err != nil {
		log.Warn("Corrupt manifest, starting over", zap.Error(err))
		return glubpage.Manifest{Posts: glubpage.Posts{}}
	}
	kept := make(glubpage.Posts, 0, len(posts))
	for _, p := range posts {
		if p != (glubpage.Post{}) {
			kept = append(kept, p)
		}
	}
	return glubpage.Manifest{Posts: kept}
}

// WriteManifest sorts the posts newest first and writes the manifest.
func (s Site) WriteManifest(m glubpage.Manifest) error {
	if m.Posts == nil {
		m.Posts = glubpage.Posts{}
	}
	sort.Stable(m.Posts)

	buf := bytes.Buffer{}
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return errors.Wrap(err, "Cannot encode manifest")
	}

	if err := s.EnsureDirs(); err != nil {
		return err
	}
	if err := os.WriteFile(s.ManifestPath(), buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "Cannot write manifest: %q", s.ManifestPath())
	}
	return nil
}

// KnownIDs returns the ids of the posts in m.
func KnownIDs(m glubpage.Manifest) map[string]struct{} {
	ids := map[string]struct{}{}
	for _, p := range m.Posts {
		if p.ID != "" {
			ids[p.ID] = struct{}{}
		}
	}
	return ids
}

// Publish writes the page and adds it to the manifest.
func (s Site) Publish(ctx context.Context, page Page, id, summary string) (glubpage.Post, error) {
	filename, err := s.WritePost(page)
	if err != nil {
		return glubpage.Post{}, err
	}
	entry := page.Entry(filename, id, summary)

	m := s.ReadManifest(ctx)
	m.Posts = append(m.Posts, entry)
	if err := s.WriteManifest(m); err != nil {
		return glubpage.Post{}, err
	}
	return entry, nil
}
