// Package htmldoc implements glubpage.Document on top of a parsed
// golang.org/x/net/html tree, so pages can be rendered without a browser.
package htmldoc

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/lemmi/glubpage"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page. It is safe for concurrent use; all tree
// access is serialized.
type Document struct {
	mu      sync.Mutex
	root    *html.Node
	loading bool
	ready   []func()
}

var _ glubpage.Document = (*Document)(nil)
var _ glubpage.ReadyNotifier = (*Document)(nil)

// Parse reads a complete page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "Cannot parse html document")
	}
	return &Document{root: root}, nil
}

// ParseString is Parse for an in-memory page.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseLoading reads a page that reports itself as loading until MarkReady
// is called.
func ParseLoading(r io.Reader) (*Document, error) {
	d, err := Parse(r)
	if err != nil {
		return nil, err
	}
	d.loading = true
	return d, nil
}

func (d *Document) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// OnReady calls fn once the document is ready; immediately if it already is.
func (d *Document) OnReady(fn func()) {
	d.mu.Lock()
	if !d.loading {
		d.mu.Unlock()
		fn()
		return
	}
	d.ready = append(d.ready, fn)
	d.mu.Unlock()
}

// MarkReady ends the loading state and runs the OnReady callbacks in
// registration order.
func (d *Document) MarkReady() {
	d.mu.Lock()
	d.loading = false
	ready := d.ready
	d.ready = nil
	d.mu.Unlock()

	for _, fn := range ready {
		fn()
	}
}

func (d *Document) ElementByID(id string) glubpage.Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := findByID(d.root, id)
	if n == nil {
		return nil
	}
	return &element{doc: d, node: n}
}

// InnerHTML returns the serialized children of the element with the given
// id.
func (d *Document) InnerHTML(id string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := findByID(d.root, id)
	if n == nil {
		return "", false
	}
	buf := bytes.Buffer{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", false
		}
	}
	return buf.String(), true
}

// Render writes the whole page.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return errors.Wrap(html.Render(w, d.root), "Cannot render html document")
}

type element struct {
	doc  *Document
	node *html.Node
}

// SetInnerHTML replaces the element's children with markup parsed in the
// element's context. Markup that cannot be parsed leaves the element empty.
func (e *element) SetInnerHTML(markup string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	for c := e.node.FirstChild; c != nil; c = e.node.FirstChild {
		e.node.RemoveChild(c)
	}
	if markup == "" {
		return
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		return
	}
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
