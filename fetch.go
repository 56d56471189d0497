package glubpage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Fetcher loads a site resource by its absolute path, e.g.
// "/posts/manifest.json".
type Fetcher interface {
	Fetch(ctx context.Context, path, accept string) ([]byte, error)
}

// StatusError is returned by Client.Fetch for responses outside 2xx.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Client fetches site resources over HTTP. Every request carries a v=<unix
// millis> query parameter so browser and proxy caches are bypassed.
type Client struct {
	base   *url.URL
	http   *http.Client
	now    func() time.Time
	tracer trace.Tracer
}

// NewClient returns a Client resolving paths against base. A nil hc means
// http.DefaultClient.
func NewClient(base string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot parse base url: %q", base)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		base:   u,
		http:   hc,
		now:    time.Now,
		tracer: otel.Tracer("github.com/lemmi/glubpage"),
	}, nil
}

// URL returns the cache-busted url of path.
func (c *Client) URL(path string) string {
	ref := &url.URL{Path: path}
	u := c.base.ResolveReference(ref)
	q := u.Query()
	q.Set("v", strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) Fetch(ctx context.Context, path, accept string) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "glubpage.Fetch", trace.WithAttributes(
		attribute.String("glubpage.path", path),
	))
	defer span.End()

	b, err := c.fetch(ctx, c.URL(path), accept)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return b, err
}

func (c *Client) fetch(ctx context.Context, u, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot create request: %q", u)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot fetch: %q", u)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.WithStack(&StatusError{URL: u, Code: resp.StatusCode})
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read response body: %q", u)
	}
	return b, nil
}
