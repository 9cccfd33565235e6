package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTP fetches files relative to a base URL.
type HTTP struct {
	base   *url.URL
	client *http.Client
}

// NewHTTP returns a Source for baseURL. A nil client uses http.DefaultClient.
func NewHTTP(baseURL string, client *http.Client) (*HTTP, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing source url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("source url %q must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{base: u, client: client}, nil
}

func (h *HTTP) String() string {
	return h.base.String()
}

// Open issues a GET for base/name. 404 maps to ErrNotFound and any other
// non-2xx status is an error.
func (h *HTTP) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	ref, err := url.Parse(strings.TrimPrefix(name, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid source name %q: %w", name, err)
	}
	target := h.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", target, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("%w: %s", ErrNotFound, target)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("fetching %s: unexpected status %s", target, resp.Status)
	}
	return resp.Body, nil
}
