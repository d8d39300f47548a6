// File: internal/network/fetch.go
// Description: The audit fetch operations. Analyzers never touch http.Client
// directly; they go through these four calls, each bounded by the configured
// per-request timeout.

package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/seoscope/seoscope-cli/api/schemas"
)

// MaxRedirectHops caps how many redirects FollowRedirectChain will walk.
// Real servers occasionally misconfigure infinite loops; the cap bounds
// latency without losing the "this chain never terminated" signal.
const MaxRedirectHops = 20

// ErrTooManyRedirects is returned when a chain exhausts MaxRedirectHops
// without reaching a terminal response.
var ErrTooManyRedirects = errors.New("redirect chain exceeded hop limit")

// PageResponse is the result of a body-bearing fetch.
type PageResponse struct {
	Body     string
	Status   int
	Headers  map[string]string
	FinalURL string
}

// ProbeResponse is the result of a single header-only request.
type ProbeResponse struct {
	Status  int
	Headers map[string]string
}

// flattenHeaders lower-cases header names and joins repeated values. The
// analyzers key off lower-cased names throughout.
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		out[strings.ToLower(name)] = strings.Join(values, ", ")
	}
	return out
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building %s request for %s: %w", method, rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Encoding", acceptEncoding)
	return req, nil
}

// FetchFollowingRedirects resolves the redirect chain first (to observe the
// intermediate hops), then fetches the final URL and reads its body as text.
// A timeout or connection failure returns a plain error; the caller decides
// whether that means absence-of-resource or something worse.
func (c *Client) FetchFollowingRedirects(ctx context.Context, rawURL string) (*PageResponse, error) {
	chain, err := c.FollowRedirectChain(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	finalURL := chain.FinalURL
	if chain.IsCircular {
		// A circular chain has no terminal document; fetch the entry point
		// so the caller still gets status and headers to reason about.
		finalURL = rawURL
	}

	req, err := c.newRequest(ctx, http.MethodGet, finalURL)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", finalURL, err)
	}
	defer resp.Body.Close()

	reader, err := decodeBody(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", finalURL, err)
	}

	return &PageResponse{
		Body:     string(body),
		Status:   resp.StatusCode,
		Headers:  flattenHeaders(resp.Header),
		FinalURL: finalURL,
	}, nil
}

// FetchManualRedirect issues a single request with redirect-following
// disabled. Used to inspect one hop at a time (trailing-slash probes,
// platform redirect detection).
func (c *Client) FetchManualRedirect(ctx context.Context, rawURL string) (*ProbeResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", rawURL, err)
	}
	// Body is irrelevant for a probe; drain so the connection is reusable.
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()

	return &ProbeResponse{Status: resp.StatusCode, Headers: flattenHeaders(resp.Header)}, nil
}

// FetchHead issues a HEAD request, used for cheap existence and size checks
// (favicon, image sizes, og:image reachability). HEAD probes are rate
// limited so sampling loops stay polite.
func (c *Client) FetchHead(ctx context.Context, rawURL string) (*ProbeResponse, error) {
	if err := c.probeLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for probe slot: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodHead, rawURL)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HEAD %s: %w", rawURL, err)
	}
	resp.Body.Close()

	return &ProbeResponse{Status: resp.StatusCode, Headers: flattenHeaders(resp.Header)}, nil
}

// FollowRedirectChain walks Location headers one request at a time, stopping
// at a terminal (non-3xx) response, the hop cap, or a loop. Relative
// Location values are resolved against the current URL. When the next hop
// matches an already-visited URL the chain stops immediately with
// IsCircular set; the loop never costs more than MaxRedirectHops requests.
func (c *Client) FollowRedirectChain(ctx context.Context, rawURL string) (*schemas.RedirectChain, error) {
	chain := &schemas.RedirectChain{FinalURL: rawURL}
	visited := map[string]bool{rawURL: true}
	current := rawURL

	for hop := 0; hop < MaxRedirectHops; hop++ {
		probe, err := c.FetchManualRedirect(ctx, current)
		if err != nil {
			return nil, err
		}

		if probe.Status < 300 || probe.Status >= 400 {
			chain.FinalURL = current
			return chain, nil
		}

		location := probe.Headers["location"]
		if location == "" {
			// A 3xx without Location terminates the walk; nothing to follow.
			chain.FinalURL = current
			return chain, nil
		}

		next, err := resolveLocation(current, location)
		if err != nil {
			return nil, err
		}

		chain.Hops = append(chain.Hops, schemas.RedirectHop{
			URL:      current,
			Status:   probe.Status,
			Location: next,
		})

		if visited[next] {
			chain.IsCircular = true
			chain.FinalURL = next
			return chain, nil
		}
		visited[next] = true
		current = next
		chain.FinalURL = current
	}

	return chain, ErrTooManyRedirects
}

// resolveLocation resolves a possibly-relative Location header against the
// URL of the response that carried it.
func resolveLocation(base, location string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base URL %q: %w", base, err)
	}
	locURL, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parsing Location %q: %w", location, err)
	}
	return baseURL.ResolveReference(locURL).String(), nil
}
