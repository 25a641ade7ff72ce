package effects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Network errors
var (
	ErrEndpointDenied = errors.New("endpoint not permitted by allowlist")
	ErrRequestFailed  = errors.New("request failed")
)

// HTTPNetworkOptions configures the stock Network effect implementation.
type HTTPNetworkOptions struct {
	// Timeout bounds each request; 10s when zero
	Timeout time.Duration

	// Allowlist holds glob patterns URLs must match. An empty list allows
	// every endpoint, which is the development default.
	Allowlist []string
}

// HTTPNetwork implements the Network effect with an HTTP client gated by
// an endpoint allowlist. The allowlist complements the capability check:
// the token decides whether a module may use the network at all, the
// allowlist decides where it may go.
type HTTPNetwork struct {
	client    *resty.Client
	allowlist []string
}

// NewHTTPNetwork creates an HTTP-backed Network effect implementation.
func NewHTTPNetwork(opts HTTPNetworkOptions) *HTTPNetwork {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &HTTPNetwork{
		client:    client,
		allowlist: append([]string(nil), opts.Allowlist...),
	}
}

// Get performs an HTTP GET against an allowlisted endpoint and returns
// the response body.
func (n *HTTPNetwork) Get(ctx context.Context, url string) ([]byte, error) {
	if !n.allowed(url) {
		return nil, fmt.Errorf("%w: %s", ErrEndpointDenied, url)
	}

	resp, err := n.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: GET %s returned %s", ErrRequestFailed, url, resp.Status())
	}
	return resp.Body(), nil
}

// allowed matches the URL against the allowlist globs.
func (n *HTTPNetwork) allowed(url string) bool {
	if len(n.allowlist) == 0 {
		return true
	}
	for _, pattern := range n.allowlist {
		if globMatch(pattern, url) {
			return true
		}
	}
	return false
}

// globMatch reports whether s matches pattern, where '*' matches any
// sequence of characters including '/' and '?' matches a single
// character. Unlike path.Match, '*' crosses path separators, matching
// the semantics weft policy allowlists use.
func globMatch(pattern, s string) bool {
	// Iterative backtracking over the single-star case.
	var starP, starS = -1, 0
	p, i := 0, 0
	for i < len(s) {
		switch {
		case p < len(pattern) && (pattern[p] == '?' || pattern[p] == s[i]):
			p++
			i++
		case p < len(pattern) && pattern[p] == '*':
			starP, starS = p, i
			p++
		case starP >= 0:
			starS++
			p = starP + 1
			i = starS
		default:
			return false
		}
	}
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}
