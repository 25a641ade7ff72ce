package effects

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPNetworkGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	}))
	defer server.Close()

	net := NewHTTPNetwork(HTTPNetworkOptions{Timeout: 2 * time.Second})

	body, err := net.Get(context.Background(), server.URL+"/ping")
	require.NoError(t, err)
	assert.Equal(t, []byte("pong"), body)
}

func TestHTTPNetworkErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	net := NewHTTPNetwork(HTTPNetworkOptions{})

	_, err := net.Get(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestHTTPNetworkAllowlist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	net := NewHTTPNetwork(HTTPNetworkOptions{
		Allowlist: []string{server.URL + "/api/*"},
	})

	_, err := net.Get(context.Background(), server.URL+"/api/scans")
	require.NoError(t, err)

	_, err = net.Get(context.Background(), server.URL+"/admin")
	assert.ErrorIs(t, err, ErrEndpointDenied)
}

func TestGlobMatch(t *testing.T) {
	cases := []struct {
		pattern string
		s       string
		want    bool
	}{
		{"https://api.example.com/*", "https://api.example.com/v1/scans", true},
		{"https://api.example.com/*", "https://api.example.com/", true},
		{"https://api.example.com/*", "https://evil.example.com/", false},
		{"https://*.example.com/*", "https://api.example.com/v1", true},
		{"*", "anything at all", true},
		{"exact", "exact", true},
		{"exact", "exactly", false},
		{"a?c", "abc", true},
		{"a?c", "ac", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, globMatch(tc.pattern, tc.s),
			"globMatch(%q, %q)", tc.pattern, tc.s)
	}
}
