// Package httputil provides HTTP client utilities with standard configurations.
package httputil

import (
	"errors"
	"net/http"
	"time"
)

const (
	// Default timeout for HTTP requests
	defaultTimeout = 30 * time.Second

	// Transport configuration constants
	maxIdleConns        = 10
	maxIdleConnsPerHost = 2
	idleConnTimeout     = 30 * time.Second
)

// NewHTTPClient creates a new HTTP client with the specified timeout.
// The client is configured with connection pooling and idle connection management.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: newBaseTransport(),
	}
}

// NewClientWithHeaders returns a client that stamps headers onto every
// request it sends. Headers already present on a request are left alone.
func NewClientWithHeaders(timeout time.Duration, headers http.Header) *http.Client {
	client := NewHTTPClient(timeout)
	client.Transport = &HeaderTransport{
		Base:    client.Transport,
		Headers: headers.Clone(),
	}
	return client
}

func newBaseTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		IdleConnTimeout:     idleConnTimeout,
	}
}

// HeaderTransport adds a fixed header set to outgoing requests.
type HeaderTransport struct {
	Base    http.RoundTripper
	Headers http.Header
}

func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	// never mutate the caller's request
	r := req.Clone(req.Context())
	for key, values := range t.Headers {
		if r.Header.Get(key) != "" {
			continue
		}
		for _, v := range values {
			r.Header.Add(key, v)
		}
	}
	return base.RoundTrip(r)
}
