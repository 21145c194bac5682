package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

type Connection interface {
	Request(ctx context.Context, endpoint *url.URL) (*http.Response, error)
}

type ClientHost struct {
	client  *http.Client
	host    string
	limiter *rate.Limiter
}

type Client struct {
	Connection Connection
	ApiKey     string
}

// Request waits for the limiter before issuing a GET against the configured host
func (conn *ClientHost) Request(ctx context.Context, endpoint *url.URL) (*http.Response, error) {
	if err := conn.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting on request limiter: %w", err)
	}

	endpoint.Scheme = "https"
	endpoint.Host = conn.host
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}
	return conn.client.Do(req)
}

// ClientFactory builds a client whose upstream calls are spaced at least minInterval apart.
// A zero interval disables pacing.
func ClientFactory(host string, apiKey string, timeout, minInterval time.Duration) *Client {
	client := &http.Client{
		Timeout: timeout,
	}

	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}

	clientHost := &ClientHost{
		client:  client,
		host:    host,
		limiter: rate.NewLimiter(limit, 1),
	}

	return &Client{
		Connection: clientHost,
		ApiKey:     apiKey,
	}
}
