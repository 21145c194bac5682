package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientHost_SpacesRequests(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := ClientFactory(strings.TrimPrefix(server.URL, "https://"), "key", time.Second, 50*time.Millisecond)
	c.Connection.(*ClientHost).client = server.Client()

	start := time.Now()
	for range 3 {
		res, err := c.Connection.Request(context.Background(), &url.URL{Path: "query"})
		require.NoError(t, err)
		res.Body.Close()
	}

	// the first call is free, the next two wait one interval each
	require.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestClientHost_HonoursContext(t *testing.T) {
	c := ClientFactory("127.0.0.1:1", "key", time.Second, time.Hour)
	ch := c.Connection.(*ClientHost)
	ch.limiter.Allow() // drain the single token

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Connection.Request(ctx, &url.URL{Path: "query"})
	require.Error(t, err)
}
