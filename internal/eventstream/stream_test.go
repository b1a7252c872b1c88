// ABOUTME: Tests for the event stream server and client pair
// ABOUTME: Drives a real websocket connection through httptest

package eventstream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/web/events"
)

func dialTestServer(t *testing.T) (*Server, *Client) {
	t.Helper()

	server := NewServer()
	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	client, err := Dial(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return server, client
}

func TestBuildStatusEventRoundTrip(t *testing.T) {
	server, client := dialTestServer(t)

	// the hub registers connections asynchronously
	require.Eventually(t, func() bool {
		server.mu.Lock()
		defer server.mu.Unlock()
		return len(server.conns) == 1
	}, time.Second, 10*time.Millisecond)

	server.Broadcast(Event{Type: EventTypeBuildStatus, BuildID: 7, Status: api.StatusSucceeded})

	delivery, err := client.Next()
	require.NoError(t, err)
	assert.Equal(t, events.BuildStatusReceived{BuildID: 7, Status: api.StatusSucceeded}, delivery)
}

func TestTokenEventRoundTrip(t *testing.T) {
	server, client := dialTestServer(t)

	require.Eventually(t, func() bool {
		server.mu.Lock()
		defer server.mu.Unlock()
		return len(server.conns) == 1
	}, time.Second, 10*time.Millisecond)

	server.Broadcast(Event{Type: EventTypeToken, Token: "tok"})

	delivery, err := client.Next()
	require.NoError(t, err)
	assert.Equal(t, events.TokenReceived{Token: "tok"}, delivery)
}

func TestUnknownEventsAreSkipped(t *testing.T) {
	server, client := dialTestServer(t)

	require.Eventually(t, func() bool {
		server.mu.Lock()
		defer server.mu.Unlock()
		return len(server.conns) == 1
	}, time.Second, 10*time.Millisecond)

	server.Broadcast(Event{Type: "mystery"})
	server.Broadcast(Event{Type: EventTypeToken, Token: "after"})

	delivery, err := client.Next()
	require.NoError(t, err)
	assert.Equal(t, events.TokenReceived{Token: "after"}, delivery)
}
