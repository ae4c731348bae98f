package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alqcore/internal/license"
	"alqcore/internal/shared/testutil"
)

func dialTestHub(t *testing.T) (*Manager, *gorilla.Conn) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	hub := NewManager(logger, Options{AllowedOrigins: []string{"*"}})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := httptest.NewServer(hub)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Registration goes through the hub's channel; wait for it to land.
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	return hub, conn
}

func TestManager_BroadcastReachesClient(t *testing.T) {
	hub, conn := dialTestHub(t)

	hub.Broadcast(license.Event{
		Type:      license.EventActivated,
		License:   &license.SafeView{Key: "ALQ-1A2B-3C4D-5E6F-7A8B", Plan: "starter"},
		Timestamp: time.Now().UTC(),
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got license.Event
	require.NoError(t, conn.ReadJSON(&got))

	assert.Equal(t, license.EventActivated, got.Type)
	require.NotNil(t, got.License)
	assert.Equal(t, "ALQ-1A2B-3C4D-5E6F-7A8B", got.License.Key)
}

func TestManager_ClientDisconnectUnregisters(t *testing.T) {
	hub, conn := dialTestHub(t)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestManager_RejectsDisallowedOrigin(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewManager(logger, Options{AllowedOrigins: []string{"https://app.example.com"}})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := httptest.NewServer(hub)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	header := map[string][]string{"Origin": {"https://evil.example.com"}}
	_, resp, err := gorilla.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, 403, resp.StatusCode)
	}
}

func TestManager_DeadClientRemovedDuringBroadcast(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewManager(logger, Options{AllowedOrigins: []string{"*"}})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	// Register the server-side conn straight through the hub channel,
	// without the read drain ServeHTTP starts. A write failure during
	// broadcast is then the only path that can remove the client.
	serverConns := make(chan *gorilla.Conn, 2)
	upgrader := gorilla.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
		hub.register <- conn
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	first, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	// Kill the transport, then broadcast into the dead conn.
	first.Close()
	(<-serverConns).Close()
	hub.Broadcast(license.Event{Type: license.EventCreated})

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		2*time.Second, 10*time.Millisecond)

	// The hub must still be serving its channels afterwards.
	second, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestManager_BroadcastWithoutClientsDoesNotBlock(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewManager(logger, Options{})

	// No Run loop draining; filling past the queue must drop, not hang.
	for i := 0; i < 200; i++ {
		hub.Broadcast(license.Event{Type: license.EventCreated})
	}
}
