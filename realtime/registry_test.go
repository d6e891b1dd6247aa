package realtime

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"
)

type nopConn struct{ id int }

func (nopConn) Close() error { return nil }

func TestRegistry_UnregisterOnlySameConnection(t *testing.T) {
	r := NewRegistry()
	first, second := &nopConn{1}, &nopConn{2}

	r.Register("u1", first)
	r.Register("u1", second)
	assert.Equal(t, 1, r.Count())

	assert.False(t, r.Unregister("u1", first), "stale connection must not evict the new one")
	got, ok := r.lookup("u1")
	require.True(t, ok)
	assert.Same(t, second, got)

	assert.True(t, r.Unregister("u1", second))
	assert.Equal(t, 0, r.Count())
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, err := websocket.Dial(url, "", srv.URL)
	require.NoError(t, err)
	return ws
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	assert.Eventually(t, cond, 2*time.Second, 10*time.Millisecond)
}

func TestHandler_RegisterAndDisconnect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := NewRegistry()
	r := gin.New()
	r.GET("/ws", NewHandler(registry, zap.NewNop()).Serve)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ws := dial(t, srv)
	require.NoError(t, websocket.Message.Send(ws, "not json"))
	require.NoError(t, websocket.JSON.Send(ws, Frame{Type: "ping", UserID: "ignored"}))
	require.NoError(t, websocket.JSON.Send(ws, Frame{Type: "register", UserID: "u1"}))
	waitFor(t, func() bool { return registry.Count() == 1 })
	_, ignored := registry.lookup("ignored")
	assert.False(t, ignored)

	require.NoError(t, ws.Close())
	waitFor(t, func() bool { return registry.Count() == 0 })
}

func TestHandler_ReconnectKeepsNewestConnection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := NewRegistry()
	r := gin.New()
	r.GET("/ws", NewHandler(registry, zap.NewNop()).Serve)
	srv := httptest.NewServer(r)
	defer srv.Close()

	old := dial(t, srv)
	require.NoError(t, websocket.JSON.Send(old, Frame{Type: "register", UserID: "u1"}))
	waitFor(t, func() bool { return registry.Count() == 1 })
	oldConn, _ := registry.lookup("u1")

	fresh := dial(t, srv)
	defer fresh.Close()
	require.NoError(t, websocket.JSON.Send(fresh, Frame{Type: "register", UserID: "u1"}))
	waitFor(t, func() bool {
		c, _ := registry.lookup("u1")
		return c != oldConn
	})

	require.NoError(t, old.Close())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, registry.Count())
}
