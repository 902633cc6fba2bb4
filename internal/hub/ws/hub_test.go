package ws

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchroom/server/internal/repository/connection"
	connInmemory "github.com/watchroom/server/internal/repository/connection/inmemory"
	"github.com/watchroom/server/internal/repository/session"
	sessionInmemory "github.com/watchroom/server/internal/repository/session/inmemory"
	"github.com/watchroom/server/internal/service/room"
)

// newConnPair dials a real websocket and returns both ends.
func newConnPair(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	connCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		connCh <- conn
	}))
	t.Cleanup(srv.Close)

	clientConn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	serverConn := <-connCh
	t.Cleanup(func() { serverConn.Close() })

	return serverConn, clientConn
}

func TestToSessionSerializesConcurrentWrites(t *testing.T) {
	serverConn, clientConn := newConnPair(t)

	connRepo := connInmemory.NewRepo(slog.Default())
	require.NoError(t, connRepo.Add(connection.NewConn(serverConn), "s1"))
	sessionRepo := sessionInmemory.NewRepo(slog.Default())
	sessionRepo.Add(&session.Session{Id: "s1", RoomId: "abc", UserId: "u1", Username: "Alice"})

	h := NewHub(connRepo, sessionRepo, slog.Default())

	// concurrent room operations all emitting to the same connection
	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.ToSession(context.Background(), "s1", &room.Event{
				Type:    "viewer_count",
				Payload: room.ViewerCountPayload{Count: 1},
			})
		}()
	}

	for received := 0; received < writers; received++ {
		var event room.Event
		require.NoError(t, clientConn.ReadJSON(&event))
		assert.Equal(t, "viewer_count", event.Type)
	}
	wg.Wait()
}

func TestToSessionWithoutConnection(t *testing.T) {
	connRepo := connInmemory.NewRepo(slog.Default())
	sessionRepo := sessionInmemory.NewRepo(slog.Default())
	h := NewHub(connRepo, sessionRepo, slog.Default())

	// best effort delivery: nobody home, nothing happens
	h.ToSession(context.Background(), "ghost", &room.Event{Type: "host_status"})
}

func TestToRoomExcept(t *testing.T) {
	hostServer, hostClient := newConnPair(t)
	viewerServer, viewerClient := newConnPair(t)

	connRepo := connInmemory.NewRepo(slog.Default())
	require.NoError(t, connRepo.Add(connection.NewConn(hostServer), "s1"))
	require.NoError(t, connRepo.Add(connection.NewConn(viewerServer), "s2"))

	sessionRepo := sessionInmemory.NewRepo(slog.Default())
	sessionRepo.Add(&session.Session{Id: "s1", RoomId: "abc", UserId: "u1", Username: "Alice"})
	sessionRepo.Add(&session.Session{Id: "s2", RoomId: "abc", UserId: "u2", Username: "Bob"})

	h := NewHub(connRepo, sessionRepo, slog.Default())

	h.ToRoomExcept(context.Background(), "abc", "s1", &room.Event{
		Type:    "sync_action",
		Payload: room.SyncActionPayload{Room: "abc", Action: "pause", Time: 12.5},
	})

	var event room.Event
	require.NoError(t, viewerClient.ReadJSON(&event))
	assert.Equal(t, "sync_action", event.Type)

	// the excluded sender receives nothing
	require.NoError(t, hostClient.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	assert.Error(t, hostClient.ReadJSON(&event))
}

func TestToRoom(t *testing.T) {
	hostServer, hostClient := newConnPair(t)
	viewerServer, viewerClient := newConnPair(t)

	connRepo := connInmemory.NewRepo(slog.Default())
	require.NoError(t, connRepo.Add(connection.NewConn(hostServer), "s1"))
	require.NoError(t, connRepo.Add(connection.NewConn(viewerServer), "s2"))

	sessionRepo := sessionInmemory.NewRepo(slog.Default())
	sessionRepo.Add(&session.Session{Id: "s1", RoomId: "abc", UserId: "u1", Username: "Alice"})
	sessionRepo.Add(&session.Session{Id: "s2", RoomId: "abc", UserId: "u2", Username: "Bob"})

	h := NewHub(connRepo, sessionRepo, slog.Default())

	h.ToRoom(context.Background(), "abc", &room.Event{
		Type:    "viewer_count",
		Payload: room.ViewerCountPayload{Count: 1},
	})

	for _, client := range []*websocket.Conn{hostClient, viewerClient} {
		var event room.Event
		require.NoError(t, client.ReadJSON(&event))
		assert.Equal(t, "viewer_count", event.Type)
	}
}
