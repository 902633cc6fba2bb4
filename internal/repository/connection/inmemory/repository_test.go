package inmemory

import (
	"log/slog"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchroom/server/internal/repository/connection"
)

func TestAddAndLookup(t *testing.T) {
	r := NewRepo(slog.Default())
	conn := connection.NewConn(&websocket.Conn{})

	require.NoError(t, r.Add(conn, "s1"))

	got, err := r.GetConn("s1")
	require.NoError(t, err)
	assert.Same(t, conn, got)

	sessionId, err := r.GetSessionId(conn)
	require.NoError(t, err)
	assert.Equal(t, "s1", sessionId)

	_, err = r.GetConn("ghost")
	assert.ErrorIs(t, err, connection.ErrNotFound)
	_, err = r.GetSessionId(connection.NewConn(&websocket.Conn{}))
	assert.ErrorIs(t, err, connection.ErrNotFound)
}

func TestAddDuplicate(t *testing.T) {
	r := NewRepo(slog.Default())
	conn := connection.NewConn(&websocket.Conn{})

	require.NoError(t, r.Add(conn, "s1"))
	assert.ErrorIs(t, r.Add(conn, "s2"), connection.ErrAlreadyExists)
	assert.ErrorIs(t, r.Add(connection.NewConn(&websocket.Conn{}), "s1"), connection.ErrAlreadyExists)
}

func TestRemoveByConn(t *testing.T) {
	r := NewRepo(slog.Default())
	conn := connection.NewConn(&websocket.Conn{})

	assert.ErrorIs(t, r.RemoveByConn(conn), connection.ErrNotFound)

	require.NoError(t, r.Add(conn, "s1"))
	require.NoError(t, r.RemoveByConn(conn))

	_, err := r.GetConn("s1")
	assert.ErrorIs(t, err, connection.ErrNotFound)

	// the session id is free for reuse after removal
	assert.NoError(t, r.Add(connection.NewConn(&websocket.Conn{}), "s1"))
}

func TestRemoveBySessionId(t *testing.T) {
	r := NewRepo(slog.Default())
	conn := connection.NewConn(&websocket.Conn{})

	assert.ErrorIs(t, r.RemoveBySessionId("s1"), connection.ErrNotFound)

	require.NoError(t, r.Add(conn, "s1"))
	require.NoError(t, r.RemoveBySessionId("s1"))

	_, err := r.GetSessionId(conn)
	assert.ErrorIs(t, err, connection.ErrNotFound)
}
