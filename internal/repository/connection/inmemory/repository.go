package inmemory

import (
	"log/slog"
	"sync"

	"github.com/watchroom/server/internal/repository/connection"
)

type repo struct {
	connList map[*connection.Conn]string
	idList   map[string]*connection.Conn
	mu       sync.RWMutex
	logger   *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		connList: make(map[*connection.Conn]string),
		idList:   make(map[string]*connection.Conn),
		logger:   logger,
	}
}

func (r *repo) Add(conn *connection.Conn, sessionId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug("connection.inmemory.Add", "session_id", sessionId)
	if r.connList[conn] != "" || r.idList[sessionId] != nil {
		return connection.ErrAlreadyExists
	}

	r.connList[conn] = sessionId
	r.idList[sessionId] = conn

	return nil
}

func (r *repo) RemoveByConn(conn *connection.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessionId, ok := r.connList[conn]
	if !ok {
		return connection.ErrNotFound
	}

	r.logger.Debug("connection.inmemory.RemoveByConn", "session_id", sessionId)
	delete(r.connList, conn)
	delete(r.idList, sessionId)

	return nil
}

func (r *repo) RemoveBySessionId(sessionId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug("connection.inmemory.RemoveBySessionId", "session_id", sessionId)
	conn, ok := r.idList[sessionId]
	if !ok {
		return connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, sessionId)

	return nil
}

func (r *repo) GetConn(sessionId string) (*connection.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.idList[sessionId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

func (r *repo) GetSessionId(conn *connection.Conn) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessionId, ok := r.connList[conn]
	if !ok {
		return "", connection.ErrNotFound
	}

	return sessionId, nil
}
