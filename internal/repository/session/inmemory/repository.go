package inmemory

import (
	"log/slog"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/watchroom/server/internal/repository/session"
)

type repo struct {
	sessions map[string]session.Session
	rooms    map[string]map[string]struct{}
	mu       sync.RWMutex
	logger   *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		sessions: make(map[string]session.Session),
		rooms:    make(map[string]map[string]struct{}),
		logger:   logger,
	}
}

// Add registers the session's room membership. Adding an already attached
// session is a no-op.
func (r *repo) Add(s *session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug("session.inmemory.Add", "session", s)
	if _, ok := r.sessions[s.Id]; ok {
		return
	}

	r.sessions[s.Id] = *s
	if r.rooms[s.RoomId] == nil {
		r.rooms[s.RoomId] = make(map[string]struct{})
	}
	r.rooms[s.RoomId][s.Id] = struct{}{}
}

func (r *repo) Remove(sessionId string) (session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug("session.inmemory.Remove", "session_id", sessionId)
	s, ok := r.sessions[sessionId]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}

	delete(r.sessions, sessionId)
	delete(r.rooms[s.RoomId], sessionId)
	if len(r.rooms[s.RoomId]) == 0 {
		delete(r.rooms, s.RoomId)
	}

	return s, nil
}

func (r *repo) Get(sessionId string) (session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[sessionId]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}

	return s, nil
}

func (r *repo) GetByRoomId(roomId string) []session.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]session.Session, 0, len(r.rooms[roomId]))
	for sessionId := range r.rooms[roomId] {
		sessions = append(sessions, r.sessions[sessionId])
	}

	return sessions
}

func (r *repo) SessionIds(roomId string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Keys(r.rooms[roomId])
}

func (r *repo) Count(roomId string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms[roomId])
}

// RemoveByRoomId drops every session attached to the room and returns them.
func (r *repo) RemoveByRoomId(roomId string) []session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug("session.inmemory.RemoveByRoomId", "room_id", roomId)
	sessions := make([]session.Session, 0, len(r.rooms[roomId]))
	for sessionId := range r.rooms[roomId] {
		sessions = append(sessions, r.sessions[sessionId])
		delete(r.sessions, sessionId)
	}
	delete(r.rooms, roomId)

	return sessions
}
