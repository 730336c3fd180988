package bot

import (
	"crypto/subtle"
	"sync"
)

// Sessions tracks which users have authenticated with the shared password.
// The set lives in memory only; a restart logs everyone out.
type Sessions struct {
	mu    sync.Mutex
	users map[int64]struct{}
}

// NewSessions creates an empty session set.
func NewSessions() *Sessions {
	return &Sessions{users: make(map[int64]struct{})}
}

// Login marks the user as authenticated.
func (s *Sessions) Login(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = struct{}{}
}

// Logout removes the user's session. Reports whether one existed.
func (s *Sessions) Logout(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[userID]
	delete(s.users, userID)
	return ok
}

// Active reports whether the user holds a session.
func (s *Sessions) Active(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[userID]
	return ok
}

// checkPassword compares an attempt against the configured password in
// constant time.
func checkPassword(attempt, password string) bool {
	return subtle.ConstantTimeCompare([]byte(attempt), []byte(password)) == 1
}
