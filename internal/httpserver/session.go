package httpserver

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

const sessionCookie = "digest_session"

// sessionStore remembers the files generated for each browser session.
// Entries live for the life of the process.
type sessionStore struct {
	mu    sync.Mutex
	files map[string][]string
}

func newSessionStore() *sessionStore {
	return &sessionStore{files: make(map[string][]string)}
}

// id returns the caller's session ID, issuing a new cookie when there is none.
func (s *sessionStore) id(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// set replaces the files recorded for a session.
func (s *sessionStore) set(id string, files []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = files
}

// take returns and forgets the files recorded for a session.
func (s *sessionStore) take(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	files := s.files[id]
	delete(s.files, id)
	return files
}
