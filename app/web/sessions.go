package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Black-And-White-Club/sudoku-leaderboard/app/session"
)

const (
	// SessionCookie carries the visitor's session id.
	SessionCookie = "sudoku_session"
	// sessionIdleAge is how long a visitor's session survives without requests.
	sessionIdleAge = 30 * time.Minute
)

// SessionFactory starts a session that reports alerts to notifier.
type SessionFactory func(notifier session.Notifier) *session.Session

type visitor struct {
	session *session.Session
	alerts  *AlertBox
	seen    time.Time
}

// sessionStore keeps one session and alert box per visitor cookie.
type sessionStore struct {
	mu         sync.Mutex
	visitors   map[string]*visitor
	newSession SessionFactory
	now        func() time.Time
}

func newSessionStore(factory SessionFactory) *sessionStore {
	return &sessionStore{
		visitors:   make(map[string]*visitor),
		newSession: factory,
		now:        time.Now,
	}
}

// resolve returns the visitor for the request's cookie, starting a new
// session and setting the cookie when there is none or it has expired.
func (s *sessionStore) resolve(w http.ResponseWriter, r *http.Request) *visitor {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if c, err := r.Cookie(SessionCookie); err == nil {
		if v, ok := s.visitors[c.Value]; ok && now.Sub(v.seen) <= sessionIdleAge {
			v.seen = now
			return v
		}
	}

	for id, v := range s.visitors {
		if now.Sub(v.seen) > sessionIdleAge {
			delete(s.visitors, id)
		}
	}

	alerts := &AlertBox{}
	v := &visitor{session: s.newSession(alerts), alerts: alerts, seen: now}
	id := uuid.NewString()
	s.visitors[id] = v

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return v
}

func (s *sessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

type visitorKey struct{}

// withVisitor attaches the caller's session to the request context.
func (s *sessionStore) withVisitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := s.resolve(w, r)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), visitorKey{}, v)))
	})
}

func visitorFrom(ctx context.Context) *visitor {
	return ctx.Value(visitorKey{}).(*visitor)
}
