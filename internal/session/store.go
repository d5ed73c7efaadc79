package session

import (
	"context"
	"sync"
	"time"
)

// DefaultLabel is used when a request names no session.
const DefaultLabel = "default"

// Store keeps live sessions keyed by (user, label). The store mutex only
// guards the map; per-session state is guarded by each session's own lock,
// so long merges on one session do not block the rest.
type Store struct {
	mu       sync.RWMutex
	sessions map[sessionKey]*Session
	ttl      time.Duration
	onExpire func(*Session)
}

type sessionKey struct {
	userID string
	label  string
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		sessions: make(map[sessionKey]*Session),
		ttl:      ttl,
	}
}

// SetExpireHook registers a callback invoked for every expired session.
// Used to flush histories to durable storage.
func (st *Store) SetExpireHook(hook func(*Session)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.onExpire = hook
}

// Get returns the session for (userID, label), creating it on first use.
func (st *Store) Get(userID, label string) *Session {
	if label == "" {
		label = DefaultLabel
	}
	key := sessionKey{userID, label}

	st.mu.RLock()
	s, ok := st.sessions[key]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[key]; ok {
		return s
	}
	s = newSession(userID, label)
	st.sessions[key] = s
	return s
}

// ActiveCount reports how many sessions are live.
func (st *Store) ActiveCount() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// StartJanitor evicts idle sessions until ctx is cancelled.
func (st *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st.expireIdle()
			}
		}
	}()
}

func (st *Store) expireIdle() {
	now := time.Now().UTC()
	var expired []*Session

	st.mu.Lock()
	for key, s := range st.sessions {
		if now.Sub(s.lastActiveAt()) < st.ttl {
			continue
		}
		delete(st.sessions, key)
		expired = append(expired, s)
	}
	hook := st.onExpire
	st.mu.Unlock()

	if hook != nil {
		for _, s := range expired {
			hook(s)
		}
	}
}
