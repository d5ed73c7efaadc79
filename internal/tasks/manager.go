package tasks

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager keeps each user's live todo list in memory and mirrors mutations
// to the optional store. The first read for a user hydrates their open
// todos from the store, so lists survive a restart.
type Manager struct {
	mu       sync.RWMutex
	byID     map[string]*Todo
	hydrated map[string]bool
	store    Store
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		byID:     make(map[string]*Todo),
		hydrated: make(map[string]bool),
		now:      time.Now,
	}
}

func (m *Manager) SetStore(store Store) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = store
	m.hydrated = make(map[string]bool)
}

// ensureLoaded pulls a user's open todos from the store once. In-memory
// entries win on ID collision. A load failure is logged and retried on
// the next read.
func (m *Manager) ensureLoaded(ctx context.Context, userID string) {
	m.mu.Lock()
	store := m.store
	if store == nil || m.hydrated[userID] {
		m.mu.Unlock()
		return
	}
	m.hydrated[userID] = true
	m.mu.Unlock()

	loaded, err := store.LoadOpen(ctx, userID)
	if err != nil {
		log.Printf("tasks: load todos for %s: %v", userID, err)
		m.mu.Lock()
		delete(m.hydrated, userID)
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range loaded {
		t := loaded[i]
		if _, exists := m.byID[t.ID]; !exists {
			m.byID[t.ID] = &t
		}
	}
}

// Create adds one todo per title, all expiring at the next midnight.
func (m *Manager) Create(ctx context.Context, userID, sessionLabel, sourceMessage string, titles []string) []Todo {
	now := m.now().UTC()
	expires := nextMidnight(now)

	var created []Todo
	m.mu.Lock()
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		if len(title) > 120 {
			title = title[:120]
		}
		todo := Todo{
			ID:            uuid.NewString(),
			UserID:        userID,
			Title:         title,
			Description:   title,
			SessionLabel:  sessionLabel,
			SourceMessage: sourceMessage,
			CreatedAt:     now,
			ExpiresAt:     expires,
		}
		m.byID[todo.ID] = &todo
		created = append(created, todo)
	}
	store := m.store
	m.mu.Unlock()

	if store != nil {
		for _, todo := range created {
			if err := store.SaveTodo(ctx, todo); err != nil {
				log.Printf("tasks: persist todo %s: %v", todo.ID, err)
			}
		}
	}
	return created
}

// List returns the user's unexpired todos, newest first.
func (m *Manager) List(ctx context.Context, userID string) []Todo {
	m.ensureLoaded(ctx, userID)
	now := m.now().UTC()
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Todo
	for _, t := range m.byID {
		if t.UserID == userID && t.ExpiresAt.After(now) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// CompleteAll marks every open todo done and returns how many it touched.
func (m *Manager) CompleteAll(ctx context.Context, userID string) int {
	m.ensureLoaded(ctx, userID)
	now := m.now().UTC()
	var done []string
	m.mu.Lock()
	for _, t := range m.byID {
		if t.UserID == userID && !t.Done && t.ExpiresAt.After(now) {
			t.Done = true
			done = append(done, t.ID)
		}
	}
	store := m.store
	m.mu.Unlock()

	m.persistDone(ctx, store, userID, done)
	return len(done)
}

// Complete marks the todos matching candidates done using fuzzy title
// rules: exact normalized match, containment either way, or the candidate
// as a whole word inside the title. When no candidate matches, the longest
// open title contained in message is completed instead.
func (m *Manager) Complete(ctx context.Context, userID, message string, candidates []string) int {
	m.ensureLoaded(ctx, userID)
	now := m.now().UTC()
	var done []string

	m.mu.Lock()
	open := make([]*Todo, 0)
	for _, t := range m.byID {
		if t.UserID == userID && !t.Done && t.ExpiresAt.After(now) {
			open = append(open, t)
		}
	}
	for _, name := range candidates {
		n := normTitle(name)
		if n == "" {
			continue
		}
		wordRe, reErr := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
		for _, t := range open {
			if t.Done {
				continue
			}
			tt := normTitle(t.Title)
			if tt == n || strings.Contains(tt, n) || strings.Contains(n, tt) ||
				(reErr == nil && wordRe.MatchString(t.Title)) {
				t.Done = true
				done = append(done, t.ID)
				break
			}
		}
	}
	if len(done) == 0 {
		msgN := normTitle(message)
		var best *Todo
		bestLen := 0
		for _, t := range open {
			tt := normTitle(t.Title)
			if len(tt) > bestLen && strings.Contains(msgN, tt) {
				best, bestLen = t, len(tt)
			}
		}
		if best != nil && bestLen >= 2 {
			best.Done = true
			done = append(done, best.ID)
		}
	}
	store := m.store
	m.mu.Unlock()

	m.persistDone(ctx, store, userID, done)
	return len(done)
}

// Prune drops expired todos from memory. Run periodically by the caller.
func (m *Manager) Prune() int {
	now := m.now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, t := range m.byID {
		if !t.ExpiresAt.After(now) {
			delete(m.byID, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) persistDone(ctx context.Context, store Store, userID string, ids []string) {
	if store == nil {
		return
	}
	for _, id := range ids {
		if err := store.MarkDone(ctx, userID, id); err != nil {
			log.Printf("tasks: persist completion %s: %v", id, err)
		}
	}
}

func nextMidnight(now time.Time) time.Time {
	next := now.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)
}

func normTitle(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
