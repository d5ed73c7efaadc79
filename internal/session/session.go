package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxTurns bounds the per-session history window. Appending past the cap
// drops the oldest turn.
const maxTurns = 50

// Turn is one utterance in a conversation, stored in the language it was
// exchanged in.
type Turn struct {
	Role    string    `json:"role"` // "user" or "assistant"
	Content string    `json:"content"`
	Lang    string    `json:"lang"`
	At      time.Time `json:"at"`
}

// Context is what the assistant has learned about the user across turns.
// Scalars are last-write-wins, list fields are set unions.
type Context struct {
	PreferredName     string   `json:"preferred_name,omitempty"`
	Department        string   `json:"department,omitempty"`
	Year              string   `json:"year,omitempty"`
	PreferredLang     string   `json:"preferred_lang,omitempty"`
	Interests         []string `json:"interests,omitempty"`
	AcademicGoals     []string `json:"academic_goals,omitempty"`
	CurrentChallenges []string `json:"current_challenges,omitempty"`
	LastTopics        []string `json:"last_topics,omitempty"`

	// LastEventTitle remembers the most recently surfaced event so bare
	// follow-ups like "tell me more" can resolve it. Kept until the next
	// event overwrites it.
	LastEventTitle string `json:"last_event_title,omitempty"`

	// Formatting preferences stated by the user, applied by the composer.
	AnswerLength  string `json:"answer_length,omitempty"`  // "short" or "long"
	ResponseStyle string `json:"response_style,omitempty"` // "formal" or "friendly"
}

// Session is one user's conversation state. Its mutex serializes turn
// appends and context merges so two concurrent requests for the same
// session cannot interleave partial updates.
type Session struct {
	ID     string
	UserID string
	Label  string

	mu           sync.Mutex
	turns        []Turn
	context      Context
	startedAt    time.Time
	lastActivity time.Time
}

func newSession(userID, label string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		Label:        label,
		startedAt:    now,
		lastActivity: now,
	}
}

// AppendTurn records one utterance, evicting the oldest turn beyond the
// window cap.
func (s *Session) AppendTurn(role, content, lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{Role: role, Content: content, Lang: lang, At: time.Now().UTC()})
	if len(s.turns) > maxTurns {
		s.turns = append(s.turns[:0], s.turns[len(s.turns)-maxTurns:]...)
	}
	s.lastActivity = time.Now().UTC()
}

// History returns a copy of the most recent limit turns, oldest first.
// limit <= 0 returns the whole window.
func (s *Session) History(limit int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.turns
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// TurnCount reports how many turns are in the window. First-turn greetings
// key off this.
func (s *Session) TurnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// MergeContext folds delta into the session context: non-empty scalars
// overwrite, list entries are unioned preserving first-seen order.
func (s *Session) MergeContext(delta Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if delta.PreferredName != "" {
		s.context.PreferredName = delta.PreferredName
	}
	if delta.Department != "" {
		s.context.Department = delta.Department
	}
	if delta.Year != "" {
		s.context.Year = delta.Year
	}
	if delta.PreferredLang != "" {
		s.context.PreferredLang = delta.PreferredLang
	}
	if delta.LastEventTitle != "" {
		s.context.LastEventTitle = delta.LastEventTitle
	}
	if delta.AnswerLength != "" {
		s.context.AnswerLength = delta.AnswerLength
	}
	if delta.ResponseStyle != "" {
		s.context.ResponseStyle = delta.ResponseStyle
	}
	s.context.Interests = union(s.context.Interests, delta.Interests)
	s.context.AcademicGoals = union(s.context.AcademicGoals, delta.AcademicGoals)
	s.context.CurrentChallenges = union(s.context.CurrentChallenges, delta.CurrentChallenges)
	s.context.LastTopics = union(s.context.LastTopics, delta.LastTopics)
	s.lastActivity = time.Now().UTC()
}

// Context returns a snapshot of the learned context.
func (s *Session) Context() Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.context
	c.Interests = append([]string(nil), s.context.Interests...)
	c.AcademicGoals = append([]string(nil), s.context.AcademicGoals...)
	c.CurrentChallenges = append([]string(nil), s.context.CurrentChallenges...)
	c.LastTopics = append([]string(nil), s.context.LastTopics...)
	return c
}

// SetLastEventTitle remembers the event a reply surfaced.
func (s *Session) SetLastEventTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context.LastEventTitle = title
}

func (s *Session) lastActiveAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func union(base, extra []string) []string {
	for _, e := range extra {
		found := false
		for _, b := range base {
			if b == e {
				found = true
				break
			}
		}
		if !found {
			base = append(base, e)
		}
	}
	return base
}
