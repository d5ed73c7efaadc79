package memory

import (
	"context"
	"time"
)

// TurnRecord stores a single user or assistant conversational turn in the
// language it was exchanged in.
type TurnRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	SessionLabel string    `json:"session_label"`
	Role         string    `json:"role"`
	Content      string    `json:"content"`
	Lang         string    `json:"lang"`
	CreatedAt    time.Time `json:"created_at"`
}

// ConcernRecord captures a wellbeing detection together with the reply the
// assistant gave and the surrounding conversation, for counselor review.
type ConcernRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	SessionLabel string    `json:"session_label"`
	ConcernType  string    `json:"concern_type"`
	Severity     string    `json:"severity"`
	Keywords     []string  `json:"keywords"`
	Message      string    `json:"message"`
	Reply        string    `json:"reply"`
	Transcript   string    `json:"transcript"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store persists conversational memory and concern reports.
type Store interface {
	SaveTurn(ctx context.Context, record TurnRecord) error
	RecentContext(ctx context.Context, userID string, limit int) ([]TurnRecord, error)
	// RecentTurns returns the newest turns across all users in
	// chronological order, for replay into the chat log corpus.
	RecentTurns(ctx context.Context, limit int) ([]TurnRecord, error)
	SaveConcern(ctx context.Context, record ConcernRecord) error
	Close() error
}
