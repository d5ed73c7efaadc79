package tasks

import (
	"context"
	"time"
)

// Todo is one short-lived task item. Items expire at the midnight after
// creation, so each day starts with a clean list.
type Todo struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	SessionLabel  string    `json:"session_label,omitempty"`
	SourceMessage string    `json:"source_message,omitempty"`
	Done          bool      `json:"done"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Store persists todo mutations. The manager is authoritative in memory;
// store errors are logged and do not fail the user operation.
type Store interface {
	SaveTodo(ctx context.Context, todo Todo) error
	MarkDone(ctx context.Context, userID, todoID string) error
	LoadOpen(ctx context.Context, userID string) ([]Todo, error)
	Close()
}
