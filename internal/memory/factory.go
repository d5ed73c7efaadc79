package memory

import (
	"context"
	"log"
	"strings"
)

// NewStore creates a postgres-backed store when DATABASE_URL is configured,
// otherwise an in-memory one. The in-memory store loses chat history and
// concern reports on restart.
func NewStore(ctx context.Context, databaseURL string) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		log.Printf("memory: no database configured, using in-memory store")
		return NewInMemoryStore(), nil
	}
	return NewPostgresStore(ctx, databaseURL)
}
