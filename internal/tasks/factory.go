package tasks

import (
	"context"
	"strings"
)

// NewStore returns a postgres-backed store when a database URL is set, and
// nil otherwise. A nil store keeps the manager memory-only.
func NewStore(ctx context.Context, databaseURL string) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, nil
	}
	return NewPostgresStore(ctx, databaseURL)
}
