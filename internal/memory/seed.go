package memory

import (
	"context"
	"fmt"

	"github.com/vivekmuskan03/sahayak/internal/knowledge"
)

// SeedChatLogs replays the newest stored turns into the chat log corpus so
// past conversations stay retrievable after a restart. User and assistant
// turns are paired into one document per exchange; unpaired turns are
// skipped. Returns how many documents were added.
func SeedChatLogs(ctx context.Context, store Store, source *knowledge.StaticSource, limit int) (int, error) {
	turns, err := store.RecentTurns(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("load recent turns: %w", err)
	}

	lastUser := make(map[string]TurnRecord)
	added := 0
	for _, t := range turns {
		key := t.UserID + "/" + t.SessionLabel
		switch t.Role {
		case "user":
			lastUser[key] = t
		case "assistant":
			u, ok := lastUser[key]
			if !ok {
				continue
			}
			delete(lastUser, key)
			source.Add(knowledge.Document{
				Corpus:  knowledge.CorpusChatLogs,
				Title:   "Previous Conversation",
				Body:    fmt.Sprintf("user: %s\nassistant: %s", u.Content, t.Content),
				OwnerID: t.UserID,
			})
			added++
		}
	}
	return added, nil
}
