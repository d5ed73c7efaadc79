package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initTodoSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func initTodoSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS todos (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			session_label TEXT NOT NULL DEFAULT '',
			source_message TEXT NOT NULL DEFAULT '',
			done BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_todos_user_expires ON todos (user_id, expires_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init todo schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) SaveTodo(ctx context.Context, todo Todo) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO todos (
			id, user_id, title, description, session_label, source_message, done, created_at, expires_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			title=EXCLUDED.title,
			description=EXCLUDED.description,
			done=EXCLUDED.done,
			expires_at=EXCLUDED.expires_at`,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.SessionLabel,
		todo.SourceMessage,
		todo.Done,
		todo.CreatedAt,
		todo.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("upsert todo: %w", err)
	}
	return nil
}

func (s *PostgresStore) MarkDone(ctx context.Context, userID, todoID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE todos SET done=TRUE WHERE id=$1 AND user_id=$2`, todoID, userID)
	if err != nil {
		return fmt.Errorf("mark todo done: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadOpen(ctx context.Context, userID string) ([]Todo, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, title, description, session_label, source_message, done, created_at, expires_at
		   FROM todos WHERE user_id=$1 AND expires_at > NOW() ORDER BY created_at DESC LIMIT 50`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("load open todos: %w", err)
	}
	defer rows.Close()

	out := make([]Todo, 0, 8)
	for rows.Next() {
		var t Todo
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Title, &t.Description, &t.SessionLabel,
			&t.SourceMessage, &t.Done, &t.CreatedAt, &t.ExpiresAt,
		); err != nil {
			return nil, fmt.Errorf("scan todo row: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todo rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
