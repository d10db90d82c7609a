package messages

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StoreAPI interface {
	Insert(ctx context.Context, msg Message) (Message, error)
	ListAll(ctx context.Context) ([]Message, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, msg Message) (Message, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO messages (username, content, "timestamp", department, recipient_email, is_private)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING message_id
  `, msg.Username, msg.Content, msg.Timestamp, msg.Department, msg.RecipientEmail, msg.IsPrivate).Scan(&msg.ID)
	if err != nil {
		return Message{}, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

func (s *Store) ListAll(ctx context.Context) ([]Message, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT message_id, username, content, "timestamp", department, recipient_email, is_private
    FROM messages
    ORDER BY "timestamp" ASC, message_id ASC
  `)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Username, &m.Content, &m.Timestamp, &m.Department, &m.RecipientEmail, &m.IsPrivate); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
