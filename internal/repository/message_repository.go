package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Message struct {
	ID               string
	WorkspaceID      *string
	SenderID         string
	RecipientID      string
	Content          string
	Type             string
	RelatedExpenseID *string
	IsRead           bool
	CreatedAt        time.Time
}

type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	FindByID(ctx context.Context, id string) (*Message, error)
	FindByWorkspace(ctx context.Context, workspaceID string) ([]*Message, error)
	// MarkRead flips is_read and reports whether the message exists.
	// Marking an already-read message is a no-op, not an error.
	MarkRead(ctx context.Context, id string) (bool, error)
}

type pgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &pgMessageRepository{pool: pool}
}

func (r *pgMessageRepository) Create(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO messages (workspace_id, sender_id, recipient_id, content, type, related_expense_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_read, created_at
	`
	if msg.Type == "" {
		msg.Type = "note"
	}
	return r.pool.QueryRow(ctx, query,
		msg.WorkspaceID, msg.SenderID, msg.RecipientID, msg.Content, msg.Type, msg.RelatedExpenseID,
	).Scan(&msg.ID, &msg.IsRead, &msg.CreatedAt)
}

func (r *pgMessageRepository) FindByID(ctx context.Context, id string) (*Message, error) {
	query := `
		SELECT id, workspace_id, sender_id, recipient_id, content, type, related_expense_id, is_read, created_at
		FROM messages WHERE id = $1
	`
	m := &Message{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.WorkspaceID, &m.SenderID, &m.RecipientID, &m.Content,
		&m.Type, &m.RelatedExpenseID, &m.IsRead, &m.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgMessageRepository) FindByWorkspace(ctx context.Context, workspaceID string) ([]*Message, error) {
	query := `
		SELECT id, workspace_id, sender_id, recipient_id, content, type, related_expense_id, is_read, created_at
		FROM messages WHERE workspace_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		m := &Message{}
		if err := rows.Scan(
			&m.ID, &m.WorkspaceID, &m.SenderID, &m.RecipientID, &m.Content,
			&m.Type, &m.RelatedExpenseID, &m.IsRead, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *pgMessageRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	query := `UPDATE messages SET is_read = TRUE WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
