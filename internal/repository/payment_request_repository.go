package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PaymentRequest struct {
	ID            string
	SenderID      string
	SenderName    string
	RecipientID   string
	RecipientName *string
	Amount        decimal.Decimal
	Description   string
	Status        string
	WorkspaceID   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type PaymentRequestRepository interface {
	Create(ctx context.Context, pr *PaymentRequest) error
	FindByID(ctx context.Context, id string) (*PaymentRequest, error)
	// FindByUser returns requests where the user is the sender
	// (filter "sent"), the recipient ("received"), or either ("").
	FindByUser(ctx context.Context, userID, filter string) ([]*PaymentRequest, error)
	FindPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*PaymentRequest, error)
	// UpdateStatus is a compare-and-set: it only applies when the current
	// status is one of fromStatuses, and returns nil when nothing matched.
	UpdateStatus(ctx context.Context, id string, fromStatuses []string, to string) (*PaymentRequest, error)
}

type pgPaymentRequestRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRequestRepository(pool *pgxpool.Pool) PaymentRequestRepository {
	return &pgPaymentRequestRepository{pool: pool}
}

const paymentRequestColumns = `id, sender_id, sender_name, recipient_id, recipient_name, amount, description, status, workspace_id, created_at, updated_at`

func scanPaymentRequest(row pgx.Row) (*PaymentRequest, error) {
	pr := &PaymentRequest{}
	err := row.Scan(
		&pr.ID, &pr.SenderID, &pr.SenderName, &pr.RecipientID, &pr.RecipientName,
		&pr.Amount, &pr.Description, &pr.Status, &pr.WorkspaceID,
		&pr.CreatedAt, &pr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return pr, nil
}

func (r *pgPaymentRequestRepository) Create(ctx context.Context, pr *PaymentRequest) error {
	query := `
		INSERT INTO payment_requests (sender_id, sender_name, recipient_id, recipient_name, amount, description, status, workspace_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	if pr.Status == "" {
		pr.Status = "pending"
	}
	return r.pool.QueryRow(ctx, query,
		pr.SenderID, pr.SenderName, pr.RecipientID, pr.RecipientName,
		pr.Amount, pr.Description, pr.Status, pr.WorkspaceID,
	).Scan(&pr.ID, &pr.CreatedAt, &pr.UpdatedAt)
}

func (r *pgPaymentRequestRepository) FindByID(ctx context.Context, id string) (*PaymentRequest, error) {
	query := `SELECT ` + paymentRequestColumns + ` FROM payment_requests WHERE id = $1`
	pr, err := scanPaymentRequest(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return pr, nil
}

func (r *pgPaymentRequestRepository) FindByUser(ctx context.Context, userID, filter string) ([]*PaymentRequest, error) {
	query := `SELECT ` + paymentRequestColumns + ` FROM payment_requests `
	switch filter {
	case "sent":
		query += `WHERE sender_id = $1 `
	case "received":
		query += `WHERE recipient_id = $1 `
	default:
		query += `WHERE sender_id = $1 OR recipient_id = $1 `
	}
	query += `ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*PaymentRequest
	for rows.Next() {
		pr, err := scanPaymentRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, pr)
	}
	return requests, rows.Err()
}

func (r *pgPaymentRequestRepository) FindPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*PaymentRequest, error) {
	query := `SELECT ` + paymentRequestColumns + ` FROM payment_requests
		WHERE status = 'pending' AND created_at < $1
		ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*PaymentRequest
	for rows.Next() {
		pr, err := scanPaymentRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, pr)
	}
	return requests, rows.Err()
}

func (r *pgPaymentRequestRepository) UpdateStatus(ctx context.Context, id string, fromStatuses []string, to string) (*PaymentRequest, error) {
	query := `
		UPDATE payment_requests
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
		RETURNING ` + paymentRequestColumns
	pr, err := scanPaymentRequest(r.pool.QueryRow(ctx, query, id, to, fromStatuses))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return pr, nil
}
