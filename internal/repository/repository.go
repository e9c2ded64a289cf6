package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// Repositories Container
// ============================================

type Repositories struct {
	UserRepo           UserRepository
	WorkspaceRepo      WorkspaceRepository
	PaymentRequestRepo PaymentRequestRepository
	MessageRepo        MessageRepository
}

func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepo:           NewUserRepository(pool),
		WorkspaceRepo:      NewWorkspaceRepository(pool),
		PaymentRequestRepo: NewPaymentRequestRepository(pool),
		MessageRepo:        NewMessageRepository(pool),
	}
}
