package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Subscription tiers bounding how many workspaces a user may own.
const (
	TierFree       = "free"
	TierPremium    = "premium"
	TierEnterprise = "enterprise"
)

// User mirrors the record kept in sync with the external identity
// provider. ID is the provider-issued identifier.
type User struct {
	ID                 string
	Email              string
	Name               string
	UserType           string
	SubscriptionTier   string
	SubscriptionEndsAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type UserRepository interface {
	Upsert(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
}

type pgUserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgUserRepository{pool: pool}
}

func (r *pgUserRepository) Upsert(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, name, user_type, subscription_tier)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET email = $2, name = $3, user_type = $4, updated_at = NOW()
		RETURNING subscription_tier, subscription_ends_at, created_at, updated_at
	`
	if user.UserType == "" {
		user.UserType = "personal"
	}
	if user.SubscriptionTier == "" {
		user.SubscriptionTier = TierFree
	}
	return r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.Name, user.UserType, user.SubscriptionTier,
	).Scan(&user.SubscriptionTier, &user.SubscriptionEndsAt, &user.CreatedAt, &user.UpdatedAt)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, email, name, user_type, subscription_tier, subscription_ends_at, created_at, updated_at
		FROM users WHERE id = $1
	`
	u := &User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Name, &u.UserType,
		&u.SubscriptionTier, &u.SubscriptionEndsAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *pgUserRepository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET email = $2, name = $3, user_type = $4, subscription_tier = $5, subscription_ends_at = $6, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.UserType,
		user.SubscriptionTier, user.SubscriptionEndsAt,
	)
	return err
}
