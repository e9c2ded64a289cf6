package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Workspace struct {
	ID          string
	Name        string
	Description *string
	OwnerID     string
	Budget      decimal.Decimal
	Currency    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type WorkspaceMember struct {
	ID          string
	WorkspaceID string
	UserID      string
	DisplayName string
	Role        string
	Salary      decimal.Decimal
	JoinedAt    time.Time
}

type WorkspaceInvite struct {
	ID          string
	WorkspaceID string
	Email       string
	Token       string
	Role        string
	SentAt      time.Time
}

type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *Workspace) error
	FindByID(ctx context.Context, id string) (*Workspace, error)
	FindByUserID(ctx context.Context, userID string) ([]*Workspace, error)
	Update(ctx context.Context, workspace *Workspace) error
	CountOwnedByUser(ctx context.Context, userID string) (int, error)

	AddMember(ctx context.Context, member *WorkspaceMember) error
	FindMember(ctx context.Context, workspaceID, userID string) (*WorkspaceMember, error)
	FindMembers(ctx context.Context, workspaceID string) ([]*WorkspaceMember, error)
	RemoveMember(ctx context.Context, workspaceID, userID string) error
	UpdateMemberSalary(ctx context.Context, workspaceID, userID string, salary decimal.Decimal) error

	CreateInvite(ctx context.Context, invite *WorkspaceInvite) error
	FindInvites(ctx context.Context, workspaceID string) ([]*WorkspaceInvite, error)
	// ConsumeInvite atomically removes the invite matching the token and
	// returns it, or nil when the token is absent. The delete-returning
	// round trip is what makes token consumption exactly-once under
	// concurrent joins.
	ConsumeInvite(ctx context.Context, workspaceID, token string) (*WorkspaceInvite, error)
	DeleteInvitesByEmail(ctx context.Context, workspaceID, email string) error
}

type pgWorkspaceRepository struct {
	pool *pgxpool.Pool
}

func NewWorkspaceRepository(pool *pgxpool.Pool) WorkspaceRepository {
	return &pgWorkspaceRepository{pool: pool}
}

func (r *pgWorkspaceRepository) Create(ctx context.Context, workspace *Workspace) error {
	query := `
		INSERT INTO workspaces (name, description, owner_id, budget, currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	if workspace.Currency == "" {
		workspace.Currency = "USD"
	}
	return r.pool.QueryRow(ctx, query,
		workspace.Name, workspace.Description, workspace.OwnerID, workspace.Budget, workspace.Currency,
	).Scan(&workspace.ID, &workspace.CreatedAt, &workspace.UpdatedAt)
}

func (r *pgWorkspaceRepository) FindByID(ctx context.Context, id string) (*Workspace, error) {
	query := `
		SELECT id, name, description, owner_id, budget, currency, created_at, updated_at
		FROM workspaces WHERE id = $1
	`
	ws := &Workspace{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&ws.ID, &ws.Name, &ws.Description, &ws.OwnerID,
		&ws.Budget, &ws.Currency, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// FindByUserID joins through workspace_members, so a membership row whose
// workspace no longer resolves simply produces no result instead of
// failing the whole listing.
func (r *pgWorkspaceRepository) FindByUserID(ctx context.Context, userID string) ([]*Workspace, error) {
	query := `
		SELECT w.id, w.name, w.description, w.owner_id, w.budget, w.currency, w.created_at, w.updated_at
		FROM workspaces w
		JOIN workspace_members wm ON w.id = wm.workspace_id
		WHERE wm.user_id = $1
		ORDER BY w.created_at
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []*Workspace
	for rows.Next() {
		ws := &Workspace{}
		if err := rows.Scan(
			&ws.ID, &ws.Name, &ws.Description, &ws.OwnerID,
			&ws.Budget, &ws.Currency, &ws.CreatedAt, &ws.UpdatedAt,
		); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, ws)
	}
	return workspaces, rows.Err()
}

func (r *pgWorkspaceRepository) Update(ctx context.Context, workspace *Workspace) error {
	query := `
		UPDATE workspaces
		SET name = $2, description = $3, budget = $4, currency = $5, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		workspace.ID, workspace.Name, workspace.Description, workspace.Budget, workspace.Currency,
	)
	return err
}

func (r *pgWorkspaceRepository) CountOwnedByUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM workspaces WHERE owner_id = $1`
	var count int
	err := r.pool.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}

func (r *pgWorkspaceRepository) AddMember(ctx context.Context, member *WorkspaceMember) error {
	query := `
		INSERT INTO workspace_members (workspace_id, user_id, display_name, role, salary)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (workspace_id, user_id) DO NOTHING
		RETURNING id, joined_at
	`
	err := r.pool.QueryRow(ctx, query,
		member.WorkspaceID, member.UserID, member.DisplayName, member.Role, member.Salary,
	).Scan(&member.ID, &member.JoinedAt)
	if err == pgx.ErrNoRows {
		// Conflict target hit; the caller has already checked membership
		// under the workspace lock, so treat it as a no-op.
		return nil
	}
	return err
}

func (r *pgWorkspaceRepository) FindMember(ctx context.Context, workspaceID, userID string) (*WorkspaceMember, error) {
	query := `
		SELECT id, workspace_id, user_id, display_name, role, salary, joined_at
		FROM workspace_members WHERE workspace_id = $1 AND user_id = $2
	`
	m := &WorkspaceMember{}
	err := r.pool.QueryRow(ctx, query, workspaceID, userID).Scan(
		&m.ID, &m.WorkspaceID, &m.UserID, &m.DisplayName, &m.Role, &m.Salary, &m.JoinedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgWorkspaceRepository) FindMembers(ctx context.Context, workspaceID string) ([]*WorkspaceMember, error) {
	query := `
		SELECT id, workspace_id, user_id, display_name, role, salary, joined_at
		FROM workspace_members WHERE workspace_id = $1
		ORDER BY joined_at
	`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*WorkspaceMember
	for rows.Next() {
		m := &WorkspaceMember{}
		if err := rows.Scan(
			&m.ID, &m.WorkspaceID, &m.UserID, &m.DisplayName, &m.Role, &m.Salary, &m.JoinedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *pgWorkspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	query := `DELETE FROM workspace_members WHERE workspace_id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, workspaceID, userID)
	return err
}

func (r *pgWorkspaceRepository) UpdateMemberSalary(ctx context.Context, workspaceID, userID string, salary decimal.Decimal) error {
	query := `UPDATE workspace_members SET salary = $3 WHERE workspace_id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, workspaceID, userID, salary)
	return err
}

func (r *pgWorkspaceRepository) CreateInvite(ctx context.Context, invite *WorkspaceInvite) error {
	query := `
		INSERT INTO workspace_invites (workspace_id, email, token, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, sent_at
	`
	return r.pool.QueryRow(ctx, query,
		invite.WorkspaceID, invite.Email, invite.Token, invite.Role,
	).Scan(&invite.ID, &invite.SentAt)
}

func (r *pgWorkspaceRepository) FindInvites(ctx context.Context, workspaceID string) ([]*WorkspaceInvite, error) {
	query := `
		SELECT id, workspace_id, email, token, role, sent_at
		FROM workspace_invites WHERE workspace_id = $1
		ORDER BY sent_at
	`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []*WorkspaceInvite
	for rows.Next() {
		inv := &WorkspaceInvite{}
		if err := rows.Scan(
			&inv.ID, &inv.WorkspaceID, &inv.Email, &inv.Token, &inv.Role, &inv.SentAt,
		); err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (r *pgWorkspaceRepository) ConsumeInvite(ctx context.Context, workspaceID, token string) (*WorkspaceInvite, error) {
	query := `
		DELETE FROM workspace_invites
		WHERE workspace_id = $1 AND token = $2
		RETURNING id, workspace_id, email, token, role, sent_at
	`
	inv := &WorkspaceInvite{}
	err := r.pool.QueryRow(ctx, query, workspaceID, token).Scan(
		&inv.ID, &inv.WorkspaceID, &inv.Email, &inv.Token, &inv.Role, &inv.SentAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *pgWorkspaceRepository) DeleteInvitesByEmail(ctx context.Context, workspaceID, email string) error {
	query := `DELETE FROM workspace_invites WHERE workspace_id = $1 AND email = $2`
	_, err := r.pool.Exec(ctx, query, workspaceID, email)
	return err
}
