package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/fintrackhq/fintrack-backend/internal/config"
	"github.com/fintrackhq/fintrack-backend/internal/email"
	"github.com/fintrackhq/fintrack-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================
// Workspace Service (membership manager)
// ============================================

// Workspace member roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// placeholderName is used when the user directory cannot resolve a
// member's display name. Reads repair it lazily once the directory
// answers again.
const placeholderName = "Unknown member"

type WorkspaceDetail struct {
	Workspace *repository.Workspace
	Members   []*repository.WorkspaceMember
	Invites   []*repository.WorkspaceInvite
}

type WorkspaceUpdate struct {
	Name        *string
	Description *string
	Budget      *decimal.Decimal
	Currency    *string
}

type WorkspaceService interface {
	Create(ctx context.Context, ownerID, name string, description *string) (*repository.Workspace, error)
	Get(ctx context.Context, id string) (*WorkspaceDetail, error)
	ListForUser(ctx context.Context, userID string) ([]*repository.Workspace, error)
	UpdateDetails(ctx context.Context, workspaceID, requesterID string, update WorkspaceUpdate) (*repository.Workspace, error)

	// Invite issues a single-use token for email and returns the invite
	// together with the join link. Email delivery is best-effort; the
	// link is always returned to the caller.
	Invite(ctx context.Context, workspaceID, requesterID, emailAddr, role string) (*repository.WorkspaceInvite, string, error)
	// Join adds userID to the workspace, consuming token when one is
	// supplied. Racing joins on the same token yield exactly one success.
	Join(ctx context.Context, workspaceID, userID, role, token string) (*repository.Workspace, error)
	RemoveMember(ctx context.Context, workspaceID, requesterID, targetUserID string) error
	SetMemberSalary(ctx context.Context, workspaceID, requesterID, targetUserID string, amount decimal.Decimal) error
}

type workspaceService struct {
	cfg           *config.Config
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
	emailSvc      *email.Service
	locks         *keyedMutex
}

func NewWorkspaceService(
	cfg *config.Config,
	workspaceRepo repository.WorkspaceRepository,
	userRepo repository.UserRepository,
	emailSvc *email.Service,
) WorkspaceService {
	return &workspaceService{
		cfg:           cfg,
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		emailSvc:      emailSvc,
		locks:         newKeyedMutex(),
	}
}

func validRole(role string) bool {
	switch role {
	case RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

// ownedLimit returns the workspace-ownership cap for a tier, or -1 for
// unlimited.
func (s *workspaceService) ownedLimit(tier string) int {
	switch tier {
	case repository.TierPremium:
		return s.cfg.PremiumWorkspaceLimit
	case repository.TierEnterprise:
		return -1
	default:
		return s.cfg.FreeWorkspaceLimit
	}
}

func (s *workspaceService) Create(ctx context.Context, ownerID, name string, description *string) (*repository.Workspace, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(ownerID) == "" {
		return nil, ErrValidation
	}

	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrNotFound
	}

	if limit := s.ownedLimit(owner.SubscriptionTier); limit >= 0 {
		owned, err := s.workspaceRepo.CountOwnedByUser(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if owned >= limit {
			return nil, ErrQuotaExceeded
		}
	}

	workspace := &repository.Workspace{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}
	if err := s.workspaceRepo.Create(ctx, workspace); err != nil {
		return nil, err
	}

	// The owner is always an admin member of their own workspace.
	member := &repository.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      ownerID,
		DisplayName: owner.Name,
		Role:        RoleAdmin,
	}
	if err := s.workspaceRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	return workspace, nil
}

func (s *workspaceService) Get(ctx context.Context, id string) (*WorkspaceDetail, error) {
	workspace, err := s.workspaceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrNotFound
	}

	members, err := s.workspaceRepo.FindMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	s.backfillNames(ctx, members)

	invites, err := s.workspaceRepo.FindInvites(ctx, id)
	if err != nil {
		return nil, err
	}

	return &WorkspaceDetail{
		Workspace: workspace,
		Members:   members,
		Invites:   invites,
	}, nil
}

// backfillNames repairs missing or placeholder display names from the
// user directory. Best-effort only: a failed lookup leaves the
// placeholder in place until the next read.
func (s *workspaceService) backfillNames(ctx context.Context, members []*repository.WorkspaceMember) {
	for _, m := range members {
		if m.DisplayName != "" && m.DisplayName != placeholderName {
			continue
		}
		user, err := s.userRepo.FindByID(ctx, m.UserID)
		if err != nil || user == nil {
			m.DisplayName = placeholderName
			continue
		}
		m.DisplayName = user.Name
	}
}

func (s *workspaceService) ListForUser(ctx context.Context, userID string) ([]*repository.Workspace, error) {
	return s.workspaceRepo.FindByUserID(ctx, userID)
}

func (s *workspaceService) UpdateDetails(ctx context.Context, workspaceID, requesterID string, update WorkspaceUpdate) (*repository.Workspace, error) {
	unlock := s.locks.Lock(workspaceID)
	defer unlock()

	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrNotFound
	}
	if workspace.OwnerID != requesterID {
		return nil, ErrForbidden
	}

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, ErrValidation
		}
		workspace.Name = *update.Name
	}
	if update.Description != nil {
		workspace.Description = update.Description
	}
	if update.Budget != nil {
		if update.Budget.IsNegative() {
			return nil, ErrValidation
		}
		workspace.Budget = *update.Budget
	}
	if update.Currency != nil {
		workspace.Currency = *update.Currency
	}

	if err := s.workspaceRepo.Update(ctx, workspace); err != nil {
		return nil, err
	}
	return workspace, nil
}

func (s *workspaceService) Invite(ctx context.Context, workspaceID, requesterID, emailAddr, role string) (*repository.WorkspaceInvite, string, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" {
		return nil, "", ErrValidation
	}
	if role == "" {
		role = RoleMember
	}
	if !validRole(role) {
		return nil, "", ErrValidation
	}

	unlock := s.locks.Lock(workspaceID)
	defer unlock()

	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, "", err
	}
	if workspace == nil {
		return nil, "", ErrNotFound
	}
	if workspace.OwnerID != requesterID {
		return nil, "", ErrForbidden
	}

	// Re-inviting an email replaces its outstanding token.
	if err := s.workspaceRepo.DeleteInvitesByEmail(ctx, workspaceID, emailAddr); err != nil {
		return nil, "", err
	}

	invite := &repository.WorkspaceInvite{
		WorkspaceID: workspaceID,
		Email:       emailAddr,
		Token:       uuid.New().String(),
		Role:        role,
	}
	if err := s.workspaceRepo.CreateInvite(ctx, invite); err != nil {
		return nil, "", err
	}

	joinLink := fmt.Sprintf("%s/dashboard/workspace/join?token=%s&workspace=%s",
		s.cfg.FrontendURL, invite.Token, workspaceID)

	// Email delivery is best-effort and must not fail the invite; the
	// join link is returned to the caller either way.
	if s.emailSvc != nil {
		go func(workspaceName, to, link string) {
			if err := s.emailSvc.SendWorkspaceInvite(workspaceName, to, link); err != nil {
				log.Printf("[Workspace] Invite email to %s failed: %v", to, err)
			}
		}(workspace.Name, emailAddr, joinLink)
	}

	return invite, joinLink, nil
}

func (s *workspaceService) Join(ctx context.Context, workspaceID, userID, role, token string) (*repository.Workspace, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrValidation
	}

	unlock := s.locks.Lock(workspaceID)
	defer unlock()

	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrNotFound
	}

	existing, err := s.workspaceRepo.FindMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	if token != "" {
		// Atomic compare-and-remove: of N racing joins with the same
		// token, exactly one gets the invite back.
		invite, err := s.workspaceRepo.ConsumeInvite(ctx, workspaceID, token)
		if err != nil {
			return nil, err
		}
		if invite == nil {
			return nil, ErrInvalidToken
		}
		role = invite.Role
	}
	if role == "" {
		role = RoleMember
	}
	if !validRole(role) {
		return nil, ErrValidation
	}

	displayName := placeholderName
	if user, err := s.userRepo.FindByID(ctx, userID); err == nil && user != nil {
		displayName = user.Name
	}

	member := &repository.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		DisplayName: displayName,
		Role:        role,
	}
	if err := s.workspaceRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	return workspace, nil
}

func (s *workspaceService) RemoveMember(ctx context.Context, workspaceID, requesterID, targetUserID string) error {
	unlock := s.locks.Lock(workspaceID)
	defer unlock()

	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if workspace == nil {
		return ErrNotFound
	}
	if workspace.OwnerID != requesterID {
		return ErrForbidden
	}
	if targetUserID == workspace.OwnerID {
		return ErrInvalidOperation
	}

	member, err := s.workspaceRepo.FindMember(ctx, workspaceID, targetUserID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrNotFound
	}

	return s.workspaceRepo.RemoveMember(ctx, workspaceID, targetUserID)
}

func (s *workspaceService) SetMemberSalary(ctx context.Context, workspaceID, requesterID, targetUserID string, amount decimal.Decimal) error {
	unlock := s.locks.Lock(workspaceID)
	defer unlock()

	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if workspace == nil {
		return ErrNotFound
	}
	if workspace.OwnerID != requesterID {
		return ErrForbidden
	}

	member, err := s.workspaceRepo.FindMember(ctx, workspaceID, targetUserID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrNotFound
	}

	// Negative and unparseable amounts are stored as zero.
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	return s.workspaceRepo.UpdateMemberSalary(ctx, workspaceID, targetUserID, amount)
}
