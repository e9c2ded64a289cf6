package service

import (
	"context"
	"sync"
	"time"

	"github.com/fintrackhq/fintrack-backend/internal/repository"
	"github.com/fintrackhq/fintrack-backend/internal/socket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repository fakes with the same nil-on-absent and
// compare-and-set semantics as the postgres implementations.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*repository.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*repository.User{}}
}

func (r *fakeUserRepo) Upsert(ctx context.Context, user *repository.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.SubscriptionTier == "" {
		user.SubscriptionTier = repository.TierFree
	}
	if user.UserType == "" {
		user.UserType = "personal"
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *repository.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

type fakeWorkspaceRepo struct {
	mu         sync.Mutex
	workspaces map[string]*repository.Workspace
	members    map[string][]*repository.WorkspaceMember
	invites    map[string][]*repository.WorkspaceInvite
}

func newFakeWorkspaceRepo() *fakeWorkspaceRepo {
	return &fakeWorkspaceRepo{
		workspaces: map[string]*repository.Workspace{},
		members:    map[string][]*repository.WorkspaceMember{},
		invites:    map[string][]*repository.WorkspaceInvite{},
	}
}

func (r *fakeWorkspaceRepo) Create(ctx context.Context, workspace *repository.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	workspace.ID = uuid.New().String()
	if workspace.Currency == "" {
		workspace.Currency = "USD"
	}
	workspace.CreatedAt = time.Now()
	workspace.UpdatedAt = workspace.CreatedAt
	cp := *workspace
	r.workspaces[workspace.ID] = &cp
	return nil
}

func (r *fakeWorkspaceRepo) FindByID(ctx context.Context, id string) (*repository.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.workspaces[id]
	if !ok {
		return nil, nil
	}
	cp := *ws
	return &cp, nil
}

func (r *fakeWorkspaceRepo) FindByUserID(ctx context.Context, userID string) ([]*repository.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*repository.Workspace
	for wsID, members := range r.members {
		for _, m := range members {
			if m.UserID == userID {
				if ws, ok := r.workspaces[wsID]; ok {
					cp := *ws
					out = append(out, &cp)
				}
				break
			}
		}
	}
	return out, nil
}

func (r *fakeWorkspaceRepo) Update(ctx context.Context, workspace *repository.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	workspace.UpdatedAt = time.Now()
	cp := *workspace
	r.workspaces[workspace.ID] = &cp
	return nil
}

func (r *fakeWorkspaceRepo) CountOwnedByUser(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, ws := range r.workspaces {
		if ws.OwnerID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeWorkspaceRepo) AddMember(ctx context.Context, member *repository.WorkspaceMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members[member.WorkspaceID] {
		if m.UserID == member.UserID {
			return nil // conflict no-op, same as ON CONFLICT DO NOTHING
		}
	}
	member.ID = uuid.New().String()
	member.JoinedAt = time.Now()
	cp := *member
	r.members[member.WorkspaceID] = append(r.members[member.WorkspaceID], &cp)
	return nil
}

func (r *fakeWorkspaceRepo) FindMember(ctx context.Context, workspaceID, userID string) (*repository.WorkspaceMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members[workspaceID] {
		if m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeWorkspaceRepo) FindMembers(ctx context.Context, workspaceID string) ([]*repository.WorkspaceMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*repository.WorkspaceMember, 0, len(r.members[workspaceID]))
	for _, m := range r.members[workspaceID] {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeWorkspaceRepo) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := r.members[workspaceID]
	for i, m := range members {
		if m.UserID == userID {
			r.members[workspaceID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeWorkspaceRepo) UpdateMemberSalary(ctx context.Context, workspaceID, userID string, salary decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members[workspaceID] {
		if m.UserID == userID {
			m.Salary = salary
			return nil
		}
	}
	return nil
}

func (r *fakeWorkspaceRepo) CreateInvite(ctx context.Context, invite *repository.WorkspaceInvite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	invite.ID = uuid.New().String()
	invite.SentAt = time.Now()
	cp := *invite
	r.invites[invite.WorkspaceID] = append(r.invites[invite.WorkspaceID], &cp)
	return nil
}

func (r *fakeWorkspaceRepo) FindInvites(ctx context.Context, workspaceID string) ([]*repository.WorkspaceInvite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*repository.WorkspaceInvite, 0, len(r.invites[workspaceID]))
	for _, inv := range r.invites[workspaceID] {
		cp := *inv
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeWorkspaceRepo) ConsumeInvite(ctx context.Context, workspaceID, token string) (*repository.WorkspaceInvite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invites := r.invites[workspaceID]
	for i, inv := range invites {
		if inv.Token == token {
			r.invites[workspaceID] = append(invites[:i], invites[i+1:]...)
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeWorkspaceRepo) DeleteInvitesByEmail(ctx context.Context, workspaceID, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	invites := r.invites[workspaceID]
	kept := invites[:0]
	for _, inv := range invites {
		if inv.Email != email {
			kept = append(kept, inv)
		}
	}
	r.invites[workspaceID] = kept
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	requests map[string]*repository.PaymentRequest
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{requests: map[string]*repository.PaymentRequest{}}
}

func (r *fakePaymentRepo) Create(ctx context.Context, pr *repository.PaymentRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr.ID = uuid.New().String()
	if pr.Status == "" {
		pr.Status = StatusPending
	}
	pr.CreatedAt = time.Now()
	pr.UpdatedAt = pr.CreatedAt
	cp := *pr
	r.requests[pr.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) FindByID(ctx context.Context, id string) (*repository.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *pr
	return &cp, nil
}

func (r *fakePaymentRepo) FindByUser(ctx context.Context, userID, filter string) ([]*repository.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*repository.PaymentRequest
	for _, pr := range r.requests {
		match := false
		switch filter {
		case "sent":
			match = pr.SenderID == userID
		case "received":
			match = pr.RecipientID == userID
		default:
			match = pr.SenderID == userID || pr.RecipientID == userID
		}
		if match {
			cp := *pr
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) FindPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*repository.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*repository.PaymentRequest
	for _, pr := range r.requests {
		if pr.Status == StatusPending && pr.CreatedAt.Before(cutoff) {
			cp := *pr
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) UpdateStatus(ctx context.Context, id string, fromStatuses []string, to string) (*repository.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	for _, from := range fromStatuses {
		if pr.Status == from {
			pr.Status = to
			pr.UpdatedAt = time.Now()
			cp := *pr
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages map[string]*repository.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: map[string]*repository.Message{}}
}

func (r *fakeMessageRepo) Create(ctx context.Context, msg *repository.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = uuid.New().String()
	msg.CreatedAt = time.Now()
	cp := *msg
	r.messages[msg.ID] = &cp
	return nil
}

func (r *fakeMessageRepo) FindByID(ctx context.Context, id string) (*repository.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMessageRepo) FindByWorkspace(ctx context.Context, workspaceID string) ([]*repository.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*repository.Message
	for _, m := range r.messages {
		if m.WorkspaceID != nil && *m.WorkspaceID == workspaceID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkRead(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return false, nil
	}
	m.IsRead = true
	return true, nil
}

// fakeNotifier records pushed events for assertions.
type fakeNotifier struct {
	mu     sync.Mutex
	events []notifiedEvent
}

type notifiedEvent struct {
	UserID  string
	Event   socket.EventName
	Payload map[string]interface{}
}

func (n *fakeNotifier) Notify(userID string, event socket.EventName, payload map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notifiedEvent{UserID: userID, Event: event, Payload: payload})
}

func (n *fakeNotifier) forUser(userID string) []notifiedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notifiedEvent
	for _, e := range n.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}
