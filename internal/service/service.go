package service

import (
	"errors"
	"sync"

	"github.com/fintrackhq/fintrack-backend/internal/config"
	"github.com/fintrackhq/fintrack-backend/internal/email"
	"github.com/fintrackhq/fintrack-backend/internal/repository"
	"github.com/fintrackhq/fintrack-backend/internal/socket"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("forbidden")
	ErrAlreadyMember     = errors.New("user is already a member")
	ErrInvalidToken      = errors.New("invalid or already used invite token")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrQuotaExceeded     = errors.New("workspace limit reached for subscription tier")
	ErrValidation        = errors.New("validation failed")
)

// Notifier pushes a real-time event to a user if they are online.
// Satisfied by notification.Dispatcher.
type Notifier interface {
	Notify(userID string, event socket.EventName, payload map[string]interface{})
}

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth      AuthService
	User      UserService
	Workspace WorkspaceService
	Payment   PaymentService
	Message   MessageService
}

type ServiceDeps struct {
	Config   *config.Config
	Repos    *repository.Repositories
	Notifier Notifier
	EmailSvc *email.Service
	Cache    Cache
}

func NewServices(deps *ServiceDeps) *Services {
	userSvc := NewUserService(deps.Repos.UserRepo, deps.Cache)
	return &Services{
		Auth:      NewAuthService(deps.Config),
		User:      userSvc,
		Workspace: NewWorkspaceService(deps.Config, deps.Repos.WorkspaceRepo, deps.Repos.UserRepo, deps.EmailSvc),
		Payment:   NewPaymentService(deps.Repos.PaymentRequestRepo, deps.Repos.UserRepo, deps.Notifier),
		Message:   NewMessageService(deps.Repos.MessageRepo),
	}
}

// ============================================
// Per-workspace serialization
// ============================================

// keyedMutex serializes mutations per workspace so member-list and
// invite invariants hold under concurrent requests to the same
// workspace, while different workspaces proceed in parallel.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

func (k *keyedMutex) Lock(key string) func() {
	m := k.get(key)
	m.Lock()
	return m.Unlock
}
