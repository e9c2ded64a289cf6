package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/fintrackhq/fintrack-backend/internal/repository"
)

// ============================================
// User Service
// ============================================

// Cache is the read-cache surface used for user-directory lookups.
// Satisfied by db.RedisDB; nil disables caching.
type Cache interface {
	GetCache(ctx context.Context, key string, dest interface{}) error
	SetCache(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DeleteCache(ctx context.Context, key string) error
}

type UserUpdate struct {
	Email            *string
	Name             *string
	UserType         *string
	SubscriptionTier *string
}

type UserService interface {
	// Sync creates the user on first contact with the identity
	// provider and refreshes profile fields afterwards.
	Sync(ctx context.Context, id, email, name, userType string) (*repository.User, error)
	GetByID(ctx context.Context, id string) (*repository.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*repository.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	cache    Cache
}

func NewUserService(userRepo repository.UserRepository, cache Cache) UserService {
	return &userService{userRepo: userRepo, cache: cache}
}

const userCacheTTL = 5 * time.Minute

func userCacheKey(id string) string {
	return "user:" + id
}

func (s *userService) Sync(ctx context.Context, id, email, name, userType string) (*repository.User, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(name) == "" {
		return nil, ErrValidation
	}

	user := &repository.User{
		ID:       id,
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Name:     name,
		UserType: userType,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*repository.User, error) {
	if s.cache != nil {
		var cached repository.User
		if err := s.cache.GetCache(ctx, userCacheKey(id), &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetCache(ctx, userCacheKey(id), user, userCacheTTL); err != nil {
			log.Printf("[User] Cache write failed for %s: %v", id, err)
		}
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, update UserUpdate) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if update.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*update.Email))
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.UserType != nil {
		user.UserType = *update.UserType
	}
	if update.SubscriptionTier != nil {
		user.SubscriptionTier = *update.SubscriptionTier
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return user, nil
}

func (s *userService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteCache(ctx, userCacheKey(id)); err != nil {
		log.Printf("[User] Cache invalidation failed for %s: %v", id, err)
	}
}
