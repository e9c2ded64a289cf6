package service

import (
	"context"
	"strings"

	"github.com/fintrackhq/fintrack-backend/internal/repository"
	"github.com/fintrackhq/fintrack-backend/internal/socket"
	"github.com/shopspring/decimal"
)

// ============================================
// Payment Request Service
// ============================================

// Payment request statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusPaid     = "paid"
)

// statusTransitions maps a target status to the statuses it may be
// reached from. Rejected and paid are terminal.
var statusTransitions = map[string][]string{
	StatusApproved: {StatusPending},
	StatusRejected: {StatusPending},
	StatusPaid:     {StatusApproved},
}

type CreatePaymentRequestInput struct {
	SenderID      string
	SenderName    string
	RecipientID   string
	RecipientName *string
	Amount        decimal.Decimal
	Description   string
	WorkspaceID   *string
}

type PaymentService interface {
	Create(ctx context.Context, in CreatePaymentRequestInput) (*repository.PaymentRequest, error)
	ListForUser(ctx context.Context, userID, filter string) ([]*repository.PaymentRequest, error)
	UpdateStatus(ctx context.Context, id, status string) (*repository.PaymentRequest, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRequestRepository
	userRepo    repository.UserRepository
	notifier    Notifier
}

func NewPaymentService(paymentRepo repository.PaymentRequestRepository, userRepo repository.UserRepository, notifier Notifier) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

func (s *paymentService) Create(ctx context.Context, in CreatePaymentRequestInput) (*repository.PaymentRequest, error) {
	if in.SenderID == "" || in.RecipientID == "" || strings.TrimSpace(in.Description) == "" {
		return nil, ErrValidation
	}
	if !in.Amount.IsPositive() {
		return nil, ErrValidation
	}

	senderName := in.SenderName
	if senderName == "" {
		if sender, err := s.userRepo.FindByID(ctx, in.SenderID); err == nil && sender != nil {
			senderName = sender.Name
		} else {
			senderName = placeholderName
		}
	}

	pr := &repository.PaymentRequest{
		SenderID:      in.SenderID,
		SenderName:    senderName,
		RecipientID:   in.RecipientID,
		RecipientName: in.RecipientName,
		Amount:        in.Amount,
		Description:   in.Description,
		Status:        StatusPending,
		WorkspaceID:   in.WorkspaceID,
	}
	if err := s.paymentRepo.Create(ctx, pr); err != nil {
		return nil, err
	}

	// Best-effort push; an offline recipient simply misses it.
	s.notifier.Notify(pr.RecipientID, socket.EventReceivePaymentRequest, map[string]interface{}{
		"id":          pr.ID,
		"senderId":    pr.SenderID,
		"senderName":  pr.SenderName,
		"amount":      pr.Amount,
		"description": pr.Description,
		"timestamp":   pr.CreatedAt,
	})

	return pr, nil
}

func (s *paymentService) ListForUser(ctx context.Context, userID, filter string) ([]*repository.PaymentRequest, error) {
	switch filter {
	case "", "sent", "received":
	default:
		return nil, ErrValidation
	}
	return s.paymentRepo.FindByUser(ctx, userID, filter)
}

func (s *paymentService) UpdateStatus(ctx context.Context, id, status string) (*repository.PaymentRequest, error) {
	from, ok := statusTransitions[status]
	if !ok {
		return nil, ErrInvalidTransition
	}

	// Compare-and-set in the store: concurrent conflicting updates
	// cannot both pass the transition check.
	pr, err := s.paymentRepo.UpdateStatus(ctx, id, from, status)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		existing, err := s.paymentRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		return nil, ErrInvalidTransition
	}

	// Recipient name is resolved lazily, on first use after the
	// recipient acts on the request.
	recipientName := ""
	if pr.RecipientName != nil {
		recipientName = *pr.RecipientName
	} else if recipient, err := s.userRepo.FindByID(ctx, pr.RecipientID); err == nil && recipient != nil {
		recipientName = recipient.Name
	}

	s.notifier.Notify(pr.SenderID, socket.EventPaymentRequestUpdated, map[string]interface{}{
		"id":            pr.ID,
		"status":        pr.Status,
		"recipientName": recipientName,
	})

	return pr, nil
}
