package service

import (
	"context"
	"strings"

	"github.com/fintrackhq/fintrack-backend/internal/repository"
)

// ============================================
// Message Service
// ============================================

// Message types.
const (
	MessageTypeExpenseRequest = "expense_request"
	MessageTypeNote           = "note"
	MessageTypeNotification   = "notification"
)

type SendMessageInput struct {
	WorkspaceID      *string
	SenderID         string
	RecipientID      string
	Content          string
	Type             string
	RelatedExpenseID *string
}

// MessageService persists workspace messages. Transient chat payloads
// travel the socket relay instead and are never stored here; the two
// paths are deliberately independent.
type MessageService interface {
	Send(ctx context.Context, in SendMessageInput) (*repository.Message, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*repository.Message, error)
	MarkRead(ctx context.Context, id string) error
}

type messageService struct {
	messageRepo repository.MessageRepository
}

func NewMessageService(messageRepo repository.MessageRepository) MessageService {
	return &messageService{messageRepo: messageRepo}
}

func validMessageType(t string) bool {
	switch t {
	case MessageTypeExpenseRequest, MessageTypeNote, MessageTypeNotification:
		return true
	}
	return false
}

func (s *messageService) Send(ctx context.Context, in SendMessageInput) (*repository.Message, error) {
	if in.SenderID == "" || in.RecipientID == "" || strings.TrimSpace(in.Content) == "" {
		return nil, ErrValidation
	}
	if in.Type == "" {
		in.Type = MessageTypeNote
	}
	if !validMessageType(in.Type) {
		return nil, ErrValidation
	}

	msg := &repository.Message{
		WorkspaceID:      in.WorkspaceID,
		SenderID:         in.SenderID,
		RecipientID:      in.RecipientID,
		Content:          in.Content,
		Type:             in.Type,
		RelatedExpenseID: in.RelatedExpenseID,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *messageService) ListByWorkspace(ctx context.Context, workspaceID string) ([]*repository.Message, error) {
	return s.messageRepo.FindByWorkspace(ctx, workspaceID)
}

// MarkRead flips the read flag. Re-marking a read message is a no-op.
func (s *messageService) MarkRead(ctx context.Context, id string) error {
	found, err := s.messageRepo.MarkRead(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}
