// Package models defines the HTTP request and response shapes.
package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================
// Request Models
// ============================================

type SyncUserRequest struct {
	ID       string `json:"id" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	UserType string `json:"userType"`
}

type UpdateUserRequest struct {
	Email            *string `json:"email"`
	Name             *string `json:"name"`
	UserType         *string `json:"userType"`
	SubscriptionTier *string `json:"subscriptionTier"`
}

type CreateWorkspaceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type UpdateWorkspaceRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Budget      *decimal.Decimal `json:"budget"`
	Currency    *string          `json:"currency"`
}

type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

type JoinWorkspaceRequest struct {
	WorkspaceID string `json:"workspaceId" binding:"required"`
	Token       string `json:"token"`
	Role        string `json:"role"`
}

// SetSalaryRequest keeps the amount raw so malformed values can be
// coerced to zero instead of rejected.
type SetSalaryRequest struct {
	Amount json.RawMessage `json:"amount"`
}

type CreatePaymentRequestRequest struct {
	RecipientID   string          `json:"recipientId" binding:"required"`
	RecipientName *string         `json:"recipientName"`
	SenderName    string          `json:"senderName"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	WorkspaceID   *string         `json:"workspaceId"`
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SendMessageRequest struct {
	RecipientID      string  `json:"recipientId" binding:"required"`
	Content          string  `json:"content" binding:"required"`
	Type             string  `json:"type"`
	WorkspaceID      *string `json:"workspaceId"`
	RelatedExpenseID *string `json:"relatedExpenseId"`
}

// ============================================
// Response Models
// ============================================

type UserResponse struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	UserType           string     `json:"userType"`
	SubscriptionTier   string     `json:"subscriptionTier"`
	SubscriptionEndsAt *time.Time `json:"subscriptionEndsAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

type WorkspaceResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	OwnerID     string          `json:"ownerId"`
	Budget      decimal.Decimal `json:"budget"`
	Currency    string          `json:"currency"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type WorkspaceMemberResponse struct {
	UserID      string          `json:"userId"`
	DisplayName string          `json:"displayName"`
	Role        string          `json:"role"`
	Salary      decimal.Decimal `json:"salary"`
	JoinedAt    time.Time       `json:"joinedAt"`
}

type WorkspaceInviteResponse struct {
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	SentAt time.Time `json:"sentAt"`
}

type WorkspaceDetailResponse struct {
	WorkspaceResponse
	Members []WorkspaceMemberResponse `json:"members"`
	Invites []WorkspaceInviteResponse `json:"invites"`
}

type InviteResponse struct {
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinLink string    `json:"joinLink"`
	SentAt   time.Time `json:"sentAt"`
}

type PaymentRequestResponse struct {
	ID            string          `json:"id"`
	SenderID      string          `json:"senderId"`
	SenderName    string          `json:"senderName"`
	RecipientID   string          `json:"recipientId"`
	RecipientName *string         `json:"recipientName,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	WorkspaceID   *string         `json:"workspaceId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type MessageResponse struct {
	ID               string    `json:"id"`
	WorkspaceID      *string   `json:"workspaceId,omitempty"`
	SenderID         string    `json:"senderId"`
	RecipientID      string    `json:"recipientId"`
	Content          string    `json:"content"`
	Type             string    `json:"type"`
	RelatedExpenseID *string   `json:"relatedExpenseId,omitempty"`
	IsRead           bool      `json:"isRead"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ErrorResponse carries a stable machine-readable kind plus a
// human-readable message.
type ErrorResponse struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}
