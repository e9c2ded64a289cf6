package handlers

import (
	"errors"
	"net/http"

	"github.com/fintrackhq/fintrack-backend/internal/models"
	"github.com/fintrackhq/fintrack-backend/internal/repository"
	"github.com/fintrackhq/fintrack-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	User      *UserHandler
	Workspace *WorkspaceHandler
	Payment   *PaymentHandler
	Message   *MessageHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		User:      &UserHandler{userService: services.User},
		Workspace: &WorkspaceHandler{workspaceService: services.Workspace},
		Payment:   &PaymentHandler{paymentService: services.Payment},
		Message:   &MessageHandler{messageService: services.Message},
	}
}

// ============================================
// Domain Error Mapping
// ============================================

// respondError translates domain errors into a stable HTTP status and
// machine-readable kind. Anything unrecognized is an infrastructure
// failure and must not leak storage details to the caller.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Kind: "NotFound", Error: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Kind: "Forbidden", Error: err.Error()})
	case errors.Is(err, service.ErrAlreadyMember):
		c.JSON(http.StatusConflict, models.ErrorResponse{Kind: "AlreadyMember", Error: err.Error()})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusConflict, models.ErrorResponse{Kind: "InvalidToken", Error: err.Error()})
	case errors.Is(err, service.ErrInvalidOperation):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Kind: "InvalidOperation", Error: err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, models.ErrorResponse{Kind: "InvalidTransition", Error: err.Error()})
	case errors.Is(err, service.ErrQuotaExceeded):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Kind: "QuotaExceeded", Error: err.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Kind: "ValidationError", Error: err.Error()})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Kind: "Internal", Error: "internal server error"})
	}
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(u *repository.User) models.UserResponse {
	return models.UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		UserType:           u.UserType,
		SubscriptionTier:   u.SubscriptionTier,
		SubscriptionEndsAt: u.SubscriptionEndsAt,
		CreatedAt:          u.CreatedAt,
	}
}

func toWorkspaceResponse(w *repository.Workspace) models.WorkspaceResponse {
	resp := models.WorkspaceResponse{
		ID:        w.ID,
		Name:      w.Name,
		OwnerID:   w.OwnerID,
		Budget:    w.Budget,
		Currency:  w.Currency,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	if w.Description != nil {
		resp.Description = *w.Description
	}
	return resp
}

func toWorkspaceDetailResponse(d *service.WorkspaceDetail) models.WorkspaceDetailResponse {
	resp := models.WorkspaceDetailResponse{
		WorkspaceResponse: toWorkspaceResponse(d.Workspace),
		Members:           make([]models.WorkspaceMemberResponse, len(d.Members)),
		Invites:           make([]models.WorkspaceInviteResponse, len(d.Invites)),
	}
	for i, m := range d.Members {
		resp.Members[i] = models.WorkspaceMemberResponse{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			Role:        m.Role,
			Salary:      m.Salary,
			JoinedAt:    m.JoinedAt,
		}
	}
	for i, inv := range d.Invites {
		resp.Invites[i] = models.WorkspaceInviteResponse{
			Email:  inv.Email,
			Role:   inv.Role,
			SentAt: inv.SentAt,
		}
	}
	return resp
}

func toPaymentRequestResponse(pr *repository.PaymentRequest) models.PaymentRequestResponse {
	return models.PaymentRequestResponse{
		ID:            pr.ID,
		SenderID:      pr.SenderID,
		SenderName:    pr.SenderName,
		RecipientID:   pr.RecipientID,
		RecipientName: pr.RecipientName,
		Amount:        pr.Amount,
		Description:   pr.Description,
		Status:        pr.Status,
		WorkspaceID:   pr.WorkspaceID,
		CreatedAt:     pr.CreatedAt,
		UpdatedAt:     pr.UpdatedAt,
	}
}

func toMessageResponse(m *repository.Message) models.MessageResponse {
	return models.MessageResponse{
		ID:               m.ID,
		WorkspaceID:      m.WorkspaceID,
		SenderID:         m.SenderID,
		RecipientID:      m.RecipientID,
		Content:          m.Content,
		Type:             m.Type,
		RelatedExpenseID: m.RelatedExpenseID,
		IsRead:           m.IsRead,
		CreatedAt:        m.CreatedAt,
	}
}
