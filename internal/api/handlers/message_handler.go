package handlers

import (
	"net/http"

	"github.com/fintrackhq/fintrack-backend/internal/api/middleware"
	"github.com/fintrackhq/fintrack-backend/internal/models"
	"github.com/fintrackhq/fintrack-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Message Handler
// ============================================

type MessageHandler struct {
	messageService service.MessageService
}

func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Kind: "ValidationError", Error: err.Error()})
		return
	}

	msg, err := h.messageService.Send(c.Request.Context(), service.SendMessageInput{
		WorkspaceID:      req.WorkspaceID,
		SenderID:         userID,
		RecipientID:      req.RecipientID,
		Content:          req.Content,
		Type:             req.Type,
		RelatedExpenseID: req.RelatedExpenseID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toMessageResponse(msg))
}

func (h *MessageHandler) ListByWorkspace(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	messages, err := h.messageService.ListByWorkspace(c.Request.Context(), c.Param("workspaceId"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.MessageResponse, len(messages))
	for i, m := range messages {
		response[i] = toMessageResponse(m)
	}

	c.JSON(http.StatusOK, response)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	if err := h.messageService.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "isRead": true})
}
