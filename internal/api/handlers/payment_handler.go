package handlers

import (
	"net/http"

	"github.com/fintrackhq/fintrack-backend/internal/api/middleware"
	"github.com/fintrackhq/fintrack-backend/internal/models"
	"github.com/fintrackhq/fintrack-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Payment Request Handler
// ============================================

type PaymentHandler struct {
	paymentService service.PaymentService
}

func (h *PaymentHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreatePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Kind: "ValidationError", Error: err.Error()})
		return
	}

	pr, err := h.paymentService.Create(c.Request.Context(), service.CreatePaymentRequestInput{
		SenderID:      userID,
		SenderName:    req.SenderName,
		RecipientID:   req.RecipientID,
		RecipientName: req.RecipientName,
		Amount:        req.Amount,
		Description:   req.Description,
		WorkspaceID:   req.WorkspaceID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toPaymentRequestResponse(pr))
}

func (h *PaymentHandler) List(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	requests, err := h.paymentService.ListForUser(c.Request.Context(), userID, c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.PaymentRequestResponse, len(requests))
	for i, pr := range requests {
		response[i] = toPaymentRequestResponse(pr)
	}

	c.JSON(http.StatusOK, response)
}

func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	var req models.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Kind: "ValidationError", Error: err.Error()})
		return
	}

	pr, err := h.paymentService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPaymentRequestResponse(pr))
}
