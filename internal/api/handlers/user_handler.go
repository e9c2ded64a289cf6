package handlers

import (
	"net/http"

	"github.com/fintrackhq/fintrack-backend/internal/models"
	"github.com/fintrackhq/fintrack-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// User Handler
// ============================================

type UserHandler struct {
	userService service.UserService
}

// Sync creates or refreshes a user record keyed by the identity
// provider's id. Called by the frontend after sign-in.
func (h *UserHandler) Sync(c *gin.Context) {
	var req models.SyncUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Kind: "ValidationError", Error: err.Error()})
		return
	}

	user, err := h.userService.Sync(c.Request.Context(), req.ID, req.Email, req.Name, req.UserType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) Update(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Kind: "ValidationError", Error: err.Error()})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), service.UserUpdate{
		Email:            req.Email,
		Name:             req.Name,
		UserType:         req.UserType,
		SubscriptionTier: req.SubscriptionTier,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
