package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fintrackhq/fintrack-backend/internal/api/middleware"
	"github.com/fintrackhq/fintrack-backend/internal/models"
	"github.com/fintrackhq/fintrack-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ============================================
// Workspace Handler
// ============================================

type WorkspaceHandler struct {
	workspaceService service.WorkspaceService
}

func (h *WorkspaceHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Kind: "ValidationError", Error: err.Error()})
		return
	}

	workspace, err := h.workspaceService.Create(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toWorkspaceResponse(workspace))
}

func (h *WorkspaceHandler) List(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	workspaces, err := h.workspaceService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.WorkspaceResponse, len(workspaces))
	for i, ws := range workspaces {
		response[i] = toWorkspaceResponse(ws)
	}

	c.JSON(http.StatusOK, response)
}

func (h *WorkspaceHandler) Get(c *gin.Context) {
	detail, err := h.workspaceService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWorkspaceDetailResponse(detail))
}

func (h *WorkspaceHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Kind: "ValidationError", Error: err.Error()})
		return
	}

	workspace, err := h.workspaceService.UpdateDetails(c.Request.Context(), c.Param("id"), userID, service.WorkspaceUpdate{
		Name:        req.Name,
		Description: req.Description,
		Budget:      req.Budget,
		Currency:    req.Currency,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWorkspaceResponse(workspace))
}

func (h *WorkspaceHandler) Invite(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Kind: "ValidationError", Error: err.Error()})
		return
	}

	invite, joinLink, err := h.workspaceService.Invite(c.Request.Context(), c.Param("id"), userID, req.Email, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.InviteResponse{
		Email:    invite.Email,
		Role:     invite.Role,
		JoinLink: joinLink,
		SentAt:   invite.SentAt,
	})
}

func (h *WorkspaceHandler) Join(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.JoinWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Kind: "ValidationError", Error: err.Error()})
		return
	}

	workspace, err := h.workspaceService.Join(c.Request.Context(), req.WorkspaceID, userID, req.Role, req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWorkspaceResponse(workspace))
}

func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	err := h.workspaceService.RemoveMember(c.Request.Context(), c.Param("id"), userID, c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func (h *WorkspaceHandler) SetMemberSalary(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.SetSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Kind: "ValidationError", Error: err.Error()})
		return
	}

	// Malformed or missing amounts store zero rather than failing.
	amount := lenientDecimal(req.Amount)

	err := h.workspaceService.SetMemberSalary(c.Request.Context(), c.Param("id"), userID, c.Param("userId"), amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"userId": c.Param("userId"), "salary": amount})
}

// lenientDecimal parses a raw JSON value as a decimal, accepting both
// numbers and numeric strings, and falls back to zero on anything else.
func lenientDecimal(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}

	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err == nil {
		return d
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
	}

	return decimal.Zero
}
