package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkmark/inkmark/internal/pkg/response"
	"github.com/inkmark/inkmark/internal/service"
)

type ShareHandler struct {
	shares *service.ShareService
}

func NewShareHandler(shares *service.ShareService) *ShareHandler {
	return &ShareHandler{shares: shares}
}

type grantRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type mintTokenRequest struct {
	NotifyEmail string `json:"notify_email" binding:"omitempty,email"`
}

func (h *ShareHandler) Grant(c *gin.Context) {
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	grant, err := h.shares.GrantByEmail(c.Request.Context(), userActor(c), c.Param("id"), req.Email)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, grant)
}

func (h *ShareHandler) MintToken(c *gin.Context) {
	var req mintTokenRequest
	// Body is optional: minting without notifying anyone is the common case.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
			return
		}
	}
	token, err := h.shares.MintToken(c.Request.Context(), userActor(c), c.Param("id"), req.NotifyEmail)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, token)
}

func (h *ShareHandler) RevokeToken(c *gin.Context) {
	if err := h.shares.RevokeToken(c.Request.Context(), userActor(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
