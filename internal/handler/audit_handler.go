package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkmark/inkmark/internal/pkg/response"
	"github.com/inkmark/inkmark/internal/service"
)

type AuditHandler struct {
	audit *service.AuditService
}

func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) ListByDocument(c *gin.Context) {
	limit := parseUintQuery(c, "limit", 50)
	offset := parseUintQuery(c, "offset", 0)
	items, err := h.audit.ListByDocument(c.Request.Context(), userActor(c), c.Param("id"), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

func parseUintQuery(c *gin.Context, key string, fallback uint) uint {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return uint(value)
}
