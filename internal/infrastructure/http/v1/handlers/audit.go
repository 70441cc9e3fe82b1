package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/storage/postgres"
)

var auditEntityTypes = map[string]bool{
	"client":   true,
	"blade":    true,
	"document": true,
}

// AuditHandler exposes the change history of audited entities.
type AuditHandler struct {
	BaseHandler
	audit *postgres.AuditService
}

// NewAuditHandler creates the audit handler.
func NewAuditHandler(audit *postgres.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// History handles GET /audit/:entityType/:id
func (h *AuditHandler) History(c *gin.Context) {
	entityType := c.Param("entityType")
	if !auditEntityTypes[entityType] {
		h.Error(c, apperror.NewValidation("unknown entity type").
			WithDetail("entityType", entityType))
		return
	}

	entityID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	entries, err := h.audit.EntityHistory(c.Request.Context(), entityType, entityID, limit)
	if err != nil {
		h.Error(c, apperror.NewStore(err))
		return
	}

	h.OK(c, gin.H{"items": entries, "count": len(entries)})
}
