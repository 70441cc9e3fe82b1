package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/blade"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/movements"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/http/v1/dto"
)

// MovementHandler serves the movement recording endpoints.
type MovementHandler struct {
	BaseHandler
	recorder *movements.Recorder
}

// NewMovementHandler creates the movement handler.
func NewMovementHandler(recorder *movements.Recorder) *MovementHandler {
	return &MovementHandler{recorder: recorder}
}

// Record handles POST /movements.
func (h *MovementHandler) Record(c *gin.Context) {
	var req dto.RecordMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	bladeID, err := id.Parse(req.BladeID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid bladeId").WithDetail("value", req.BladeID))
		return
	}

	domainReq := movements.Request{
		BladeID:     bladeID,
		Op:          movements.OpCode(req.Op),
		DocChoice:   req.DocChoice,
		Status:      blade.Status(req.Status),
		Machine:     req.Machine,
		HoursWorked: req.HoursWorked,
		Note:        req.Note,
	}
	if req.ClientID != "" {
		clientID, err := id.Parse(req.ClientID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid clientId").WithDetail("value", req.ClientID))
			return
		}
		domainReq.ClientID = &clientID
	}

	m, err := h.recorder.Record(c.Request.Context(), domainReq)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// List handles GET /movements.
func (h *MovementHandler) List(c *gin.Context) {
	var q dto.MovementListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := movements.ListFilter{
		Op:     movements.OpCode(q.Op),
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if q.BladeID != "" {
		bladeID, err := id.Parse(q.BladeID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid bladeId").WithDetail("value", q.BladeID))
			return
		}
		filter.BladeID = bladeID
	}

	items, total, err := h.recorder.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{
		"items":      items,
		"totalCount": total,
		"limit":      filter.Limit,
		"offset":     filter.Offset,
	})
}

// Get handles GET /movements/:id.
func (h *MovementHandler) Get(c *gin.Context) {
	movementID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	m, err := h.recorder.GetByID(c.Request.Context(), movementID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, m)
}
