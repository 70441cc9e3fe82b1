package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/appctx"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/blade"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/movements"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/http/v1/dto"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/qr"
)

// BladeHandler serves the blade catalog endpoints.
type BladeHandler struct {
	BaseHandler
	service  *blade.Service
	recorder *movements.Recorder
}

// NewBladeHandler creates the blade handler.
func NewBladeHandler(service *blade.Service, recorder *movements.Recorder) *BladeHandler {
	return &BladeHandler{service: service, recorder: recorder}
}

// Create handles POST /catalog/blades.
func (h *BladeHandler) Create(c *gin.Context) {
	var req dto.CreateBladeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b := blade.New(req.Code, req.Name)
	if ok := h.applyBladeFields(c, b, req.ClientID, req.Status); !ok {
		return
	}
	b.Width = req.WidthMm
	b.Thickness = req.ThicknessMm
	b.Length = req.LengthMm
	b.Pitch = req.Pitch
	b.ToothType = req.ToothType
	b.System = req.System
	b.MachineType = req.MachineType
	b.Notes = req.Notes
	b.StampCreated(appctx.ActorID(c.Request.Context()), time.Now().UTC())

	if err := h.service.Create(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, b.ID.String())
}

// Get handles GET /catalog/blades/:id.
func (h *BladeHandler) Get(c *gin.Context) {
	bladeID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.GetByID(c.Request.Context(), bladeID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b)
}

// Update handles PUT /catalog/blades/:id.
func (h *BladeHandler) Update(c *gin.Context) {
	bladeID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBladeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), bladeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	b.Name = req.Name
	if ok := h.applyBladeFields(c, b, req.ClientID, req.Status); !ok {
		return
	}
	b.Width = req.WidthMm
	b.Thickness = req.ThicknessMm
	b.Length = req.LengthMm
	b.Pitch = req.Pitch
	b.ToothType = req.ToothType
	b.System = req.System
	b.MachineType = req.MachineType
	b.Notes = req.Notes
	b.SetVersion(req.Version)
	b.StampUpdated(appctx.ActorID(c.Request.Context()), time.Now().UTC())

	if err := h.service.Update(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b)
}

// Delete handles DELETE /catalog/blades/:id (soft delete).
func (h *BladeHandler) Delete(c *gin.Context) {
	bladeID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), bladeID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// List handles GET /catalog/blades. A clientId query switches to the
// per-client listing, optionally narrowed by status.
func (h *BladeHandler) List(c *gin.Context) {
	if clientParam := c.Query("clientId"); clientParam != "" {
		clientID, err := id.Parse(clientParam)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid clientId").WithDetail("value", clientParam))
			return
		}
		blades, err := h.service.ListByClient(c.Request.Context(), clientID, blade.Status(c.Query("status")))
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, gin.H{"items": blades, "totalCount": len(blades)})
		return
	}

	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := domain.DefaultListFilter()
	filter.OrderBy = "code"
	filter.Search = q.Search
	filter.IncludeDeleted = q.IncludeDeleted
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	filter.Offset = q.Offset

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// QRLabel handles GET /catalog/blades/:id/qr and returns a PNG label.
func (h *BladeHandler) QRLabel(c *gin.Context) {
	bladeID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.GetByID(c.Request.Context(), bladeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	size := h.ParseIntQuery(c, "size", 256)
	png, err := qr.LabelPNG(b.Code, size)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Movements handles GET /catalog/blades/:id/movements.
func (h *BladeHandler) Movements(c *gin.Context) {
	bladeID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	offset := h.ParseIntQuery(c, "offset", 0)

	items, total, err := h.recorder.ListByBlade(c.Request.Context(), bladeID, limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{
		"items":      items,
		"totalCount": total,
		"limit":      limit,
		"offset":     offset,
	})
}

// applyBladeFields resolves the optional client reference and status code.
func (h *BladeHandler) applyBladeFields(c *gin.Context, b *blade.Blade, clientID, status string) bool {
	if clientID != "" {
		parsed, err := id.Parse(clientID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid clientId").WithDetail("value", clientID))
			return false
		}
		b.ClientID = &parsed
	} else {
		b.ClientID = nil
	}
	if status != "" {
		b.Status = blade.Status(status)
	}
	return true
}
