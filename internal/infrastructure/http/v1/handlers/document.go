package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/apperror"
	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/blade"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/client"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/documents/wzpz"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/http/v1/dto"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/pdf"
)

// DocumentHandler serves the WZ/PZ document endpoints.
type DocumentHandler struct {
	BaseHandler
	service *wzpz.Service
	clients *client.Service
	blades  *blade.Service
}

// NewDocumentHandler creates the document handler.
func NewDocumentHandler(service *wzpz.Service, clients *client.Service, blades *blade.Service) *DocumentHandler {
	return &DocumentHandler{service: service, clients: clients, blades: blades}
}

// Create handles POST /documents: explicitly opens a new document.
func (h *DocumentHandler) Create(c *gin.Context) {
	var req dto.CreateDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	clientID, err := id.Parse(req.ClientID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid clientId").WithDetail("value", req.ClientID))
		return
	}

	doc, err := h.service.CreateOpen(c.Request.Context(), wzpz.DocType(req.Type), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// Get handles GET /documents/:id with items.
func (h *DocumentHandler) Get(c *gin.Context) {
	docID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// List handles GET /documents.
func (h *DocumentHandler) List(c *gin.Context) {
	var q dto.DocumentListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := wzpz.ListFilter{
		Type:   wzpz.DocType(q.Type),
		Status: wzpz.Status(q.Status),
		Year:   q.Year,
		Month:  time.Month(q.Month),
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if q.ClientID != "" {
		clientID, err := id.Parse(q.ClientID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid clientId").WithDetail("value", q.ClientID))
			return
		}
		filter.ClientID = clientID
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// ListOpen handles GET /documents/open for the new-or-continue choice when
// recording a movement.
func (h *DocumentHandler) ListOpen(c *gin.Context) {
	var q dto.OpenDocumentsQuery
	if !h.BindQuery(c, &q) {
		return
	}
	clientID, err := id.Parse(q.ClientID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid clientId").WithDetail("value", q.ClientID))
		return
	}

	docs, err := h.service.ListOpen(c.Request.Context(), wzpz.DocType(q.Type), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": docs})
}

// AddItem handles POST /documents/:id/items.
func (h *DocumentHandler) AddItem(c *gin.Context) {
	docID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req dto.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	bladeID, err := id.Parse(req.BladeID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid bladeId").WithDetail("value", req.BladeID))
		return
	}

	if err := h.service.AddItem(c.Request.Context(), docID, bladeID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Close handles POST /documents/:id/close.
func (h *DocumentHandler) Close(c *gin.Context) {
	docID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.service.Close(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// PDF handles GET /documents/:id/pdf.
func (h *DocumentHandler) PDF(c *gin.Context) {
	docID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	cl, err := h.clients.GetByID(c.Request.Context(), doc.ClientID)
	if err != nil {
		h.Error(c, err)
		return
	}

	lines := make([]pdf.Line, 0, len(doc.Items))
	for _, item := range doc.Items {
		line := pdf.Line{AddedAt: item.AddedAt.Format("2006-01-02 15:04")}
		if b, err := h.blades.GetByID(c.Request.Context(), item.BladeID); err == nil {
			line.BladeCode = b.Code
			line.BladeName = b.Name
			line.Status = b.Status.Label()
		} else {
			line.BladeCode = item.BladeID.String()
		}
		lines = append(lines, line)
	}

	rendered, err := pdf.Render(pdf.DocumentData{
		Document:   doc.Document,
		ClientName: cl.Name,
		Lines:      lines,
	})
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	filename := strings.ReplaceAll(doc.Number, "/", "-") + ".pdf"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", rendered)
}
