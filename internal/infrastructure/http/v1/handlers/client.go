package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/appctx"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain"
	"github.com/sebastiansledz/qrsaws-sub000/internal/domain/catalogs/client"
	"github.com/sebastiansledz/qrsaws-sub000/internal/infrastructure/http/v1/dto"
)

// ClientHandler serves the client catalog endpoints.
type ClientHandler struct {
	BaseHandler
	service *client.Service
}

// NewClientHandler creates the client handler.
func NewClientHandler(service *client.Service) *ClientHandler {
	return &ClientHandler{service: service}
}

// Create handles POST /catalog/clients.
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cl := client.New(req.Code, req.Name)
	applyClientFields(cl, req.NIP, req.Address, req.City, req.PostalCode, req.Email, req.Phone, req.Notes)
	cl.StampCreated(appctx.ActorID(c.Request.Context()), time.Now().UTC())

	if err := h.service.Create(c.Request.Context(), cl); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cl.ID.String())
}

// Get handles GET /catalog/clients/:id.
func (h *ClientHandler) Get(c *gin.Context) {
	clientID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	cl, err := h.service.GetByID(c.Request.Context(), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cl)
}

// Update handles PUT /catalog/clients/:id.
func (h *ClientHandler) Update(c *gin.Context) {
	clientID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cl, err := h.service.GetByID(c.Request.Context(), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}

	cl.Code = client.NormalizeCode(req.Code)
	cl.Name = req.Name
	applyClientFields(cl, req.NIP, req.Address, req.City, req.PostalCode, req.Email, req.Phone, req.Notes)
	// Version from the request drives the optimistic lock; the repo bumps it.
	cl.SetVersion(req.Version)
	cl.StampUpdated(appctx.ActorID(c.Request.Context()), time.Now().UTC())

	if err := h.service.Update(c.Request.Context(), cl); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cl)
}

// Delete handles DELETE /catalog/clients/:id (soft delete).
func (h *ClientHandler) Delete(c *gin.Context) {
	clientID, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), clientID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// List handles GET /catalog/clients. A nip query switches to an exact
// tax-identifier lookup.
func (h *ClientHandler) List(c *gin.Context) {
	if nip := c.Query("nip"); nip != "" {
		cl, err := h.service.GetByNIP(c.Request.Context(), nip)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, gin.H{"items": []*client.Client{cl}, "totalCount": 1})
		return
	}

	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := domain.DefaultListFilter()
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

func applyClientFields(cl *client.Client, nip, address, city, postalCode, email, phone, notes string) {
	cl.NIP = nip
	cl.Address = address
	cl.City = city
	cl.PostalCode = postalCode
	cl.Email = email
	cl.Phone = phone
	cl.Notes = notes
}
