package handlers

import (
	"github.com/gin-gonic/gin"

	"inventory/internal/domain/documents"
	"inventory/internal/infrastructure/http/v1/dto"
)

// DocumentHandler handles /document.
type DocumentHandler struct {
	*BaseHandler
	service *documents.Service
}

// NewDocumentHandler creates a document handler.
func NewDocumentHandler(base *BaseHandler, service *documents.Service) *DocumentHandler {
	return &DocumentHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts the document routes on rg.
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:reference", h.Get)
}

// List handles GET /document. Supports ?concept= and pagination.
func (h *DocumentHandler) List(c *gin.Context) {
	filter, ok := h.ListFilter(c)
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse[dto.DocumentResponse]{
		Items:      dto.FromDocuments(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /document/:reference.
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.service.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDocument(doc))
}

// Create handles POST /document.
func (h *DocumentHandler) Create(c *gin.Context) {
	var req dto.DocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Create(c.Request.Context(), req.ToCreateInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromDocument(doc))
}
