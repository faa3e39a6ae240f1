package handler

import (
	partnerapp "github.com/erp/pos/internal/application/partner"
	appshared "github.com/erp/pos/internal/application/shared"
	"github.com/erp/pos/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// PartnerHandler serves one contact registry page (customers, guarantors
// or suppliers). R is the create/update form of the registry.
type PartnerHandler[T shared.Record, R any] struct {
	BaseHandler
	registry *partnerapp.Registry[T, R]
}

// NewPartnerHandler creates a handler for registry
func NewPartnerHandler[T shared.Record, R any](registry *partnerapp.Registry[T, R]) *PartnerHandler[T, R] {
	return &PartnerHandler[T, R]{registry: registry}
}

// List handles GET /<registry>
func (h *PartnerHandler[T, R]) List(c *gin.Context) {
	var q appshared.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	successPage(c, h.registry.List(c.Request.Context(), q))
}

// GetByID handles GET /<registry>/:id
func (h *PartnerHandler[T, R]) GetByID(c *gin.Context) {
	rec, err := h.registry.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rec)
}

// Create handles POST /<registry>
func (h *PartnerHandler[T, R]) Create(c *gin.Context) {
	var req R
	if !h.bindJSON(c, &req) {
		return
	}
	rec, err := h.registry.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rec)
}

// Update handles PUT /<registry>/:id
func (h *PartnerHandler[T, R]) Update(c *gin.Context) {
	var req R
	if !h.bindJSON(c, &req) {
		return
	}
	rec, err := h.registry.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rec)
}

// Delete handles DELETE /<registry>/:id
func (h *PartnerHandler[T, R]) Delete(c *gin.Context) {
	if err := h.registry.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Register mounts the CRUD routes of the registry on rg
func (h *PartnerHandler[T, R]) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
