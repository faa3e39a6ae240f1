package handler

import (
	inventoryapp "github.com/erp/pos/internal/application/inventory"
	appshared "github.com/erp/pos/internal/application/shared"
	"github.com/gin-gonic/gin"
)

// ProductHandler serves the inventory and add stock pages
type ProductHandler struct {
	BaseHandler
	productService *inventoryapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *inventoryapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var q appshared.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page := h.productService.List(c.Request.Context(), q)
	successPage(c, page)
}

// GetByID handles GET /products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	product, err := h.productService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var req inventoryapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddStock handles POST /purchases
func (h *ProductHandler) AddStock(c *gin.Context) {
	var req inventoryapp.AddStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	addition, err := h.productService.AddStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, addition)
}

// ListPurchases handles GET /purchases
func (h *ProductHandler) ListPurchases(c *gin.Context) {
	var q appshared.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page := h.productService.PurchaseHistory(c.Request.Context(), q)
	successPage(c, page)
}

// GetPurchase handles GET /purchases/:id
func (h *ProductHandler) GetPurchase(c *gin.Context) {
	addition, err := h.productService.GetPurchase(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, addition)
}
