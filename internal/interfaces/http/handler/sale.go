package handler

import (
	appshared "github.com/erp/pos/internal/application/shared"
	tradeapp "github.com/erp/pos/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// SaleHandler serves the cash sale, installment sale and payment pages
type SaleHandler struct {
	BaseHandler
	saleService *tradeapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *tradeapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// CreateCashSale handles POST /sales/cash
func (h *SaleHandler) CreateCashSale(c *gin.Context) {
	var req tradeapp.CashSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sale, err := h.saleService.CashSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// CreateInstallmentSale handles POST /sales/installment
func (h *SaleHandler) CreateInstallmentSale(c *gin.Context) {
	var req tradeapp.InstallmentSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.saleService.InstallmentSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// List handles GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	var q tradeapp.SaleListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	successPage(c, h.saleService.ListSales(c.Request.Context(), q))
}

// GetByID handles GET /sales/:id
func (h *SaleHandler) GetByID(c *gin.Context) {
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Account handles GET /sales/:id/account
func (h *SaleHandler) Account(c *gin.Context) {
	account, err := h.saleService.Account(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// RecordPayment handles POST /payments
func (h *SaleHandler) RecordPayment(c *gin.Context) {
	var req tradeapp.PaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	payment, err := h.saleService.RecordPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// ListPayments handles GET /payments
func (h *SaleHandler) ListPayments(c *gin.Context) {
	var q appshared.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	successPage(c, h.saleService.ListPayments(c.Request.Context(), q))
}
