package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	infra "github.com/erp/pos/internal/infrastructure/printing"
	"github.com/gin-gonic/gin"
)

// DocumentService renders the printable documents
type DocumentService interface {
	SaleReceipt(ctx context.Context, invoiceID string) (*infra.Document, error)
	PurchaseInvoice(ctx context.Context, invoiceID string) (*infra.Document, error)
	InstallmentStatement(ctx context.Context, invoiceID string) (*infra.Document, error)
}

// PrintHandler serves printable receipts, invoices and statements
type PrintHandler struct {
	BaseHandler
	printService DocumentService
}

// NewPrintHandler creates a new PrintHandler
func NewPrintHandler(printService DocumentService) *PrintHandler {
	return &PrintHandler{printService: printService}
}

// SaleReceipt handles GET /prints/sales/:id
func (h *PrintHandler) SaleReceipt(c *gin.Context) {
	h.serve(c, h.printService.SaleReceipt)
}

// PurchaseInvoice handles GET /prints/purchases/:id
func (h *PrintHandler) PurchaseInvoice(c *gin.Context) {
	h.serve(c, h.printService.PurchaseInvoice)
}

// InstallmentStatement handles GET /prints/installments/:id
func (h *PrintHandler) InstallmentStatement(c *gin.Context) {
	h.serve(c, h.printService.InstallmentStatement)
}

// serve renders the document for :id. A PDF is sent when one was produced,
// otherwise the HTML page; ?format=html forces HTML.
func (h *PrintHandler) serve(c *gin.Context, render func(context.Context, string) (*infra.Document, error)) {
	doc, err := render(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if doc.URL != "" {
		c.Header("X-Document-URL", doc.URL)
		c.Header("X-Document-URL-Expires", doc.URLUntil.UTC().Format(time.RFC3339))
	}

	if len(doc.PDF) > 0 && c.Query("format") != "html" {
		c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, doc.Name))
		c.Data(http.StatusOK, "application/pdf", doc.PDF)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc.HTML)
}
