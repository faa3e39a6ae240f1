package handler

import (
	"bytes"
	"fmt"
	"net/http"

	reportapp "github.com/erp/pos/internal/application/report"
	"github.com/erp/pos/internal/infrastructure/export"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the reports page and its spreadsheet export
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Summary handles GET /reports/summary?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ReportHandler) Summary(c *gin.Context) {
	var q reportapp.RangeQuery
	if !h.bindQuery(c, &q) {
		return
	}
	summary, err := h.reportService.Summary(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Export handles GET /reports/export. The workbook is built in memory so a
// failure still produces a JSON error instead of a truncated file.
func (h *ReportHandler) Export(c *gin.Context) {
	var q reportapp.RangeQuery
	if !h.bindQuery(c, &q) {
		return
	}
	var buf bytes.Buffer
	if err := h.reportService.Export(c.Request.Context(), q, &buf); err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFileName(q)))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func exportFileName(q reportapp.RangeQuery) string {
	name := "pos-report"
	if q.From != "" {
		name += "-from-" + q.From
	}
	if q.To != "" {
		name += "-to-" + q.To
	}
	return name + ".xlsx"
}
