package printing

import (
	"context"
	"time"
)

// PaperSize is the physical page format of a printed document
type PaperSize string

const (
	PaperA4        PaperSize = "A4"
	PaperReceipt80 PaperSize = "RECEIPT_80MM"
)

// Dimensions returns width and height in millimetres. Receipt paper is
// continuous, so its height is only a nominal page length.
func (p PaperSize) Dimensions() (width, height float64) {
	switch p {
	case PaperReceipt80:
		return 80, 3000
	default:
		return 210, 297
	}
}

// IsValid reports whether p is a supported paper size
func (p PaperSize) IsValid() bool {
	return p == PaperA4 || p == PaperReceipt80
}

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	HTML      string
	PaperSize PaperSize
	// MarginMM applies to all four sides
	MarginMM float64
	Title    string
	// Timeout overrides the renderer default
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	PDFData        []byte
	RenderDuration time.Duration
}

// PDFRenderer converts HTML documents to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeStorageFailed    = "STORAGE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}
