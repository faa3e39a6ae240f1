package printing

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/erp/pos/internal/domain/inventory"
	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/domain/shared/valueobject"
	"github.com/erp/pos/internal/domain/trade"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Kind names a printable document type
type Kind string

const (
	KindCashReceipt          Kind = "cash_receipt"
	KindPurchaseInvoice      Kind = "purchase_invoice"
	KindInstallmentStatement Kind = "installment_statement"
)

// Shop is the letterhead printed on every document
type Shop struct {
	Name    string
	Address string
	Phone   string
	Footer  string
}

// Document is a rendered printable document. PDF and URL are empty when no
// PDF renderer or document store is configured.
type Document struct {
	Kind     Kind
	Name     string
	Title    string
	HTML     []byte
	PDF      []byte
	URL      string
	URLUntil time.Time
}

// DocumentStore persists rendered PDFs and hands out download links
type DocumentStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (url string, expiresAt time.Time, err error)
}

// Printer renders domain records into documents
type Printer struct {
	shop      Shop
	fmt       *Formatter
	tmpl      *template.Template
	renderer  PDFRenderer
	store     DocumentStore
	logger    *zap.Logger
	now       func() time.Time
	paperSize map[Kind]PaperSize
}

// Option configures a Printer
type Option func(*Printer)

// WithPDFRenderer converts every document to PDF
func WithPDFRenderer(r PDFRenderer) Option {
	return func(p *Printer) { p.renderer = r }
}

// WithDocumentStore uploads every PDF and attaches its download URL
func WithDocumentStore(s DocumentStore) Option {
	return func(p *Printer) { p.store = s }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Printer) { p.logger = l }
}

// NewPrinter parses the embedded templates
func NewPrinter(shop Shop, f *Formatter, opts ...Option) (*Printer, error) {
	tmpl, err := template.New("documents").Funcs(f.funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse document templates: %w", err)
	}
	p := &Printer{
		shop:   shop,
		fmt:    f,
		tmpl:   tmpl,
		logger: zap.NewNop(),
		now:    time.Now,
		paperSize: map[Kind]PaperSize{
			KindCashReceipt:          PaperReceipt80,
			KindPurchaseInvoice:      PaperA4,
			KindInstallmentStatement: PaperA4,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

type page struct {
	Title     string
	CSSClass  string
	Shop      Shop
	PrintedAt time.Time
}

// CashReceipt prints the receipt of a cash sale
func (p *Printer) CashReceipt(ctx context.Context, sale *trade.SaleTransaction) (*Document, error) {
	data := struct {
		page
		Sale *trade.SaleTransaction
	}{p.page("Receipt "+sale.InvoiceID, "receipt"), sale}
	return p.render(ctx, KindCashReceipt, sale.InvoiceID, data.Title, data)
}

// PurchaseInvoice prints a stock addition
func (p *Printer) PurchaseInvoice(ctx context.Context, addition *inventory.StockAddition) (*Document, error) {
	data := struct {
		page
		Addition *inventory.StockAddition
	}{p.page("Purchase Invoice "+addition.InvoiceID, ""), addition}
	return p.render(ctx, KindPurchaseInvoice, addition.InvoiceID, data.Title, data)
}

// InstallmentStatement prints an installment sale with its payments and
// outstanding balance
func (p *Printer) InstallmentStatement(ctx context.Context, sale *trade.SaleTransaction, payments []trade.InstallmentPayment) (*Document, error) {
	own := trade.PaymentsFor(payments, sale.InvoiceID)
	data := struct {
		page
		Sale     *trade.SaleTransaction
		Payments []trade.InstallmentPayment
		Balance  valueobject.Amount
	}{p.page("Installment Statement "+sale.InvoiceID, ""), sale, own, trade.Balance(sale, own)}
	return p.render(ctx, KindInstallmentStatement, sale.InvoiceID, data.Title, data)
}

func (p *Printer) page(title, cssClass string) page {
	return page{Title: title, CSSClass: cssClass, Shop: p.shop, PrintedAt: p.now()}
}

func (p *Printer) render(ctx context.Context, kind Kind, name, title string, data any) (*Document, error) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, string(kind), data); err != nil {
		return nil, shared.NewDomainError("PRINT_FAILED", fmt.Sprintf("Could not print %s: %v", name, err))
	}
	doc := &Document{Kind: kind, Name: name, Title: title, HTML: buf.Bytes()}
	if p.renderer == nil {
		return doc, nil
	}

	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:      buf.String(),
		PaperSize: p.paperSize[kind],
		MarginMM:  5,
		Title:     title,
	})
	if err != nil {
		return nil, err
	}
	doc.PDF = result.PDFData

	if p.store == nil {
		return doc, nil
	}
	key := fmt.Sprintf("%s/%s/%s.pdf", kind, p.now().Format("2006/01"), name)
	url, until, err := p.store.Put(ctx, key, doc.PDF, "application/pdf")
	if err != nil {
		// The PDF is still returned inline.
		p.logger.Warn("Failed to store printed document", zap.String("key", key), zap.Error(err))
		return doc, nil
	}
	doc.URL, doc.URLUntil = url, until
	return doc, nil
}
