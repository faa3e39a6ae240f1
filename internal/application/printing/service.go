// Package printing looks up the records behind printable documents and
// hands them to the document printer.
package printing

import (
	"context"

	appshared "github.com/erp/pos/internal/application/shared"
	"github.com/erp/pos/internal/domain/inventory"
	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/domain/trade"
	infra "github.com/erp/pos/internal/infrastructure/printing"
)

// DocumentPrinter renders documents. *infra.Printer implements it.
type DocumentPrinter interface {
	CashReceipt(ctx context.Context, sale *trade.SaleTransaction) (*infra.Document, error)
	PurchaseInvoice(ctx context.Context, addition *inventory.StockAddition) (*infra.Document, error)
	InstallmentStatement(ctx context.Context, sale *trade.SaleTransaction, payments []trade.InstallmentPayment) (*infra.Document, error)
}

// PrintService prints receipts, purchase invoices and installment statements
type PrintService struct {
	sales     shared.RecordStore[trade.SaleTransaction]
	purchases shared.RecordStore[inventory.StockAddition]
	payments  shared.RecordStore[trade.InstallmentPayment]
	printer   DocumentPrinter
	notifier  shared.Notifier
}

// NewPrintService creates a new PrintService
func NewPrintService(
	sales shared.RecordStore[trade.SaleTransaction],
	purchases shared.RecordStore[inventory.StockAddition],
	payments shared.RecordStore[trade.InstallmentPayment],
	printer DocumentPrinter,
	notifier shared.Notifier,
) *PrintService {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	return &PrintService{
		sales:     sales,
		purchases: purchases,
		payments:  payments,
		printer:   printer,
		notifier:  notifier,
	}
}

// SaleReceipt prints the receipt of a sale
func (s *PrintService) SaleReceipt(ctx context.Context, invoiceID string) (*infra.Document, error) {
	doc, err := func() (*infra.Document, error) {
		sale, err := s.findSale(ctx, invoiceID)
		if err != nil {
			return nil, err
		}
		return s.printer.CashReceipt(ctx, sale)
	}()
	return doc, appshared.Outcome(ctx, s.notifier, err, "")
}

// PurchaseInvoice prints a stock addition
func (s *PrintService) PurchaseInvoice(ctx context.Context, invoiceID string) (*infra.Document, error) {
	doc, err := func() (*infra.Document, error) {
		for _, a := range s.purchases.Load(ctx, shared.KeyPurchaseHistory) {
			if a.InvoiceID == invoiceID {
				return s.printer.PurchaseInvoice(ctx, &a)
			}
		}
		return nil, shared.NewNotFoundError("Purchase invoice", invoiceID)
	}()
	return doc, appshared.Outcome(ctx, s.notifier, err, "")
}

// InstallmentStatement prints an installment sale with its payments
func (s *PrintService) InstallmentStatement(ctx context.Context, invoiceID string) (*infra.Document, error) {
	doc, err := func() (*infra.Document, error) {
		sale, err := s.findSale(ctx, invoiceID)
		if err != nil {
			return nil, err
		}
		if !sale.IsInstallment() {
			return nil, shared.NewValidationError("NOT_INSTALLMENT_SALE", "Sale "+invoiceID+" is not an installment sale")
		}
		payments := trade.PaymentsFor(s.payments.Load(ctx, shared.KeyInstallmentHistory), invoiceID)
		return s.printer.InstallmentStatement(ctx, sale, payments)
	}()
	return doc, appshared.Outcome(ctx, s.notifier, err, "")
}

func (s *PrintService) findSale(ctx context.Context, invoiceID string) (*trade.SaleTransaction, error) {
	sales := s.sales.Load(ctx, shared.KeySalesHistory)
	i, err := trade.FindSale(sales, invoiceID)
	if err != nil {
		return nil, err
	}
	return &sales[i], nil
}
