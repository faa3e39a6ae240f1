// Package trade runs the cash sale, installment sale and installment payment
// pages.
package trade

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	appshared "github.com/erp/pos/internal/application/shared"
	"github.com/erp/pos/internal/domain/inventory"
	"github.com/erp/pos/internal/domain/partner"
	"github.com/erp/pos/internal/domain/sequence"
	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/domain/shared/valueobject"
	"github.com/erp/pos/internal/domain/trade"
)

const advanceNote = "Advance payment"

var saleLister = appshared.Lister[trade.SaleTransaction]{
	Text: func(s trade.SaleTransaction) []string {
		return []string{s.InvoiceID, s.ProductID, s.ProductName, s.CustomerName}
	},
	Sorts: map[string]appshared.Compare[trade.SaleTransaction]{
		"invoiceId":  func(a, b trade.SaleTransaction) int { return strings.Compare(a.InvoiceID, b.InvoiceID) },
		"timestamp":  func(a, b trade.SaleTransaction) int { return a.Timestamp.Compare(b.Timestamp) },
		"finalTotal": func(a, b trade.SaleTransaction) int { return a.FinalTotal.Decimal().Cmp(b.FinalTotal.Decimal()) },
		"quantity":   func(a, b trade.SaleTransaction) int { return cmp.Compare(a.QuantitySold, b.QuantitySold) },
	},
	DefaultSort: "timestamp",
}

var paymentLister = appshared.Lister[trade.InstallmentPayment]{
	Text: func(p trade.InstallmentPayment) []string {
		return []string{p.PaymentID, p.InvoiceID, p.CustomerName, p.Note}
	},
	Sorts: map[string]appshared.Compare[trade.InstallmentPayment]{
		"paymentId": func(a, b trade.InstallmentPayment) int { return strings.Compare(a.PaymentID, b.PaymentID) },
		"paidAt":    func(a, b trade.InstallmentPayment) int { return a.PaidAt.Compare(b.PaidAt) },
		"amount":    func(a, b trade.InstallmentPayment) int { return a.Amount.Decimal().Cmp(b.Amount.Decimal()) },
	},
	DefaultSort: "paidAt",
}

// SaleService records sales against the product stock
type SaleService struct {
	products   shared.RecordStore[inventory.Product]
	sales      shared.RecordStore[trade.SaleTransaction]
	payments   shared.RecordStore[trade.InstallmentPayment]
	customers  shared.RecordStore[partner.Customer]
	guarantors shared.RecordStore[partner.Guarantor]
	notifier   shared.Notifier
	opts       appshared.Options
}

// Stores groups the collections a SaleService reads and writes
type Stores struct {
	Products   shared.RecordStore[inventory.Product]
	Sales      shared.RecordStore[trade.SaleTransaction]
	Payments   shared.RecordStore[trade.InstallmentPayment]
	Customers  shared.RecordStore[partner.Customer]
	Guarantors shared.RecordStore[partner.Guarantor]
}

// NewSaleService creates a new SaleService
func NewSaleService(stores Stores, notifier shared.Notifier, opts ...appshared.Option) *SaleService {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	return &SaleService{
		products:   stores.Products,
		sales:      stores.Sales,
		payments:   stores.Payments,
		customers:  stores.Customers,
		guarantors: stores.Guarantors,
		notifier:   notifier,
		opts:       appshared.BuildOptions(opts...),
	}
}

// CashSale checks out one product line for cash, card or bank transfer.
// The sale and the reduced stock are saved together or not at all.
func (s *SaleService) CashSale(ctx context.Context, req CashSaleRequest) (*trade.SaleTransaction, error) {
	var sale *trade.SaleTransaction
	err := func() error {
		if req.Quantity <= 0 {
			return shared.ErrInvalidQuantity
		}
		if err := trade.ValidateDiscount(req.DiscountPercent); err != nil {
			return err
		}
		keys := []string{shared.KeyProducts, shared.KeySalesHistory}
		return sequence.DoAll(ctx, s.opts.Guard, keys, func(ctx context.Context) error {
			products, err := s.products.LoadStrict(ctx, shared.KeyProducts)
			if err != nil {
				return err
			}
			i, err := inventory.FindProduct(products, req.ProductID)
			if err != nil {
				return err
			}
			history, err := s.sales.LoadStrict(ctx, shared.KeySalesHistory)
			if err != nil {
				return err
			}

			loaded := slices.Clone(products)
			rec, err := trade.NewCashSale(trade.CashSaleInput{
				InvoiceID:       sequence.CashInvoice.Next(trade.SaleInvoiceIDs(history)),
				Quantity:        req.Quantity,
				UnitPrice:       req.UnitPrice,
				DiscountPercent: req.DiscountPercent,
				PaymentMethod:   req.PaymentMethod,
				CustomerName:    req.CustomerName,
			}, &products[i], s.opts.Now())
			if err != nil {
				return err
			}

			var w appshared.Writes
			appshared.Stage(&w, s.sales, shared.KeySalesHistory, history, append(slices.Clone(history), *rec))
			appshared.Stage(&w, s.products, shared.KeyProducts, loaded, products)
			if err := w.Commit(ctx); err != nil {
				return err
			}
			sale = rec
			return nil
		})
	}()
	if err := appshared.Outcome(ctx, s.notifier, err, ""); err != nil {
		return nil, err
	}

	s.opts.Metrics.RecordSale(ctx, string(sale.PaymentMethod), sale.QuantitySold, sale.FinalTotal)
	s.notifier.Notify(ctx, shared.Notification{
		Kind:    shared.NotifySuccess,
		Message: fmt.Sprintf("Sale %s completed, total %s", sale.InvoiceID, sale.FinalTotal),
	})
	return sale, nil
}

// InstallmentSale sells one product line on installments. A non-zero
// advance is recorded as the first payment of the sale.
func (s *SaleService) InstallmentSale(ctx context.Context, req InstallmentSaleRequest) (*InstallmentSaleResult, error) {
	var result *InstallmentSaleResult
	err := func() error {
		customer, err := s.findCustomer(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		guarantor, err := s.findGuarantor(ctx, req.GuarantorID)
		if err != nil {
			return err
		}
		keys := []string{shared.KeyProducts, shared.KeySalesHistory, shared.KeyInstallmentHistory}
		return sequence.DoAll(ctx, s.opts.Guard, keys, func(ctx context.Context) error {
			products, err := s.products.LoadStrict(ctx, shared.KeyProducts)
			if err != nil {
				return err
			}
			i, err := inventory.FindProduct(products, req.ProductID)
			if err != nil {
				return err
			}
			history, err := s.sales.LoadStrict(ctx, shared.KeySalesHistory)
			if err != nil {
				return err
			}
			payments, err := s.payments.LoadStrict(ctx, shared.KeyInstallmentHistory)
			if err != nil {
				return err
			}
			now := s.opts.Now()

			loaded := slices.Clone(products)
			rec, plan, err := trade.NewInstallmentSale(trade.InstallmentSaleInput{
				InvoiceID:      sequence.InstallmentInvoice.Next(trade.SaleInvoiceIDs(history)),
				Quantity:       req.Quantity,
				UnitPrice:      req.UnitPrice,
				MarkupPercent:  req.MarkupPercent,
				AdvancePayment: req.AdvancePayment,
				Months:         req.Months,
				CustomerID:     customer.CustomerID,
				CustomerName:   customer.Name,
				GuarantorID:    guarantor.GuarantorID,
				GuarantorName:  guarantor.Name,
			}, &products[i], now)
			if err != nil {
				return err
			}

			var advance *trade.InstallmentPayment
			if plan.AdvancePayment.Decimal().IsPositive() {
				advance, err = trade.NewInstallmentPayment(
					sequence.InstallmentPayment.Next(trade.PaymentIDs(payments)),
					rec, payments, plan.AdvancePayment.Decimal(), advanceNote, now)
				if err != nil {
					return err
				}
			}

			var w appshared.Writes
			appshared.Stage(&w, s.sales, shared.KeySalesHistory, history, append(slices.Clone(history), *rec))
			if advance != nil {
				appshared.Stage(&w, s.payments, shared.KeyInstallmentHistory, payments, append(slices.Clone(payments), *advance))
			}
			appshared.Stage(&w, s.products, shared.KeyProducts, loaded, products)
			if err := w.Commit(ctx); err != nil {
				return err
			}
			result = &InstallmentSaleResult{Sale: rec, Plan: toPlanResponse(plan), Advance: advance}
			return nil
		})
	}()
	if err := appshared.Outcome(ctx, s.notifier, err, ""); err != nil {
		return nil, err
	}

	sale := result.Sale
	s.opts.Metrics.RecordSale(ctx, string(sale.PaymentMethod), sale.QuantitySold, sale.FinalTotal)
	if result.Advance != nil {
		s.opts.Metrics.RecordInstallmentPayment(ctx)
	}
	s.notifier.Notify(ctx, shared.Notification{
		Kind: shared.NotifySuccess,
		Message: fmt.Sprintf("Installment sale %s recorded, %d x %s per month",
			sale.InvoiceID, result.Plan.Months, result.Plan.MonthlyInstallment),
	})
	return result, nil
}

// RecordPayment records a payment against an installment sale
func (s *SaleService) RecordPayment(ctx context.Context, req PaymentRequest) (*trade.InstallmentPayment, error) {
	var payment *trade.InstallmentPayment
	keys := []string{shared.KeySalesHistory, shared.KeyInstallmentHistory}
	err := sequence.DoAll(ctx, s.opts.Guard, keys, func(ctx context.Context) error {
		history, err := s.sales.LoadStrict(ctx, shared.KeySalesHistory)
		if err != nil {
			return err
		}
		i, err := trade.FindSale(history, req.InvoiceID)
		if err != nil {
			return err
		}
		payments, err := s.payments.LoadStrict(ctx, shared.KeyInstallmentHistory)
		if err != nil {
			return err
		}

		p, err := trade.NewInstallmentPayment(
			sequence.InstallmentPayment.Next(trade.PaymentIDs(payments)),
			&history[i], payments, req.Amount, req.Note, s.opts.Now())
		if err != nil {
			return err
		}
		if err := s.payments.Save(ctx, shared.KeyInstallmentHistory, append(payments, *p)); err != nil {
			return err
		}
		payment = p
		return nil
	})
	if err := appshared.Outcome(ctx, s.notifier, err, ""); err != nil {
		return nil, err
	}

	s.opts.Metrics.RecordInstallmentPayment(ctx)
	msg := fmt.Sprintf("Payment %s received, balance %s", payment.PaymentID, payment.BalanceAfter)
	if payment.BalanceAfter.IsZero() {
		msg = fmt.Sprintf("Payment %s received, invoice %s is fully paid", payment.PaymentID, payment.InvoiceID)
	}
	s.notifier.Notify(ctx, shared.Notification{Kind: shared.NotifySuccess, Message: msg})
	return payment, nil
}

// Account returns the payments and outstanding balance of an installment sale
func (s *SaleService) Account(ctx context.Context, invoiceID string) (*InstallmentAccount, error) {
	sale, err := s.GetSale(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !sale.IsInstallment() {
		return nil, shared.NewValidationError("NOT_INSTALLMENT_SALE", "Sale "+invoiceID+" is not an installment sale")
	}
	payments := trade.PaymentsFor(s.payments.Load(ctx, shared.KeyInstallmentHistory), invoiceID)
	paid := valueobject.ZeroAmount
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	balance := trade.Balance(sale, payments)
	return &InstallmentAccount{
		Sale:     sale,
		Payments: payments,
		Paid:     paid,
		Balance:  balance,
		Settled:  !balance.Decimal().IsPositive(),
	}, nil
}

// GetSale returns a sale by invoice
func (s *SaleService) GetSale(ctx context.Context, invoiceID string) (*trade.SaleTransaction, error) {
	history := s.sales.Load(ctx, shared.KeySalesHistory)
	i, err := trade.FindSale(history, invoiceID)
	if err != nil {
		return nil, err
	}
	return &history[i], nil
}

// ListSales returns a page of the sales history
func (s *SaleService) ListSales(ctx context.Context, q SaleListQuery) shared.Paginated[trade.SaleTransaction] {
	history := s.sales.Load(ctx, shared.KeySalesHistory)
	if q.Kind != "" {
		wantInstallment := q.Kind == "installment"
		filtered := history[:0]
		for _, sale := range history {
			if sale.IsInstallment() == wantInstallment {
				filtered = append(filtered, sale)
			}
		}
		history = filtered
	}
	return saleLister.List(history, q.ListQuery)
}

// ListPayments returns a page of installment payments
func (s *SaleService) ListPayments(ctx context.Context, q appshared.ListQuery) shared.Paginated[trade.InstallmentPayment] {
	return paymentLister.List(s.payments.Load(ctx, shared.KeyInstallmentHistory), q)
}

func (s *SaleService) findCustomer(ctx context.Context, id string) (*partner.Customer, error) {
	customers, err := s.customers.LoadStrict(ctx, shared.KeyCustomers)
	if err != nil {
		return nil, err
	}
	for _, c := range customers {
		if c.CustomerID == id {
			return &c, nil
		}
	}
	return nil, shared.NewNotFoundError("Customer", id)
}

func (s *SaleService) findGuarantor(ctx context.Context, id string) (*partner.Guarantor, error) {
	guarantors, err := s.guarantors.LoadStrict(ctx, shared.KeyGuarantors)
	if err != nil {
		return nil, err
	}
	for _, g := range guarantors {
		if g.GuarantorID == id {
			return &g, nil
		}
	}
	return nil, shared.NewNotFoundError("Guarantor", id)
}
