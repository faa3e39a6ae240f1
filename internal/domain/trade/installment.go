package trade

import (
	"strings"
	"time"

	"github.com/erp/pos/internal/domain/inventory"
	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InstallmentTerms are the financing terms attached to an installment sale
type InstallmentTerms struct {
	CustomerID         string             `json:"customerId"`
	CustomerName       string             `json:"customerName"`
	GuarantorID        string             `json:"guarantorId"`
	GuarantorName      string             `json:"guarantorName"`
	AdvancePayment     valueobject.Amount `json:"advancePayment"`
	Months             int                `json:"months"`
	MonthlyInstallment valueobject.Amount `json:"monthlyInstallment"`
}

// InstallmentSaleInput describes an installment sale of one product line
type InstallmentSaleInput struct {
	InvoiceID      string
	Quantity       int64
	UnitPrice      decimal.Decimal
	MarkupPercent  decimal.Decimal
	AdvancePayment decimal.Decimal
	Months         int
	CustomerID     string
	CustomerName   string
	GuarantorID    string
	GuarantorName  string
}

// NewInstallmentSale validates the input, removes the sold units from
// product and returns the sales-history record together with its plan.
func NewInstallmentSale(in InstallmentSaleInput, product *inventory.Product, now time.Time) (*SaleTransaction, Plan, error) {
	if strings.TrimSpace(in.InvoiceID) == "" {
		return nil, Plan{}, shared.NewValidationError("INVALID_INVOICE_ID", "Invoice ID is required")
	}
	if in.Quantity <= 0 {
		return nil, Plan{}, shared.ErrInvalidQuantity
	}
	if in.UnitPrice.IsNegative() {
		return nil, Plan{}, shared.ErrInvalidPrice
	}
	if err := ValidateMarkup(in.MarkupPercent); err != nil {
		return nil, Plan{}, err
	}
	if in.Months < 1 {
		return nil, Plan{}, shared.NewValidationError("INVALID_MONTHS", "Installment plan needs at least one month")
	}
	if in.AdvancePayment.IsNegative() {
		return nil, Plan{}, shared.NewValidationError("INVALID_ADVANCE", "Advance payment cannot be negative")
	}
	if strings.TrimSpace(in.CustomerID) == "" || strings.TrimSpace(in.GuarantorID) == "" {
		return nil, Plan{}, shared.NewValidationError("INVALID_PARTIES", "Customer and guarantor are required")
	}
	if err := product.CheckAvailable(in.Quantity); err != nil {
		return nil, Plan{}, err
	}

	totals := ComputeInstallmentTotal(InstallmentLine{
		UnitPrice:     in.UnitPrice,
		Quantity:      in.Quantity,
		MarkupPercent: in.MarkupPercent,
	})
	if valueobject.NewAmount(in.AdvancePayment).GreaterThan(totals.FinalTotal) {
		return nil, Plan{}, shared.NewValidationError("INVALID_ADVANCE", "Advance payment exceeds the sale total")
	}
	plan := ComputePlan(totals.FinalTotal, in.AdvancePayment, in.Months)

	cost := costOf(product, in.Quantity)
	if _, err := product.Sell(in.Quantity, now); err != nil {
		return nil, Plan{}, err
	}

	sale := newSaleRecord(in.InvoiceID, product, in.Quantity, in.UnitPrice, now)
	sale.Subtotal = totals.Subtotal
	sale.MarkupPercent = in.MarkupPercent
	sale.MarkupAmount = totals.MarkupAmount
	sale.FinalTotal = totals.FinalTotal
	sale.CostValue = cost
	sale.PaymentMethod = PaymentInstallment
	sale.CustomerName = in.CustomerName
	sale.Installment = &InstallmentTerms{
		CustomerID:         in.CustomerID,
		CustomerName:       in.CustomerName,
		GuarantorID:        in.GuarantorID,
		GuarantorName:      in.GuarantorName,
		AdvancePayment:     plan.AdvancePayment,
		Months:             plan.Months,
		MonthlyInstallment: plan.MonthlyInstallment,
	}
	return sale, plan, nil
}

// InstallmentPayment is an immutable payment made against an installment sale
type InstallmentPayment struct {
	PaymentID     string             `json:"paymentId"`
	InvoiceID     string             `json:"invoiceId"`
	CustomerID    string             `json:"customerId"`
	CustomerName  string             `json:"customerName"`
	Amount        valueobject.Amount `json:"amount"`
	BalanceBefore valueobject.Amount `json:"balanceBefore"`
	BalanceAfter  valueobject.Amount `json:"balanceAfter"`
	Note          string             `json:"note,omitempty"`
	PaidAt        time.Time          `json:"paidAt"`
}

// Balance is the sale total minus every payment recorded against it
func Balance(sale *SaleTransaction, payments []InstallmentPayment) valueobject.Amount {
	balance := sale.FinalTotal
	for i := range payments {
		if payments[i].InvoiceID == sale.InvoiceID {
			balance = balance.Sub(payments[i].Amount)
		}
	}
	return balance
}

// PaymentsFor returns the payments recorded against invoiceID in the order given
func PaymentsFor(payments []InstallmentPayment, invoiceID string) []InstallmentPayment {
	out := make([]InstallmentPayment, 0)
	for i := range payments {
		if payments[i].InvoiceID == invoiceID {
			out = append(out, payments[i])
		}
	}
	return out
}

// NewInstallmentPayment records amount against sale. The amount must be
// positive and cannot exceed the outstanding balance.
func NewInstallmentPayment(paymentID string, sale *SaleTransaction, history []InstallmentPayment, amount decimal.Decimal, note string, now time.Time) (*InstallmentPayment, error) {
	if !sale.IsInstallment() {
		return nil, shared.NewValidationError("NOT_INSTALLMENT_SALE", "Sale "+sale.InvoiceID+" is not an installment sale")
	}
	paid := valueobject.NewAmount(amount)
	if !paid.Decimal().IsPositive() {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "Payment amount must be greater than zero")
	}
	before := Balance(sale, history)
	if paid.GreaterThan(before) {
		return nil, shared.NewValidationError("OVERPAYMENT", "Payment exceeds the outstanding balance of "+before.String())
	}

	p := &InstallmentPayment{
		PaymentID:     paymentID,
		InvoiceID:     sale.InvoiceID,
		Amount:        paid,
		BalanceBefore: before,
		BalanceAfter:  before.Sub(paid),
		Note:          strings.TrimSpace(note),
		PaidAt:        now,
	}
	if sale.Installment != nil {
		p.CustomerID = sale.Installment.CustomerID
		p.CustomerName = sale.Installment.CustomerName
	}
	return p, nil
}

// PaymentIDs lists the identifiers of payments
func PaymentIDs(payments []InstallmentPayment) []string {
	ids := make([]string, len(payments))
	for i := range payments {
		ids[i] = payments[i].PaymentID
	}
	return ids
}

// RecordID implements shared.Record
func (p InstallmentPayment) RecordID() string { return p.PaymentID }
