package trade

import (
	"strings"
	"time"

	"github.com/erp/pos/internal/domain/inventory"
	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a sale was settled
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentInstallment  PaymentMethod = "installment"
)

// IsValid reports whether m is a known payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentBankTransfer, PaymentInstallment:
		return true
	}
	return false
}

// SaleTransaction is an immutable sales-history entry
type SaleTransaction struct {
	InvoiceID       string             `json:"invoiceId"`
	ProductID       string             `json:"productId"`
	ProductName     string             `json:"productName"`
	Model           string             `json:"model"`
	Category        string             `json:"category"`
	Company         string             `json:"company"`
	QuantitySold    int64              `json:"quantitySold"`
	SalePrice       valueobject.Amount `json:"salePrice"`
	Subtotal        valueobject.Amount `json:"subtotal"`
	DiscountPercent decimal.Decimal    `json:"discountPercent"`
	DiscountAmount  valueobject.Amount `json:"discountAmount"`
	MarkupPercent   decimal.Decimal    `json:"markupPercent"`
	MarkupAmount    valueobject.Amount `json:"markupAmount"`
	FinalTotal      valueobject.Amount `json:"finalTotal"`
	CostValue       valueobject.Amount `json:"costValue"`
	PaymentMethod   PaymentMethod      `json:"paymentMethod"`
	CustomerName    string             `json:"customerName,omitempty"`
	Installment     *InstallmentTerms  `json:"installment,omitempty"`
	Timestamp       time.Time          `json:"timestamp"`
}

// IsInstallment reports whether the sale is paid in installments
func (s *SaleTransaction) IsInstallment() bool {
	return s.PaymentMethod == PaymentInstallment
}

// CashSaleInput describes a cash checkout of one product line
type CashSaleInput struct {
	InvoiceID       string
	Quantity        int64
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	PaymentMethod   PaymentMethod
	CustomerName    string
}

// ValidateCashSale checks the user input of a cash sale against product.
// It runs before any total or valuation is computed.
func ValidateCashSale(in CashSaleInput, product *inventory.Product) error {
	if in.Quantity <= 0 {
		return shared.ErrInvalidQuantity
	}
	if in.UnitPrice.IsNegative() {
		return shared.ErrInvalidPrice
	}
	if err := ValidateDiscount(in.DiscountPercent); err != nil {
		return err
	}
	if in.PaymentMethod == PaymentInstallment || (in.PaymentMethod != "" && !in.PaymentMethod.IsValid()) {
		return shared.NewValidationError("INVALID_PAYMENT_METHOD", "Payment method is not valid for a cash sale")
	}
	return product.CheckAvailable(in.Quantity)
}

// NewCashSale validates the input, removes the sold units from product and
// returns the sales-history record. product is untouched on error.
func NewCashSale(in CashSaleInput, product *inventory.Product, now time.Time) (*SaleTransaction, error) {
	if strings.TrimSpace(in.InvoiceID) == "" {
		return nil, shared.NewValidationError("INVALID_INVOICE_ID", "Invoice ID is required")
	}
	if err := ValidateCashSale(in, product); err != nil {
		return nil, err
	}

	totals := ComputeCashTotal(CashLine{
		UnitPrice:       in.UnitPrice,
		Quantity:        in.Quantity,
		DiscountPercent: in.DiscountPercent,
	})

	cost := costOf(product, in.Quantity)
	if _, err := product.Sell(in.Quantity, now); err != nil {
		return nil, err
	}

	method := in.PaymentMethod
	if method == "" {
		method = PaymentCash
	}

	sale := newSaleRecord(in.InvoiceID, product, in.Quantity, in.UnitPrice, now)
	sale.Subtotal = totals.Subtotal
	sale.DiscountPercent = in.DiscountPercent
	sale.DiscountAmount = totals.DiscountAmount
	sale.FinalTotal = totals.FinalTotal
	sale.CostValue = cost
	sale.PaymentMethod = method
	sale.CustomerName = strings.TrimSpace(in.CustomerName)
	return sale, nil
}

func newSaleRecord(invoiceID string, product *inventory.Product, qty int64, unitPrice decimal.Decimal, now time.Time) *SaleTransaction {
	return &SaleTransaction{
		InvoiceID:       invoiceID,
		ProductID:       product.ProductID,
		ProductName:     product.Name,
		Model:           product.Model,
		Category:        product.Category,
		Company:         product.Company,
		QuantitySold:    qty,
		SalePrice:       valueobject.NewAmount(unitPrice),
		DiscountPercent: decimal.Zero,
		DiscountAmount:  valueobject.ZeroAmount,
		MarkupPercent:   decimal.Zero,
		MarkupAmount:    valueobject.ZeroAmount,
		Timestamp:       now,
	}
}

// costOf is the inventory value leaving stock, at the weighted-average price
func costOf(product *inventory.Product, qty int64) valueobject.Amount {
	return valueobject.NewAmount(product.PricePerUnit.Decimal().Mul(decimal.NewFromInt(qty)))
}

// FindSale returns the sale with invoiceID, or a NotFound error
func FindSale(sales []SaleTransaction, invoiceID string) (int, error) {
	for i := range sales {
		if sales[i].InvoiceID == invoiceID {
			return i, nil
		}
	}
	return -1, shared.NewNotFoundError("Sale", invoiceID)
}

// SaleInvoiceIDs lists the invoice identifiers of sales
func SaleInvoiceIDs(sales []SaleTransaction) []string {
	ids := make([]string, len(sales))
	for i := range sales {
		ids[i] = sales[i].InvoiceID
	}
	return ids
}

// RecordID implements shared.Record
func (s SaleTransaction) RecordID() string { return s.InvoiceID }
