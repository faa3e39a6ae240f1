package trade

import (
	appshared "github.com/erp/pos/internal/application/shared"
	"github.com/erp/pos/internal/domain/shared/valueobject"
	"github.com/erp/pos/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// CashSaleRequest is the checkout form of the cash sale page
type CashSaleRequest struct {
	ProductID       string              `json:"productId" binding:"required"`
	Quantity        int64               `json:"quantity"`
	UnitPrice       decimal.Decimal     `json:"unitPrice"`
	DiscountPercent decimal.Decimal     `json:"discountPercent"`
	PaymentMethod   trade.PaymentMethod `json:"paymentMethod" binding:"omitempty,oneof=cash card bank_transfer"`
	CustomerName    string              `json:"customerName" binding:"max=100"`
}

// InstallmentSaleRequest is the form of the installment sale page
type InstallmentSaleRequest struct {
	ProductID      string          `json:"productId" binding:"required"`
	CustomerID     string          `json:"customerId" binding:"required"`
	GuarantorID    string          `json:"guarantorId" binding:"required"`
	Quantity       int64           `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	MarkupPercent  decimal.Decimal `json:"markupPercent"`
	AdvancePayment decimal.Decimal `json:"advancePayment"`
	Months         int             `json:"months"`
}

// PaymentRequest records an installment payment
type PaymentRequest struct {
	InvoiceID string          `json:"invoiceId" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note" binding:"max=200"`
}

// SaleListQuery filters the sales history by kind
type SaleListQuery struct {
	appshared.ListQuery
	Kind string `form:"kind" binding:"omitempty,oneof=cash installment"`
}

// InstallmentSaleResult is a recorded installment sale with its plan and
// the advance payment, when one was made
type InstallmentSaleResult struct {
	Sale    *trade.SaleTransaction    `json:"sale"`
	Plan    PlanResponse              `json:"plan"`
	Advance *trade.InstallmentPayment `json:"advance,omitempty"`
}

// PlanResponse is the installment plan of a sale
type PlanResponse struct {
	FinalTotal         valueobject.Amount `json:"finalTotal"`
	AdvancePayment     valueobject.Amount `json:"advancePayment"`
	Remaining          valueobject.Amount `json:"remaining"`
	Months             int                `json:"months"`
	MonthlyInstallment valueobject.Amount `json:"monthlyInstallment"`
}

// InstallmentAccount is the payment history and balance of one sale
type InstallmentAccount struct {
	Sale     *trade.SaleTransaction     `json:"sale"`
	Payments []trade.InstallmentPayment `json:"payments"`
	Paid     valueobject.Amount         `json:"paid"`
	Balance  valueobject.Amount         `json:"balance"`
	Settled  bool                       `json:"settled"`
}

func toPlanResponse(p trade.Plan) PlanResponse {
	return PlanResponse{
		FinalTotal:         p.FinalTotal,
		AdvancePayment:     p.AdvancePayment,
		Remaining:          p.Remaining,
		Months:             p.Months,
		MonthlyInstallment: p.MonthlyInstallment,
	}
}
