// Package trade computes sale totals and records cash and installment sales.
package trade

import (
	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CashLine is the priced input of a cash sale
type CashLine struct {
	UnitPrice       decimal.Decimal
	Quantity        int64
	DiscountPercent decimal.Decimal
}

// CashTotals is the money breakdown of a cash sale
type CashTotals struct {
	Subtotal       valueobject.Amount
	DiscountAmount valueobject.Amount
	FinalTotal     valueobject.Amount
}

// InstallmentLine is the priced input of an installment sale
type InstallmentLine struct {
	UnitPrice     decimal.Decimal
	Quantity      int64
	MarkupPercent decimal.Decimal
}

// InstallmentTotals is the money breakdown of an installment sale
type InstallmentTotals struct {
	Subtotal     valueobject.Amount
	MarkupAmount valueobject.Amount
	FinalTotal   valueobject.Amount
}

// ComputeCashTotal applies a percentage discount to price * quantity.
// Each step is rounded to two places. The percentage is not clamped;
// callers reject values outside [0, 100] with ValidateDiscount.
func ComputeCashTotal(line CashLine) CashTotals {
	subtotal := lineSubtotal(line.UnitPrice, line.Quantity)
	discount := percentOf(subtotal, line.DiscountPercent)
	return CashTotals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		FinalTotal:     subtotal.Sub(discount),
	}
}

// ComputeInstallmentTotal adds a percentage markup to price * quantity
func ComputeInstallmentTotal(line InstallmentLine) InstallmentTotals {
	subtotal := lineSubtotal(line.UnitPrice, line.Quantity)
	markup := percentOf(subtotal, line.MarkupPercent)
	return InstallmentTotals{
		Subtotal:     subtotal,
		MarkupAmount: markup,
		FinalTotal:   subtotal.Add(markup),
	}
}

func lineSubtotal(unitPrice decimal.Decimal, qty int64) valueobject.Amount {
	return valueobject.NewAmount(unitPrice.Mul(decimal.NewFromInt(qty)))
}

func percentOf(base valueobject.Amount, percent decimal.Decimal) valueobject.Amount {
	if !percent.IsPositive() {
		return valueobject.ZeroAmount
	}
	return valueobject.NewAmount(base.Decimal().Mul(percent).Div(hundred))
}

// ValidateDiscount accepts a percentage in [0, 100]
func ValidateDiscount(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return shared.ErrInvalidDiscount
	}
	return nil
}

// ValidateMarkup accepts any non-negative percentage
func ValidateMarkup(percent decimal.Decimal) error {
	if percent.IsNegative() {
		return shared.ErrInvalidMarkup
	}
	return nil
}

// Plan splits an installment total into an advance and equal monthly installments
type Plan struct {
	FinalTotal         valueobject.Amount
	AdvancePayment     valueobject.Amount
	Remaining          valueobject.Amount
	Months             int
	MonthlyInstallment valueobject.Amount
}

// ComputePlan returns remaining = final - advance and
// monthly = round2(remaining / months). months must be at least 1.
func ComputePlan(final valueobject.Amount, advance decimal.Decimal, months int) Plan {
	adv := valueobject.NewAmount(advance)
	remaining := final.Sub(adv)
	monthly := valueobject.ZeroAmount
	if months > 0 {
		monthly = valueobject.NewAmount(remaining.Decimal().Div(decimal.NewFromInt(int64(months))))
	}
	return Plan{
		FinalTotal:         final,
		AdvancePayment:     adv,
		Remaining:          remaining,
		Months:             months,
		MonthlyInstallment: monthly,
	}
}
