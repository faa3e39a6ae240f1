// Package inventory holds products and the weighted-average valuation that
// keeps their inventory value in step with every stock movement.
package inventory

import (
	"github.com/erp/pos/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// StockLevel is a product's on-hand quantity and total inventory value
type StockLevel struct {
	Quantity int64
	Value    decimal.Decimal
}

// Addition is one lot of stock bought at a single unit price
type Addition struct {
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Replenishment is the product state after an Addition
type Replenishment struct {
	NewQuantity  int64
	NewValue     valueobject.Amount
	NewUnitPrice valueobject.Amount
}

// SaleOutcome is the product state after units leave stock
type SaleOutcome struct {
	NewQuantity int64
	NewValue    valueobject.Amount
}

// ApplyReplenishment adds a lot to the current stock and returns the new
// quantity, total value and weighted-average unit price.
//
// The purchase value (price * qty) is added unrounded; only the new total is
// rounded to two places. The unit price is derived from the rounded total.
// Input is assumed valid: qty > 0 and price >= 0 are checked by the caller.
func ApplyReplenishment(current StockLevel, addition Addition) Replenishment {
	purchaseValue := addition.UnitPrice.Mul(decimal.NewFromInt(addition.Quantity))
	newValue := valueobject.NewAmount(current.Value.Add(purchaseValue))
	newQuantity := current.Quantity + addition.Quantity

	newUnitPrice := valueobject.ZeroAmount
	if newQuantity != 0 {
		newUnitPrice = valueobject.NewAmount(newValue.Decimal().Div(decimal.NewFromInt(newQuantity)))
	}

	return Replenishment{
		NewQuantity:  newQuantity,
		NewValue:     newValue,
		NewUnitPrice: newUnitPrice,
	}
}

// UnitPrice is round2(value / quantity), or 0.00 for an empty stock level
func UnitPrice(level StockLevel) valueobject.Amount {
	if level.Quantity == 0 {
		return valueobject.ZeroAmount
	}
	return valueobject.NewAmount(level.Value.Div(decimal.NewFromInt(level.Quantity)))
}

// ApplySale removes qty units, revaluing the remainder at the blended unit
// price derived from the current level. qty <= current.Quantity is the
// caller's responsibility.
func ApplySale(current StockLevel, qty int64) SaleOutcome {
	return ApplySaleAtUnitPrice(current, qty, UnitPrice(current).Decimal())
}

// ApplySaleAtUnitPrice removes qty units and values the remainder at
// unitPrice, normally the product's persisted weighted-average price.
// The sale price never enters the valuation.
func ApplySaleAtUnitPrice(current StockLevel, qty int64, unitPrice decimal.Decimal) SaleOutcome {
	newQuantity := current.Quantity - qty
	return SaleOutcome{
		NewQuantity: newQuantity,
		NewValue:    valueobject.NewAmount(unitPrice.Mul(decimal.NewFromInt(newQuantity))),
	}
}
