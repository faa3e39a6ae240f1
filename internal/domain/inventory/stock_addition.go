package inventory

import (
	"time"

	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// StockAddition is an immutable purchase-history entry. Product fields are
// copied so reports stay correct after the product is edited or deleted.
type StockAddition struct {
	InvoiceID          string             `json:"invoiceId"`
	ProductID          string             `json:"productId"`
	ProductName        string             `json:"productName"`
	Model              string             `json:"model"`
	Category           string             `json:"category"`
	Company            string             `json:"company"`
	Supplier           string             `json:"supplier"`
	SupplierContact    string             `json:"supplierContact"`
	AdditionalQuantity int64              `json:"additionalQuantity"`
	UnitPurchasePrice  valueobject.Amount `json:"unitPurchasePrice"`
	PurchaseValue      valueobject.Amount `json:"purchaseValue"`
	QuantityAfter      int64              `json:"quantityAfter"`
	ValueAfter         valueobject.Amount `json:"valueAfter"`
	PricePerUnitAfter  valueobject.Amount `json:"pricePerUnitAfter"`
	Timestamp          time.Time          `json:"timestamp"`
}

// ReceiveStock validates a stock addition, applies it to product and returns
// the purchase-history record. The product is left untouched on error.
func ReceiveStock(invoiceID string, product *Product, qty int64, unitPrice decimal.Decimal, now time.Time) (*StockAddition, error) {
	if invoiceID == "" {
		return nil, shared.NewValidationError("INVALID_INVOICE_ID", "Invoice ID is required")
	}
	r, err := product.Replenish(qty, unitPrice, now)
	if err != nil {
		return nil, err
	}

	return &StockAddition{
		InvoiceID:          invoiceID,
		ProductID:          product.ProductID,
		ProductName:        product.Name,
		Model:              product.Model,
		Category:           product.Category,
		Company:            product.Company,
		Supplier:           product.Supplier,
		SupplierContact:    product.SupplierContact,
		AdditionalQuantity: qty,
		UnitPurchasePrice:  valueobject.NewAmount(unitPrice),
		PurchaseValue:      valueobject.NewAmount(unitPrice.Mul(decimal.NewFromInt(qty))),
		QuantityAfter:      r.NewQuantity,
		ValueAfter:         r.NewValue,
		PricePerUnitAfter:  r.NewUnitPrice,
		Timestamp:          now,
	}, nil
}

// InvoiceIDs lists the invoice identifiers of additions
func InvoiceIDs(additions []StockAddition) []string {
	ids := make([]string, len(additions))
	for i := range additions {
		ids[i] = additions[i].InvoiceID
	}
	return ids
}

// RecordID implements shared.Record
func (a StockAddition) RecordID() string { return a.InvoiceID }
