package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Product is a stocked item. Value moves by exactly the value of each stock
// movement and is never recomputed from unrelated fields.
type Product struct {
	ProductID       string             `json:"productId"`
	Name            string             `json:"name"`
	Model           string             `json:"model"`
	Category        string             `json:"category"`
	Company         string             `json:"company"`
	Quantity        int64              `json:"quantity"`
	Price           valueobject.Amount `json:"price"`
	Value           valueobject.Amount `json:"value"`
	PricePerUnit    valueobject.Amount `json:"pricePerUnit"`
	Supplier        string             `json:"supplier"`
	SupplierContact string             `json:"supplierContact"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// ProductDetails are the descriptive, freely editable fields of a product
type ProductDetails struct {
	Name            string
	Model           string
	Category        string
	Company         string
	Supplier        string
	SupplierContact string
}

// NewProduct creates a product. An opening quantity is valued exactly like
// a first replenishment at openingPrice.
func NewProduct(productID string, details ProductDetails, openingQty int64, openingPrice decimal.Decimal, now time.Time) (*Product, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, shared.NewValidationError("INVALID_PRODUCT_ID", "Product ID is required")
	}
	if err := validateDetails(details); err != nil {
		return nil, err
	}
	if openingQty < 0 {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if openingPrice.IsNegative() {
		return nil, shared.ErrInvalidPrice
	}

	p := &Product{
		ProductID:    productID,
		Price:        valueobject.NewAmount(openingPrice),
		Value:        valueobject.ZeroAmount,
		PricePerUnit: valueobject.ZeroAmount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	p.setDetails(details)

	if openingQty > 0 {
		p.apply(ApplyReplenishment(p.Level(), Addition{Quantity: openingQty, UnitPrice: openingPrice}))
	}
	return p, nil
}

// Level returns the product's current stock level
func (p *Product) Level() StockLevel {
	return StockLevel{Quantity: p.Quantity, Value: p.Value.Decimal()}
}

// UpdateDetails replaces the descriptive fields
func (p *Product) UpdateDetails(details ProductDetails, now time.Time) error {
	if err := validateDetails(details); err != nil {
		return err
	}
	p.setDetails(details)
	p.UpdatedAt = now
	return nil
}

// Replenish adds a lot of qty units bought at unitPrice
func (p *Product) Replenish(qty int64, unitPrice decimal.Decimal, now time.Time) (Replenishment, error) {
	if qty <= 0 {
		return Replenishment{}, shared.ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return Replenishment{}, shared.ErrInvalidPrice
	}

	r := ApplyReplenishment(p.Level(), Addition{Quantity: qty, UnitPrice: unitPrice})
	p.apply(r)
	p.Price = valueobject.NewAmount(unitPrice)
	p.UpdatedAt = now
	return r, nil
}

// CheckAvailable returns a validation error when qty units cannot be sold
func (p *Product) CheckAvailable(qty int64) error {
	if qty <= 0 {
		return shared.ErrInvalidQuantity
	}
	if qty > p.Quantity {
		return shared.NewValidationError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Only %d units of %s in stock", p.Quantity, p.Name))
	}
	return nil
}

// Sell removes qty units from stock, revaluing the remainder at the
// product's weighted-average unit price.
func (p *Product) Sell(qty int64, now time.Time) (SaleOutcome, error) {
	if err := p.CheckAvailable(qty); err != nil {
		return SaleOutcome{}, err
	}

	out := ApplySaleAtUnitPrice(p.Level(), qty, p.PricePerUnit.Decimal())
	p.Quantity = out.NewQuantity
	p.Value = out.NewValue
	p.UpdatedAt = now
	return out, nil
}

func (p *Product) apply(r Replenishment) {
	p.Quantity = r.NewQuantity
	p.Value = r.NewValue
	p.PricePerUnit = r.NewUnitPrice
}

func (p *Product) setDetails(d ProductDetails) {
	p.Name = strings.TrimSpace(d.Name)
	p.Model = strings.TrimSpace(d.Model)
	p.Category = strings.TrimSpace(d.Category)
	p.Company = strings.TrimSpace(d.Company)
	p.Supplier = strings.TrimSpace(d.Supplier)
	p.SupplierContact = strings.TrimSpace(d.SupplierContact)
}

func validateDetails(d ProductDetails) error {
	if strings.TrimSpace(d.Name) == "" {
		return shared.NewValidationError("INVALID_PRODUCT_NAME", "Product name is required")
	}
	if len(d.Name) > 200 {
		return shared.NewValidationError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// FindProduct returns the product with id and its index, or a NotFound error
func FindProduct(products []Product, id string) (int, error) {
	for i := range products {
		if products[i].ProductID == id {
			return i, nil
		}
	}
	return -1, shared.NewNotFoundError("Product", id)
}

// ProductIDs lists the identifiers of products
func ProductIDs(products []Product) []string {
	ids := make([]string, len(products))
	for i := range products {
		ids[i] = products[i].ProductID
	}
	return ids
}

// RecordID implements shared.Record
func (p Product) RecordID() string { return p.ProductID }
