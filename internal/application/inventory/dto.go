package inventory

import (
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the product form of the stock page
type CreateProductRequest struct {
	Name            string          `json:"name" binding:"required,max=200"`
	Model           string          `json:"model" binding:"max=100"`
	Category        string          `json:"category" binding:"max=100"`
	Company         string          `json:"company" binding:"max=100"`
	Supplier        string          `json:"supplier" binding:"max=100"`
	SupplierContact string          `json:"supplierContact" binding:"omitempty,phone"`
	Quantity        int64           `json:"quantity" binding:"min=0"`
	Price           decimal.Decimal `json:"price"`
}

// UpdateProductRequest edits the descriptive fields of a product
type UpdateProductRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	Model           string `json:"model" binding:"max=100"`
	Category        string `json:"category" binding:"max=100"`
	Company         string `json:"company" binding:"max=100"`
	Supplier        string `json:"supplier" binding:"max=100"`
	SupplierContact string `json:"supplierContact" binding:"omitempty,phone"`
}

// AddStockRequest receives a lot of units into an existing product
type AddStockRequest struct {
	ProductID string          `json:"productId" binding:"required"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}
