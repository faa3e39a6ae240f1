package report

import (
	"time"

	"github.com/erp/pos/internal/domain/shared/valueobject"
)

// RangeQuery selects records by timestamp. Both bounds are dates
// (YYYY-MM-DD) and inclusive; an empty bound is open.
type RangeQuery struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// Period is a resolved half-open time interval [From, To)
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// SalesSummary aggregates the sales history over a period
type SalesSummary struct {
	Period           Period             `json:"period"`
	Count            int                `json:"count"`
	CashCount        int                `json:"cashCount"`
	InstallmentCount int                `json:"installmentCount"`
	UnitsSold        int64              `json:"unitsSold"`
	Subtotal         valueobject.Amount `json:"subtotal"`
	Discounts        valueobject.Amount `json:"discounts"`
	Markups          valueobject.Amount `json:"markups"`
	Revenue          valueobject.Amount `json:"revenue"`
	CostOfGoods      valueobject.Amount `json:"costOfGoods"`
	GrossProfit      valueobject.Amount `json:"grossProfit"`
	InstallmentsPaid valueobject.Amount `json:"installmentsPaid"`
	TopProducts      []ProductSales     `json:"topProducts"`
}

// ProductSales is the sales of one product within a summary
type ProductSales struct {
	ProductID   string             `json:"productId"`
	ProductName string             `json:"productName"`
	Units       int64              `json:"units"`
	Revenue     valueobject.Amount `json:"revenue"`
}

// PurchaseSummary aggregates the purchase history over a period
type PurchaseSummary struct {
	Period        Period             `json:"period"`
	Count         int                `json:"count"`
	UnitsReceived int64              `json:"unitsReceived"`
	TotalValue    valueobject.Amount `json:"totalValue"`
}

// Summary is the reports page
type Summary struct {
	Sales     SalesSummary    `json:"sales"`
	Purchases PurchaseSummary `json:"purchases"`
}
