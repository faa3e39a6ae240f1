// Package report summarizes the sales and purchase histories over a date
// range and exports them as a workbook.
package report

import (
	"cmp"
	"context"
	"io"
	"slices"
	"time"

	"github.com/erp/pos/internal/domain/inventory"
	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/domain/shared/valueobject"
	"github.com/erp/pos/internal/domain/trade"
	"github.com/erp/pos/internal/infrastructure/export"
)

const (
	dateLayout     = "2006-01-02"
	topProductsMax = 10
)

// ReportService builds the reports page
type ReportService struct {
	sales     shared.RecordStore[trade.SaleTransaction]
	purchases shared.RecordStore[inventory.StockAddition]
	payments  shared.RecordStore[trade.InstallmentPayment]
	loc       *time.Location
}

// NewReportService creates a new ReportService. Date bounds are interpreted
// in loc (time.Local when nil).
func NewReportService(
	sales shared.RecordStore[trade.SaleTransaction],
	purchases shared.RecordStore[inventory.StockAddition],
	payments shared.RecordStore[trade.InstallmentPayment],
	loc *time.Location,
) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{sales: sales, purchases: purchases, payments: payments, loc: loc}
}

// ResolvePeriod turns a RangeQuery into [from 00:00, day after to 00:00)
func (s *ReportService) ResolvePeriod(q RangeQuery) (Period, error) {
	var p Period
	if q.From != "" {
		from, err := time.ParseInLocation(dateLayout, q.From, s.loc)
		if err != nil {
			return p, shared.NewValidationError("INVALID_DATE", "From date must be YYYY-MM-DD")
		}
		p.From = from
	}
	if q.To != "" {
		to, err := time.ParseInLocation(dateLayout, q.To, s.loc)
		if err != nil {
			return p, shared.NewValidationError("INVALID_DATE", "To date must be YYYY-MM-DD")
		}
		p.To = to.AddDate(0, 0, 1)
	}
	if !p.From.IsZero() && !p.To.IsZero() && !p.From.Before(p.To) {
		return p, shared.NewValidationError("INVALID_DATE_RANGE", "From date must not be after To date")
	}
	return p, nil
}

// Contains reports whether t falls inside the period
func (p Period) Contains(t time.Time) bool {
	if !p.From.IsZero() && t.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && !t.Before(p.To) {
		return false
	}
	return true
}

// Summary returns the sales and purchase summaries for q
func (s *ReportService) Summary(ctx context.Context, q RangeQuery) (*Summary, error) {
	period, err := s.ResolvePeriod(q)
	if err != nil {
		return nil, err
	}
	sales, purchases, payments := s.load(ctx, period)
	return &Summary{
		Sales:     summarizeSales(period, sales, payments),
		Purchases: summarizePurchases(period, purchases),
	}, nil
}

// Export writes the summary and the matching history rows as an .xlsx workbook
func (s *ReportService) Export(ctx context.Context, q RangeQuery, w io.Writer) error {
	period, err := s.ResolvePeriod(q)
	if err != nil {
		return err
	}
	sales, purchases, payments := s.load(ctx, period)
	ss := summarizeSales(period, sales, payments)
	ps := summarizePurchases(period, purchases)

	summary := export.Sheet{
		Name:    "Summary",
		Headers: []string{"Metric", "Value"},
		Rows: []export.Row{
			export.Values{"Sales", ss.Count},
			export.Values{"Cash sales", ss.CashCount},
			export.Values{"Installment sales", ss.InstallmentCount},
			export.Values{"Units sold", ss.UnitsSold},
			export.Values{"Subtotal", money(ss.Subtotal)},
			export.Values{"Discounts", money(ss.Discounts)},
			export.Values{"Markups", money(ss.Markups)},
			export.Values{"Revenue", money(ss.Revenue)},
			export.Values{"Cost of goods", money(ss.CostOfGoods)},
			export.Values{"Gross profit", money(ss.GrossProfit)},
			export.Values{"Installments received", money(ss.InstallmentsPaid)},
			export.Values{"Purchases", ps.Count},
			export.Values{"Units received", ps.UnitsReceived},
			export.Values{"Purchase value", money(ps.TotalValue)},
		},
	}

	salesSheet := export.Sheet{
		Name: "Sales",
		Headers: []string{"Invoice", "Date", "Product ID", "Product", "Quantity", "Unit Price",
			"Subtotal", "Discount", "Markup", "Total", "Payment", "Customer"},
	}
	for _, sale := range sales {
		salesSheet.Rows = append(salesSheet.Rows, saleRow(sale))
	}

	purchaseSheet := export.Sheet{
		Name: "Purchases",
		Headers: []string{"Invoice", "Date", "Product ID", "Product", "Supplier", "Quantity",
			"Unit Price", "Value", "Quantity After", "Value After", "Price Per Unit After"},
	}
	for _, a := range purchases {
		purchaseSheet.Rows = append(purchaseSheet.Rows, purchaseRow(a))
	}

	paymentSheet := export.Sheet{
		Name:    "Installment Payments",
		Headers: []string{"Payment", "Invoice", "Date", "Customer", "Amount", "Balance After", "Note"},
	}
	for _, p := range payments {
		paymentSheet.Rows = append(paymentSheet.Rows, paymentRow(p))
	}

	return export.WriteWorkbook(w, summary, salesSheet, purchaseSheet, paymentSheet)
}

func (s *ReportService) load(ctx context.Context, period Period) ([]trade.SaleTransaction, []inventory.StockAddition, []trade.InstallmentPayment) {
	sales := filter(s.sales.Load(ctx, shared.KeySalesHistory), func(v trade.SaleTransaction) bool {
		return period.Contains(v.Timestamp)
	})
	purchases := filter(s.purchases.Load(ctx, shared.KeyPurchaseHistory), func(v inventory.StockAddition) bool {
		return period.Contains(v.Timestamp)
	})
	payments := filter(s.payments.Load(ctx, shared.KeyInstallmentHistory), func(v trade.InstallmentPayment) bool {
		return period.Contains(v.PaidAt)
	})
	return sales, purchases, payments
}

func summarizeSales(period Period, sales []trade.SaleTransaction, payments []trade.InstallmentPayment) SalesSummary {
	sum := SalesSummary{
		Period:           period,
		Count:            len(sales),
		Subtotal:         valueobject.ZeroAmount,
		Discounts:        valueobject.ZeroAmount,
		Markups:          valueobject.ZeroAmount,
		Revenue:          valueobject.ZeroAmount,
		CostOfGoods:      valueobject.ZeroAmount,
		InstallmentsPaid: valueobject.ZeroAmount,
	}
	byProduct := map[string]*ProductSales{}
	for _, sale := range sales {
		if sale.IsInstallment() {
			sum.InstallmentCount++
		} else {
			sum.CashCount++
		}
		sum.UnitsSold += sale.QuantitySold
		sum.Subtotal = sum.Subtotal.Add(sale.Subtotal)
		sum.Discounts = sum.Discounts.Add(sale.DiscountAmount)
		sum.Markups = sum.Markups.Add(sale.MarkupAmount)
		sum.Revenue = sum.Revenue.Add(sale.FinalTotal)
		sum.CostOfGoods = sum.CostOfGoods.Add(sale.CostValue)

		ps, ok := byProduct[sale.ProductID]
		if !ok {
			ps = &ProductSales{ProductID: sale.ProductID, ProductName: sale.ProductName, Revenue: valueobject.ZeroAmount}
			byProduct[sale.ProductID] = ps
		}
		ps.Units += sale.QuantitySold
		ps.Revenue = ps.Revenue.Add(sale.FinalTotal)
	}
	sum.GrossProfit = sum.Revenue.Sub(sum.CostOfGoods)
	for _, p := range payments {
		sum.InstallmentsPaid = sum.InstallmentsPaid.Add(p.Amount)
	}

	sum.TopProducts = make([]ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		sum.TopProducts = append(sum.TopProducts, *ps)
	}
	slices.SortFunc(sum.TopProducts, func(a, b ProductSales) int {
		if c := b.Revenue.Decimal().Cmp(a.Revenue.Decimal()); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	if len(sum.TopProducts) > topProductsMax {
		sum.TopProducts = sum.TopProducts[:topProductsMax]
	}
	return sum
}

func summarizePurchases(period Period, purchases []inventory.StockAddition) PurchaseSummary {
	sum := PurchaseSummary{Period: period, Count: len(purchases), TotalValue: valueobject.ZeroAmount}
	for _, a := range purchases {
		sum.UnitsReceived += a.AdditionalQuantity
		sum.TotalValue = sum.TotalValue.Add(a.PurchaseValue)
	}
	return sum
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, v := range items {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func money(a valueobject.Amount) float64 {
	return a.Decimal().InexactFloat64()
}

func saleRow(s trade.SaleTransaction) export.Values {
	return export.Values{
		s.InvoiceID, s.Timestamp.Format(time.DateTime), s.ProductID, s.ProductName, s.QuantitySold,
		money(s.SalePrice), money(s.Subtotal), money(s.DiscountAmount), money(s.MarkupAmount),
		money(s.FinalTotal), string(s.PaymentMethod), s.CustomerName,
	}
}

func purchaseRow(a inventory.StockAddition) export.Values {
	return export.Values{
		a.InvoiceID, a.Timestamp.Format(time.DateTime), a.ProductID, a.ProductName, a.Supplier,
		a.AdditionalQuantity, money(a.UnitPurchasePrice), money(a.PurchaseValue),
		a.QuantityAfter, money(a.ValueAfter), money(a.PricePerUnitAfter),
	}
}

func paymentRow(p trade.InstallmentPayment) export.Values {
	return export.Values{
		p.PaymentID, p.InvoiceID, p.PaidAt.Format(time.DateTime), p.CustomerName,
		money(p.Amount), money(p.BalanceAfter), p.Note,
	}
}
