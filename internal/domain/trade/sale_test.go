package trade

import (
	"testing"
	"time"

	"github.com/erp/pos/internal/domain/inventory"
	"github.com/erp/pos/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var saleTime = time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)

func stockedProduct(t *testing.T, qty int64, cost string) *inventory.Product {
	t.Helper()
	p, err := inventory.NewProduct("P-001", inventory.ProductDetails{Name: "Washing Machine", Company: "Haier"}, qty, dec(cost), saleTime)
	require.NoError(t, err)
	return p
}

func TestNewCashSale(t *testing.T) {
	t.Run("records totals and decrements stock", func(t *testing.T) {
		p := stockedProduct(t, 10, "400")

		sale, err := NewCashSale(CashSaleInput{
			InvoiceID:       "CASH-0001",
			Quantity:        3,
			UnitPrice:       dec("500.00"),
			DiscountPercent: dec("10"),
		}, p, saleTime)
		require.NoError(t, err)

		assert.Equal(t, "CASH-0001", sale.InvoiceID)
		assert.Equal(t, "1500.00", sale.Subtotal.String())
		assert.Equal(t, "150.00", sale.DiscountAmount.String())
		assert.Equal(t, "1350.00", sale.FinalTotal.String())
		assert.Equal(t, "1200.00", sale.CostValue.String())
		assert.Equal(t, PaymentCash, sale.PaymentMethod)
		assert.False(t, sale.IsInstallment())

		assert.Equal(t, int64(7), p.Quantity)
		assert.Equal(t, "2800.00", p.Value.String())
	})

	t.Run("over-stock request is rejected and nothing changes", func(t *testing.T) {
		p := stockedProduct(t, 15, "100")

		_, err := NewCashSale(CashSaleInput{InvoiceID: "CASH-0002", Quantity: 20, UnitPrice: dec("150")}, p, saleTime)
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
		assert.Equal(t, int64(15), p.Quantity)
		assert.Equal(t, "1500.00", p.Value.String())
	})

	t.Run("discount outside range", func(t *testing.T) {
		p := stockedProduct(t, 5, "100")
		_, err := NewCashSale(CashSaleInput{InvoiceID: "CASH-0003", Quantity: 1, UnitPrice: dec("150"), DiscountPercent: dec("101")}, p, saleTime)
		assert.ErrorIs(t, err, shared.ErrInvalidDiscount)
		assert.Equal(t, int64(5), p.Quantity)
	})

	t.Run("installment method is refused", func(t *testing.T) {
		p := stockedProduct(t, 5, "100")
		_, err := NewCashSale(CashSaleInput{InvoiceID: "CASH-0004", Quantity: 1, UnitPrice: dec("150"), PaymentMethod: PaymentInstallment}, p, saleTime)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("invoice id is required", func(t *testing.T) {
		p := stockedProduct(t, 5, "100")
		_, err := NewCashSale(CashSaleInput{Quantity: 1, UnitPrice: dec("150")}, p, saleTime)
		assert.True(t, shared.IsValidation(err))
	})
}

func installmentInput() InstallmentSaleInput {
	return InstallmentSaleInput{
		InvoiceID:      "INS-0001",
		Quantity:       1,
		UnitPrice:      dec("1200"),
		MarkupPercent:  dec("25"),
		AdvancePayment: dec("300"),
		Months:         6,
		CustomerID:     "CUS-001",
		CustomerName:   "Ali Raza",
		GuarantorID:    "GUA-001",
		GuarantorName:  "Usman Tariq",
	}
}

func TestNewInstallmentSale(t *testing.T) {
	t.Run("computes markup and plan", func(t *testing.T) {
		p := stockedProduct(t, 2, "900")

		sale, plan, err := NewInstallmentSale(installmentInput(), p, saleTime)
		require.NoError(t, err)

		assert.True(t, sale.IsInstallment())
		assert.Equal(t, "1500.00", sale.FinalTotal.String())
		assert.Equal(t, "300.00", sale.MarkupAmount.String())
		assert.Equal(t, "1200.00", plan.Remaining.String())
		assert.Equal(t, "200.00", plan.MonthlyInstallment.String())
		require.NotNil(t, sale.Installment)
		assert.Equal(t, "GUA-001", sale.Installment.GuarantorID)
		assert.Equal(t, int64(1), p.Quantity)
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := map[string]func(in *InstallmentSaleInput){
			"negative markup":  func(in *InstallmentSaleInput) { in.MarkupPercent = dec("-5") },
			"no months":        func(in *InstallmentSaleInput) { in.Months = 0 },
			"advance too high": func(in *InstallmentSaleInput) { in.AdvancePayment = dec("1500.01") },
			"no guarantor":     func(in *InstallmentSaleInput) { in.GuarantorID = "" },
			"over stock":       func(in *InstallmentSaleInput) { in.Quantity = 3 },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				p := stockedProduct(t, 2, "900")
				in := installmentInput()
				mutate(&in)

				_, _, err := NewInstallmentSale(in, p, saleTime)
				assert.True(t, shared.IsValidation(err))
				assert.Equal(t, int64(2), p.Quantity)
			})
		}
	})
}

func TestNewInstallmentPayment(t *testing.T) {
	p := stockedProduct(t, 2, "900")
	sale, _, err := NewInstallmentSale(installmentInput(), p, saleTime)
	require.NoError(t, err)

	var history []InstallmentPayment
	advance, err := NewInstallmentPayment("PAY-0001", sale, history, dec("300"), "advance", saleTime)
	require.NoError(t, err)
	history = append(history, *advance)
	assert.Equal(t, "1500.00", advance.BalanceBefore.String())
	assert.Equal(t, "1200.00", advance.BalanceAfter.String())
	assert.Equal(t, "CUS-001", advance.CustomerID)

	second, err := NewInstallmentPayment("PAY-0002", sale, history, dec("200"), "", saleTime.AddDate(0, 1, 0))
	require.NoError(t, err)
	history = append(history, *second)
	assert.Equal(t, "1000.00", Balance(sale, history).String())

	_, err = NewInstallmentPayment("PAY-0003", sale, history, dec("1000.01"), "", saleTime)
	assert.True(t, shared.IsValidation(err))

	_, err = NewInstallmentPayment("PAY-0003", sale, history, decimal.Zero, "", saleTime)
	assert.True(t, shared.IsValidation(err))

	other := []InstallmentPayment{{PaymentID: "PAY-0009", InvoiceID: "INS-0042", Amount: advance.Amount}}
	assert.Len(t, PaymentsFor(append(history, other...), "INS-0001"), 2)
	assert.Equal(t, []string{"PAY-0001", "PAY-0002"}, PaymentIDs(history))
}

func TestNewInstallmentPayment_RejectsCashSale(t *testing.T) {
	p := stockedProduct(t, 2, "900")
	sale, err := NewCashSale(CashSaleInput{InvoiceID: "CASH-0001", Quantity: 1, UnitPrice: dec("1000")}, p, saleTime)
	require.NoError(t, err)

	_, err = NewInstallmentPayment("PAY-0001", sale, nil, dec("10"), "", saleTime)
	assert.True(t, shared.IsValidation(err))
}

func TestFindSale(t *testing.T) {
	sales := []SaleTransaction{{InvoiceID: "CASH-0001"}, {InvoiceID: "INS-0001"}}
	idx, err := FindSale(sales, "INS-0001")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = FindSale(sales, "INS-0404")
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, []string{"CASH-0001", "INS-0001"}, SaleInvoiceIDs(sales))
}
