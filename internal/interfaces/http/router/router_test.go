package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	identityapp "github.com/erp/pos/internal/application/identity"
	inventoryapp "github.com/erp/pos/internal/application/inventory"
	partnerapp "github.com/erp/pos/internal/application/partner"
	printingapp "github.com/erp/pos/internal/application/printing"
	reportapp "github.com/erp/pos/internal/application/report"
	tradeapp "github.com/erp/pos/internal/application/trade"
	"github.com/erp/pos/internal/domain/identity"
	"github.com/erp/pos/internal/domain/inventory"
	"github.com/erp/pos/internal/domain/partner"
	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/domain/trade"
	"github.com/erp/pos/internal/infrastructure/config"
	"github.com/erp/pos/internal/infrastructure/export"
	"github.com/erp/pos/internal/infrastructure/notify"
	"github.com/erp/pos/internal/infrastructure/printing"
	"github.com/erp/pos/internal/infrastructure/store"
	"github.com/erp/pos/internal/interfaces/http/dto"
	"github.com/erp/pos/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	group := NewDomainGroup("test", "/test").
		GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") }).
		Mount(func(rg *gin.RouterGroup) {
			rg.DELETE("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })
		})
	assert.Equal(t, "test", group.Name())
	assert.Equal(t, "/test", group.Prefix())

	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/test/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v2/test/P-001", nil))
	assert.Equal(t, "P-001", w.Body.String())
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("test", "/test").
		Use(func(c *gin.Context) {
			c.Header("X-Group", "test")
			c.Next()
		}).
		GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })
	g.RegisterRoutes(engine.Group("/api/v1"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/items", nil))
	assert.Equal(t, "test", w.Header().Get("X-Group"))
}

// shop wires the full application over an in-memory record store
type shop struct {
	engine *gin.Engine
	feed   *notify.Feed
}

func newShop(t *testing.T) *shop {
	t.Helper()

	kv := store.NewMemoryStore()
	products := store.NewJSONRecordStore[inventory.Product](kv, nil)
	purchases := store.NewJSONRecordStore[inventory.StockAddition](kv, nil)
	sales := store.NewJSONRecordStore[trade.SaleTransaction](kv, nil)
	payments := store.NewJSONRecordStore[trade.InstallmentPayment](kv, nil)
	customers := store.NewJSONRecordStore[partner.Customer](kv, nil)
	guarantors := store.NewJSONRecordStore[partner.Guarantor](kv, nil)
	suppliers := store.NewJSONRecordStore[partner.Supplier](kv, nil)
	accounts := store.NewJSONRecordStore[identity.Account](kv, nil)

	feed := notify.NewFeed(10)
	var notifier shared.Notifier = feed

	printer, err := printing.NewPrinter(
		printing.Shop{Name: "Test Electronics"},
		printing.NewFormatter("Rs", language.English, time.UTC),
	)
	require.NoError(t, err)

	accountService := identityapp.NewAccountService(accounts, notifier)
	h := Handlers{
		Products: handler.NewProductHandler(
			inventoryapp.NewProductService(products, purchases, store.NewKVCounter(kv, nil), notifier)),
		Sales: handler.NewSaleHandler(tradeapp.NewSaleService(tradeapp.Stores{
			Products:   products,
			Sales:      sales,
			Payments:   payments,
			Customers:  customers,
			Guarantors: guarantors,
		}, notifier)),
		Customers:     handler.NewPartnerHandler(partnerapp.NewCustomerRegistry(customers, notifier)),
		Guarantors:    handler.NewPartnerHandler(partnerapp.NewGuarantorRegistry(guarantors, notifier)),
		Suppliers:     handler.NewPartnerHandler(partnerapp.NewSupplierRegistry(suppliers, notifier)),
		Admins:        handler.NewAccountHandler(accountService, identity.RoleAdmin),
		Users:         handler.NewAccountHandler(accountService, identity.RoleUser),
		Reports:       handler.NewReportHandler(reportapp.NewReportService(sales, purchases, payments, time.UTC)),
		Notifications: handler.NewNotificationHandler(feed, nil),
		Prints:        handler.NewPrintHandler(printingapp.NewPrintService(sales, purchases, payments, printer, notifier)),
		System:        handler.NewSystemHandler("pos-test", "memory"),
	}

	engine, err := NewEngine(EngineConfig{HTTP: config.HTTPConfig{MaxBodySize: 1 << 20}}, h)
	require.NoError(t, err)
	return &shop{engine: engine, feed: feed}
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func (s *shop) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var resp apiResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestShopFlow(t *testing.T) {
	s := newShop(t)

	w, resp := s.do(t, http.MethodPost, "/products", gin.H{
		"name": "Washing Machine", "model": "WM-7", "quantity": 10, "price": "1000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decode[inventory.Product](t, resp.Data)
	assert.Equal(t, "P-001", product.ProductID)

	w, resp = s.do(t, http.MethodPost, "/purchases", gin.H{
		"productId": "P-001", "quantity": 10, "unitPrice": "1200",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	addition := decode[inventory.StockAddition](t, resp.Data)
	assert.Equal(t, "Inv-001", addition.InvoiceID)

	_, resp = s.do(t, http.MethodGet, "/products/P-001", nil)
	product = decode[inventory.Product](t, resp.Data)
	assert.Equal(t, int64(20), product.Quantity)
	assert.Equal(t, "22000.00", product.Value.String())
	assert.Equal(t, "1100.00", product.PricePerUnit.String())

	w, resp = s.do(t, http.MethodPost, "/sales/cash", gin.H{
		"productId": "P-001", "quantity": 2, "unitPrice": "1500", "discountPercent": "10", "paymentMethod": "cash",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sale := decode[trade.SaleTransaction](t, resp.Data)
	assert.Equal(t, "CASH-0001", sale.InvoiceID)
	assert.Equal(t, "2700.00", sale.FinalTotal.String())

	w, resp = s.do(t, http.MethodPost, "/sales/cash", gin.H{
		"productId": "P-001", "quantity": 100, "unitPrice": "1500",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInsufficientStock, resp.Error.Code)
	assert.Equal(t, "Only 18 units of Washing Machine in stock", resp.Error.Message)
	assert.NotEmpty(t, resp.Error.RequestID)

	w, resp = s.do(t, http.MethodPost, "/customers", gin.H{
		"name": "Bilal", "cnic": "123", "phone": "0300 1234567",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "cnic", resp.Error.Details[0].Field)

	w, _ = s.do(t, http.MethodPost, "/customers", gin.H{
		"name": "Bilal", "cnic": "35202-1234567-1", "phone": "0300 1234567",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = s.do(t, http.MethodPost, "/guarantors", gin.H{
		"name": "Kashif", "phone": "0321 7654321", "relation": "brother",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, resp = s.do(t, http.MethodPost, "/sales/installment", gin.H{
		"productId": "P-001", "customerId": "CUS-001", "guarantorId": "GUA-001",
		"quantity": 1, "unitPrice": "12000", "markupPercent": "10", "advancePayment": "1200", "months": 12,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	result := decode[tradeapp.InstallmentSaleResult](t, resp.Data)
	assert.Equal(t, "INS-0001", result.Sale.InvoiceID)
	assert.Equal(t, "13200.00", result.Plan.FinalTotal.String())
	assert.Equal(t, "1000.00", result.Plan.MonthlyInstallment.String())

	w, resp = s.do(t, http.MethodPost, "/payments", gin.H{"invoiceId": "INS-0001", "amount": "1000"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	payment := decode[trade.InstallmentPayment](t, resp.Data)
	assert.Equal(t, "11000.00", payment.BalanceAfter.String())

	w, resp = s.do(t, http.MethodPost, "/payments", gin.H{"invoiceId": "CASH-0001", "amount": "10"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeNotInstallmentSale, resp.Error.Code)

	_, resp = s.do(t, http.MethodGet, "/sales?kind=installment", nil)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)

	_, resp = s.do(t, http.MethodGet, "/sales/INS-0001/account", nil)
	account := decode[tradeapp.InstallmentAccount](t, resp.Data)
	assert.Equal(t, "11000.00", account.Balance.String())
	assert.Len(t, account.Payments, 2)

	w, resp = s.do(t, http.MethodGet, "/products/P-404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)

	_, resp = s.do(t, http.MethodGet, "/notifications?limit=1", nil)
	recent := decode[[]shared.Notification](t, resp.Data)
	require.Len(t, recent, 1)
	assert.Equal(t, shared.NotifyError, recent[0].Kind)
}

func TestPrintsAndReports(t *testing.T) {
	s := newShop(t)

	s.do(t, http.MethodPost, "/products", gin.H{"name": "Fridge", "quantity": 5, "price": "30000"})
	w, _ := s.do(t, http.MethodPost, "/sales/cash", gin.H{
		"productId": "P-001", "quantity": 1, "unitPrice": "42000", "paymentMethod": "card",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = s.do(t, http.MethodGet, "/prints/sales/CASH-0001", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), "CASH-0001")

	w, resp := s.do(t, http.MethodGet, "/prints/installments/CASH-0001", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeNotInstallmentSale, resp.Error.Code)

	_, resp = s.do(t, http.MethodGet, "/reports/summary", nil)
	summary := decode[reportapp.Summary](t, resp.Data)
	assert.Equal(t, 1, summary.Sales.Count)
	assert.Equal(t, "42000.00", summary.Sales.Revenue.String())

	w, resp = s.do(t, http.MethodGet, "/reports/summary?from=2024-02-01&to=2024-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	w, _ = s.do(t, http.MethodGet, "/reports/export?from=2024-01-01", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "pos-report-from-2024-01-01.xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestAccountsAndHealth(t *testing.T) {
	s := newShop(t)

	w, resp := s.do(t, http.MethodPost, "/admins", gin.H{
		"name": "Owner", "email": "owner@shop.pk", "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, string(resp.Data), "passwordHash")

	w, resp = s.do(t, http.MethodPost, "/users", gin.H{
		"name": "Cashier", "email": "owner@shop.pk", "password": "another-pass",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrCodeConflict, resp.Error.Code)

	_, resp = s.do(t, http.MethodGet, "/users", nil)
	assert.Equal(t, int64(0), resp.Meta.Total)

	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
