package handler

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/infrastructure/notify"
	infra "github.com/erp/pos/internal/infrastructure/printing"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func bytesReader(s string) io.Reader {
	return strings.NewReader(s)
}

func TestNotificationRecent(t *testing.T) {
	feed := notify.NewFeed(5)
	for _, msg := range []string{"Product P-001 added", "Product updated", "Sale CASH-0001 completed, total 100.00"} {
		feed.Notify(context.Background(), shared.Notification{Kind: shared.NotifySuccess, Message: msg})
	}
	h := NewNotificationHandler(feed, nil)

	router := gin.New()
	router.GET("/notifications", h.Recent)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications?limit=2", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sale CASH-0001 completed")
	assert.NotContains(t, w.Body.String(), "Product P-001 added")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications?limit=x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationStream(t *testing.T) {
	feed := notify.NewFeed(5)
	h := NewNotificationHandler(feed, nil)

	router := gin.New()
	router.GET("/notifications/stream", h.Stream)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/notifications/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var event, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "":
				return event, data
			}
		}
	}

	event, _ := readEvent()
	assert.Equal(t, "connected", event)

	require.Eventually(t, func() bool { return feed.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	feed.Notify(context.Background(), shared.Notification{Kind: shared.NotifyError, Message: "Only 2 units of Fan in stock"})

	event, data := readEvent()
	assert.Equal(t, "notification", event)
	assert.Contains(t, data, `"kind":"error"`)
	assert.Contains(t, data, "Only 2 units of Fan in stock")

	cancel()
	require.Eventually(t, func() bool { return feed.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) SaleReceipt(ctx context.Context, invoiceID string) (*infra.Document, error) {
	args := m.Called(ctx, invoiceID)
	doc, _ := args.Get(0).(*infra.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentService) PurchaseInvoice(ctx context.Context, invoiceID string) (*infra.Document, error) {
	args := m.Called(ctx, invoiceID)
	doc, _ := args.Get(0).(*infra.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentService) InstallmentStatement(ctx context.Context, invoiceID string) (*infra.Document, error) {
	args := m.Called(ctx, invoiceID)
	doc, _ := args.Get(0).(*infra.Document)
	return doc, args.Error(1)
}

func TestPrintHandler(t *testing.T) {
	svc := new(MockDocumentService)
	until := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.On("PurchaseInvoice", mock.Anything, "Inv-001").Return(&infra.Document{
		Kind:     infra.KindPurchaseInvoice,
		Name:     "purchase-Inv-001",
		HTML:     []byte("<h1>Purchase Invoice Inv-001</h1>"),
		PDF:      []byte("%PDF-1.4"),
		URL:      "https://files.local/purchase-Inv-001.pdf",
		URLUntil: until,
	}, nil)
	svc.On("SaleReceipt", mock.Anything, "CASH-0404").
		Return(nil, shared.NewNotFoundError("Sale", "CASH-0404"))

	h := NewPrintHandler(svc)
	router := gin.New()
	router.GET("/prints/sales/:id", h.SaleReceipt)
	router.GET("/prints/purchases/:id", h.PurchaseInvoice)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/prints/purchases/Inv-001", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="purchase-Inv-001.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "https://files.local/purchase-Inv-001.pdf", w.Header().Get("X-Document-URL"))
	assert.Equal(t, "2024-03-01T12:00:00Z", w.Header().Get("X-Document-URL-Expires"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/prints/purchases/Inv-001?format=html", nil))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), "Purchase Invoice Inv-001")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/prints/sales/CASH-0404", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.AssertExpectations(t)
}
