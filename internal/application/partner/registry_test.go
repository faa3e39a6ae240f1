package partner

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	appshared "github.com/erp/pos/internal/application/shared"
	"github.com/erp/pos/internal/domain/partner"
	"github.com/erp/pos/internal/domain/sequence"
	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/infrastructure/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n shared.Notification) {
	m.Called(ctx, n)
}

func notification(kind shared.NotificationKind, msg string) shared.Notification {
	return shared.Notification{Kind: kind, Message: msg}
}

func customerReq(name, cnic string) CustomerRequest {
	return CustomerRequest{
		ContactRequest: ContactRequest{Name: name, CNIC: cnic, Phone: "0300 1234567", Address: "Gulberg, Lahore"},
		FatherName:     "Abdul Hameed",
		Occupation:     "Tailor",
	}
}

func newCustomers(t *testing.T, opts ...appshared.Option) (*CustomerRegistry, *MockNotifier) {
	t.Helper()
	n := &MockNotifier{}
	kv := store.NewMemoryStore()
	opts = append([]appshared.Option{appshared.WithClock(func() time.Time { return fixedNow })}, opts...)
	reg := NewCustomerRegistry(store.NewJSONRecordStore[partner.Customer](kv, nil), n, opts...)
	return reg, n
}

func TestCustomerRegistry_Create(t *testing.T) {
	reg, n := newCustomers(t)
	ctx := context.Background()
	n.On("Notify", mock.Anything, notification(shared.NotifySuccess, "Customer CUS-001 added")).Once()
	n.On("Notify", mock.Anything, notification(shared.NotifySuccess, "Customer CUS-002 added")).Once()

	c, err := reg.Create(ctx, customerReq("Bilal Ahmed", "3520212345671"))
	require.NoError(t, err)
	assert.Equal(t, "CUS-001", c.CustomerID)
	assert.Equal(t, "35202-1234567-1", c.CNIC)
	assert.Equal(t, "+923001234567", c.Phone)
	assert.Equal(t, fixedNow, c.CreatedAt)

	c, err = reg.Create(ctx, customerReq("Sana Iqbal", "35202-7654321-9"))
	require.NoError(t, err)
	assert.Equal(t, "CUS-002", c.CustomerID)
	n.AssertExpectations(t)
}

func TestCustomerRegistry_DuplicateCNIC(t *testing.T) {
	reg, n := newCustomers(t)
	ctx := context.Background()
	n.On("Notify", mock.Anything, mock.MatchedBy(func(x shared.Notification) bool { return x.Kind == shared.NotifySuccess }))
	n.On("Notify", mock.Anything, notification(shared.NotifyError, "Customer CUS-001 already has CNIC 35202-1234567-1")).Twice()

	_, err := reg.Create(ctx, customerReq("Bilal Ahmed", "3520212345671"))
	require.NoError(t, err)

	_, err = reg.Create(ctx, customerReq("Someone Else", "35202-1234567-1"))
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))

	other, err := reg.Create(ctx, customerReq("Sana Iqbal", "3520276543219"))
	require.NoError(t, err)
	_, err = reg.Update(ctx, other.CustomerID, customerReq("Sana Iqbal", "3520212345671"))
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))

	stored, err := reg.GetByID(ctx, other.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "35202-7654321-9", stored.CNIC)
	n.AssertExpectations(t)
}

func TestCustomerRegistry_UpdateDeleteList(t *testing.T) {
	reg, n := newCustomers(t)
	ctx := context.Background()
	n.On("Notify", mock.Anything, mock.Anything)

	_, err := reg.Create(ctx, customerReq("Bilal Ahmed", "3520212345671"))
	require.NoError(t, err)
	_, err = reg.Create(ctx, customerReq("Sana Iqbal", "3520276543219"))
	require.NoError(t, err)

	c, err := reg.Update(ctx, "CUS-001", customerReq("Bilal A. Khan", "35202-1234567-1"))
	require.NoError(t, err)
	assert.Equal(t, "Bilal A. Khan", c.Name)

	page := reg.List(ctx, appshared.ListQuery{Search: "khan"})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "CUS-001", page.Items[0].CustomerID)

	page = reg.List(ctx, appshared.ListQuery{SortBy: "name", SortDir: "asc"})
	assert.Equal(t, "Bilal A. Khan", page.Items[0].Name)

	require.NoError(t, reg.Delete(ctx, "CUS-001"))
	_, err = reg.GetByID(ctx, "CUS-001")
	assert.True(t, shared.IsNotFound(err))
	assert.True(t, shared.IsNotFound(reg.Delete(ctx, "CUS-001")))

	c, err = reg.Create(ctx, customerReq("Hamza Ali", "3520211111111"))
	require.NoError(t, err)
	assert.Equal(t, "CUS-003", c.CustomerID)
}

func TestCustomerRegistry_InvalidInput(t *testing.T) {
	reg, n := newCustomers(t)
	n.On("Notify", mock.Anything, notification(shared.NotifyError, "CNIC must have 13 digits")).Once()
	n.On("Notify", mock.Anything, notification(shared.NotifyError, "Phone number is not valid")).Once()

	_, err := reg.Create(context.Background(), customerReq("Bilal Ahmed", "12345"))
	assert.ErrorIs(t, err, shared.ErrInvalidCNIC)

	req := customerReq("Bilal Ahmed", "3520212345671")
	req.Phone = "12"
	_, err = reg.Create(context.Background(), req)
	assert.ErrorIs(t, err, shared.ErrInvalidPhone)
	n.AssertExpectations(t)
}

func TestGuarantorAndSupplierRegistries(t *testing.T) {
	kv := store.NewMemoryStore()
	ctx := context.Background()

	guarantors := NewGuarantorRegistry(store.NewJSONRecordStore[partner.Guarantor](kv, nil), nil)
	g, err := guarantors.Create(ctx, GuarantorRequest{
		ContactRequest: ContactRequest{Name: "Kashif", CNIC: "4210112345671", Phone: "03211234567"},
		Relation:       "Brother",
	})
	require.NoError(t, err)
	assert.Equal(t, "GUA-001", g.GuarantorID)

	suppliers := NewSupplierRegistry(store.NewJSONRecordStore[partner.Supplier](kv, nil), nil)
	s, err := suppliers.Create(ctx, SupplierRequest{
		ContactRequest: ContactRequest{Name: "Ahmed Traders", Phone: "0300 9876543"},
		Email:          "Sales@AhmedTraders.pk",
	})
	require.NoError(t, err)
	assert.Equal(t, "SUP-001", s.SupplierID)
	assert.Empty(t, s.CNIC)
	assert.Equal(t, "sales@ahmedtraders.pk", s.Email)

	s2, err := suppliers.Create(ctx, SupplierRequest{
		ContactRequest: ContactRequest{Name: "Bismillah Electronics", Phone: "03001112223"},
	})
	require.NoError(t, err, "suppliers without CNIC never conflict")
	assert.Equal(t, "SUP-002", s2.SupplierID)
}

func TestCustomerRegistry_ConcurrentCreateAndUpdate(t *testing.T) {
	reg, n := newCustomers(t, appshared.WithGuard(sequence.NewLocalGuard()))
	ctx := context.Background()
	n.On("Notify", mock.Anything, mock.Anything)

	_, err := reg.Create(ctx, customerReq("Bilal Ahmed", "3520212345671"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := reg.Create(ctx, customerReq("Walk-in", fmt.Sprintf("35201%07d3", i)))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := reg.Update(ctx, "CUS-001", customerReq("Bilal Ahmed Khan", "3520212345671"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	page := reg.List(ctx, appshared.ListQuery{PageSize: 50})
	assert.Equal(t, int64(11), page.Total)
	c, err := reg.GetByID(ctx, "CUS-001")
	require.NoError(t, err)
	assert.Equal(t, "Bilal Ahmed Khan", c.Name)
}
