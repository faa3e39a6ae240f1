package shared

import "context"

// Record store keys. Each key holds a JSON array of records, except
// KeyLastProductID which holds a bare integer.
const (
	KeyProducts           = "products"
	KeyPurchaseHistory    = "purchaseHistory"
	KeySalesHistory       = "salesHistory"
	KeyInstallmentHistory = "installmentHistory"
	KeyCustomers          = "all_customers_data"
	KeyGuarantors         = "all_guarantors_data"
	KeySuppliers          = "all_suppliers_data"
	KeyAdmins             = "manage_admins_data"
	KeyUsers              = "manage_users_data"
	KeyLastProductID      = "lastProductId"
)

// KeyValueStore is the persistence contract every backend implements:
// get/set/remove of an opaque JSON document by string key. It offers no
// transactions and no optimistic concurrency tokens.
type KeyValueStore interface {
	// Get returns the raw value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// RecordStore loads and saves a typed collection under a key.
// Load never fails: unreadable data is logged and treated as an empty
// collection, which suits read-only pages. Read-then-save sequences use
// LoadStrict so a failed read is never written back as an empty array.
type RecordStore[T any] interface {
	Load(ctx context.Context, key string) []T
	LoadStrict(ctx context.Context, key string) ([]T, error)
	Save(ctx context.Context, key string, items []T) error
}

// Counter is a bare integer persisted under a key
type Counter interface {
	Current(ctx context.Context, key string) (int, bool)
	Store(ctx context.Context, key string, value int) error
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Record is anything persisted in a keyed collection
type Record interface {
	RecordID() string
}
