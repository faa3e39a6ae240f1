// Package partner runs the customer, guarantor and supplier registries.
package partner

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	appshared "github.com/erp/pos/internal/application/shared"
	"github.com/erp/pos/internal/domain/partner"
	"github.com/erp/pos/internal/domain/sequence"
	"github.com/erp/pos/internal/domain/shared"
)

// Registry is a CRUD page over one collection of contacts. R is the form
// submitted to create or update a record.
type Registry[T shared.Record, R any] struct {
	store    shared.RecordStore[T]
	notifier shared.Notifier
	opts     appshared.Options
	lister   appshared.Lister[T]
	kind     registryKind[T, R]
}

type registryKind[T shared.Record, R any] struct {
	label  string
	key    string
	family sequence.Family
	create func(id string, req R, now time.Time) (*T, error)
	update func(rec *T, req R, now time.Time) error
	cnic   func(T) string
}

// CustomerRegistry is the customers page
type CustomerRegistry = Registry[partner.Customer, CustomerRequest]

// GuarantorRegistry is the guarantors page
type GuarantorRegistry = Registry[partner.Guarantor, GuarantorRequest]

// SupplierRegistry is the suppliers page
type SupplierRegistry = Registry[partner.Supplier, SupplierRequest]

// NewCustomerRegistry creates the customers page over all_customers_data
func NewCustomerRegistry(store shared.RecordStore[partner.Customer], notifier shared.Notifier, opts ...appshared.Option) *CustomerRegistry {
	return newRegistry(store, notifier, registryKind[partner.Customer, CustomerRequest]{
		label:  "Customer",
		key:    shared.KeyCustomers,
		family: sequence.Customer,
		create: func(id string, r CustomerRequest, now time.Time) (*partner.Customer, error) {
			return partner.NewCustomer(id, r.details(), now)
		},
		update: func(c *partner.Customer, r CustomerRequest, now time.Time) error {
			return c.Update(r.details(), now)
		},
		cnic: func(c partner.Customer) string { return c.CNIC },
	}, contactSearch(func(c partner.Customer) (string, partner.Contact, time.Time) {
		return c.CustomerID, c.Contact, c.CreatedAt
	}, func(c partner.Customer) []string { return []string{c.FatherName, c.Occupation} }), opts)
}

// NewGuarantorRegistry creates the guarantors page over all_guarantors_data
func NewGuarantorRegistry(store shared.RecordStore[partner.Guarantor], notifier shared.Notifier, opts ...appshared.Option) *GuarantorRegistry {
	return newRegistry(store, notifier, registryKind[partner.Guarantor, GuarantorRequest]{
		label:  "Guarantor",
		key:    shared.KeyGuarantors,
		family: sequence.Guarantor,
		create: func(id string, r GuarantorRequest, now time.Time) (*partner.Guarantor, error) {
			return partner.NewGuarantor(id, r.details(), now)
		},
		update: func(g *partner.Guarantor, r GuarantorRequest, now time.Time) error {
			return g.Update(r.details(), now)
		},
		cnic: func(g partner.Guarantor) string { return g.CNIC },
	}, contactSearch(func(g partner.Guarantor) (string, partner.Contact, time.Time) {
		return g.GuarantorID, g.Contact, g.CreatedAt
	}, func(g partner.Guarantor) []string { return []string{g.FatherName, g.Relation} }), opts)
}

// NewSupplierRegistry creates the suppliers page over all_suppliers_data
func NewSupplierRegistry(store shared.RecordStore[partner.Supplier], notifier shared.Notifier, opts ...appshared.Option) *SupplierRegistry {
	return newRegistry(store, notifier, registryKind[partner.Supplier, SupplierRequest]{
		label:  "Supplier",
		key:    shared.KeySuppliers,
		family: sequence.Supplier,
		create: func(id string, r SupplierRequest, now time.Time) (*partner.Supplier, error) {
			return partner.NewSupplier(id, r.details(), now)
		},
		update: func(s *partner.Supplier, r SupplierRequest, now time.Time) error {
			return s.Update(r.details(), now)
		},
		cnic: func(s partner.Supplier) string { return s.CNIC },
	}, contactSearch(func(s partner.Supplier) (string, partner.Contact, time.Time) {
		return s.SupplierID, s.Contact, s.CreatedAt
	}, func(s partner.Supplier) []string { return []string{s.Company, s.Email} }), opts)
}

func newRegistry[T shared.Record, R any](store shared.RecordStore[T], notifier shared.Notifier, kind registryKind[T, R], lister appshared.Lister[T], opts []appshared.Option) *Registry[T, R] {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	return &Registry[T, R]{
		store:    store,
		notifier: notifier,
		opts:     appshared.BuildOptions(opts...),
		lister:   lister,
		kind:     kind,
	}
}

// List returns a page of records
func (r *Registry[T, R]) List(ctx context.Context, q appshared.ListQuery) shared.Paginated[T] {
	return r.lister.List(r.store.Load(ctx, r.kind.key), q)
}

// GetByID returns one record
func (r *Registry[T, R]) GetByID(ctx context.Context, id string) (*T, error) {
	items := r.store.Load(ctx, r.kind.key)
	i, err := r.find(items, id)
	if err != nil {
		return nil, err
	}
	return &items[i], nil
}

// Create adds a record under the next identifier of the registry
func (r *Registry[T, R]) Create(ctx context.Context, req R) (*T, error) {
	var created *T
	err := r.opts.Guard.Do(ctx, r.kind.key, func(ctx context.Context) error {
		items, err := r.store.LoadStrict(ctx, r.kind.key)
		if err != nil {
			return err
		}
		rec, err := r.kind.create(r.kind.family.Next(recordIDs(items)), req, r.opts.Now())
		if err != nil {
			return err
		}
		if err := r.checkUniqueCNIC(items, *rec); err != nil {
			return err
		}
		if err := r.store.Save(ctx, r.kind.key, append(items, *rec)); err != nil {
			return err
		}
		created = rec
		return nil
	})
	if err := appshared.Outcome(ctx, r.notifier, err, ""); err != nil {
		return nil, err
	}
	r.notifier.Notify(ctx, shared.Notification{
		Kind:    shared.NotifySuccess,
		Message: fmt.Sprintf("%s %s added", r.kind.label, (*created).RecordID()),
	})
	return created, nil
}

// Update replaces the editable fields of a record
func (r *Registry[T, R]) Update(ctx context.Context, id string, req R) (*T, error) {
	var updated *T
	err := r.opts.Guard.Do(ctx, r.kind.key, func(ctx context.Context) error {
		items, err := r.store.LoadStrict(ctx, r.kind.key)
		if err != nil {
			return err
		}
		i, err := r.find(items, id)
		if err != nil {
			return err
		}
		if err := r.kind.update(&items[i], req, r.opts.Now()); err != nil {
			return err
		}
		if err := r.checkUniqueCNIC(items, items[i]); err != nil {
			return err
		}
		if err := r.store.Save(ctx, r.kind.key, items); err != nil {
			return err
		}
		updated = &items[i]
		return nil
	})
	if err := appshared.Outcome(ctx, r.notifier, err, r.kind.label+" updated"); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a record
func (r *Registry[T, R]) Delete(ctx context.Context, id string) error {
	err := r.opts.Guard.Do(ctx, r.kind.key, func(ctx context.Context) error {
		items, err := r.store.LoadStrict(ctx, r.kind.key)
		if err != nil {
			return err
		}
		i, err := r.find(items, id)
		if err != nil {
			return err
		}
		return r.store.Save(ctx, r.kind.key, slices.Delete(items, i, i+1))
	})
	return appshared.Outcome(ctx, r.notifier, err, r.kind.label+" deleted")
}

func (r *Registry[T, R]) find(items []T, id string) (int, error) {
	for i := range items {
		if items[i].RecordID() == id {
			return i, nil
		}
	}
	return -1, shared.NewNotFoundError(r.kind.label, id)
}

// checkUniqueCNIC rejects rec when another record already holds its CNIC
func (r *Registry[T, R]) checkUniqueCNIC(items []T, rec T) error {
	cnic := r.kind.cnic(rec)
	if cnic == "" {
		return nil
	}
	for _, other := range items {
		if other.RecordID() != rec.RecordID() && r.kind.cnic(other) == cnic {
			return shared.NewConflictError("DUPLICATE_CNIC",
				fmt.Sprintf("%s %s already has CNIC %s", r.kind.label, other.RecordID(), cnic))
		}
	}
	return nil
}

func recordIDs[T shared.Record](items []T) []string {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].RecordID()
	}
	return ids
}

func contactSearch[T shared.Record](fields func(T) (string, partner.Contact, time.Time), extra func(T) []string) appshared.Lister[T] {
	return appshared.Lister[T]{
		Text: func(v T) []string {
			id, c, _ := fields(v)
			return append([]string{id, c.Name, c.CNIC, c.Phone, c.Address}, extra(v)...)
		},
		Sorts: map[string]appshared.Compare[T]{
			"id": func(a, b T) int { return strings.Compare(a.RecordID(), b.RecordID()) },
			"name": func(a, b T) int {
				_, ca, _ := fields(a)
				_, cb, _ := fields(b)
				return strings.Compare(strings.ToLower(ca.Name), strings.ToLower(cb.Name))
			},
			"createdAt": func(a, b T) int {
				_, _, ta := fields(a)
				_, _, tb := fields(b)
				return ta.Compare(tb)
			},
		},
		DefaultSort: "createdAt",
	}
}

func (r CustomerRequest) details() partner.CustomerDetails {
	return partner.CustomerDetails{Contact: r.contact(), FatherName: r.FatherName, Occupation: r.Occupation}
}

func (r GuarantorRequest) details() partner.GuarantorDetails {
	return partner.GuarantorDetails{Contact: r.contact(), FatherName: r.FatherName, Relation: r.Relation}
}

func (r SupplierRequest) details() partner.SupplierDetails {
	return partner.SupplierDetails{Contact: r.contact(), Company: r.Company, Email: r.Email}
}
