// Package inventory runs the products and stock pages.
package inventory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	appshared "github.com/erp/pos/internal/application/shared"
	"github.com/erp/pos/internal/domain/inventory"
	"github.com/erp/pos/internal/domain/sequence"
	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var productLister = appshared.Lister[inventory.Product]{
	Text: func(p inventory.Product) []string {
		return []string{p.ProductID, p.Name, p.Model, p.Category, p.Company, p.Supplier}
	},
	Sorts: map[string]appshared.Compare[inventory.Product]{
		"productId": func(a, b inventory.Product) int { return strings.Compare(a.ProductID, b.ProductID) },
		"name":      func(a, b inventory.Product) int { return strings.Compare(a.Name, b.Name) },
		"quantity":  func(a, b inventory.Product) int { return cmp.Compare(a.Quantity, b.Quantity) },
		"value":     func(a, b inventory.Product) int { return a.Value.Decimal().Cmp(b.Value.Decimal()) },
		"createdAt": func(a, b inventory.Product) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
	DefaultSort: "createdAt",
}

var purchaseLister = appshared.Lister[inventory.StockAddition]{
	Text: func(a inventory.StockAddition) []string {
		return []string{a.InvoiceID, a.ProductID, a.ProductName, a.Supplier}
	},
	Sorts: map[string]appshared.Compare[inventory.StockAddition]{
		"invoiceId": func(a, b inventory.StockAddition) int { return strings.Compare(a.InvoiceID, b.InvoiceID) },
		"timestamp": func(a, b inventory.StockAddition) int { return a.Timestamp.Compare(b.Timestamp) },
		"value": func(a, b inventory.StockAddition) int {
			return a.PurchaseValue.Decimal().Cmp(b.PurchaseValue.Decimal())
		},
	},
	DefaultSort: "timestamp",
}

// ProductService handles the products page and stock additions
type ProductService struct {
	products  shared.RecordStore[inventory.Product]
	purchases shared.RecordStore[inventory.StockAddition]
	counter   shared.Counter
	notifier  shared.Notifier
	opts      appshared.Options
}

// NewProductService creates a new ProductService
func NewProductService(
	products shared.RecordStore[inventory.Product],
	purchases shared.RecordStore[inventory.StockAddition],
	counter shared.Counter,
	notifier shared.Notifier,
	opts ...appshared.Option,
) *ProductService {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	return &ProductService{
		products:  products,
		purchases: purchases,
		counter:   counter,
		notifier:  notifier,
		opts:      appshared.BuildOptions(opts...),
	}
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, q appshared.ListQuery) shared.Paginated[inventory.Product] {
	return productLister.List(s.products.Load(ctx, shared.KeyProducts), q)
}

// GetByID returns a product
func (s *ProductService) GetByID(ctx context.Context, productID string) (*inventory.Product, error) {
	products := s.products.Load(ctx, shared.KeyProducts)
	i, err := inventory.FindProduct(products, productID)
	if err != nil {
		return nil, err
	}
	return &products[i], nil
}

// Create adds a product with the next P- identifier
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*inventory.Product, error) {
	var created *inventory.Product
	err := s.opts.Guard.Do(ctx, shared.KeyProducts, func(ctx context.Context) error {
		products, err := s.products.LoadStrict(ctx, shared.KeyProducts)
		if err != nil {
			return err
		}
		id, n := s.nextProductID(ctx, products)

		product, err := inventory.NewProduct(id, inventory.ProductDetails{
			Name:            req.Name,
			Model:           req.Model,
			Category:        req.Category,
			Company:         req.Company,
			Supplier:        req.Supplier,
			SupplierContact: req.SupplierContact,
		}, req.Quantity, req.Price, s.opts.Now())
		if err != nil {
			return err
		}

		if err := s.products.Save(ctx, shared.KeyProducts, append(products, *product)); err != nil {
			return err
		}
		if err := s.counter.Store(ctx, shared.KeyLastProductID, n); err != nil {
			// The product is saved; the next create reseeds from the products.
			logger.FromContext(ctx).Warn("failed to advance product counter", zap.Int("value", n), zap.Error(err))
		}
		created = product
		return nil
	})
	if err := appshared.Outcome(ctx, s.notifier, err, ""); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, shared.Notification{
		Kind:    shared.NotifySuccess,
		Message: fmt.Sprintf("Product %s added", created.ProductID),
	})
	return created, nil
}

// nextProductID allocates from lastProductId, reseeding it from the stored
// products when it is missing or behind them.
func (s *ProductService) nextProductID(ctx context.Context, products []inventory.Product) (string, int) {
	last, ok := s.counter.Current(ctx, shared.KeyLastProductID)
	scanned, _ := sequence.Product.Max(inventory.ProductIDs(products))
	if !ok || last < scanned {
		if ok {
			logger.FromContext(ctx).Warn("product counter behind stored products, reseeding",
				zap.Int("counter", last), zap.Int("scanned", scanned))
		}
		last = scanned
	}
	n := last + 1
	return sequence.Product.Format(n), n
}

// Update edits the descriptive fields of a product. Stock and value are not
// editable here.
func (s *ProductService) Update(ctx context.Context, productID string, req UpdateProductRequest) (*inventory.Product, error) {
	var updated *inventory.Product
	err := s.opts.Guard.Do(ctx, shared.KeyProducts, func(ctx context.Context) error {
		products, err := s.products.LoadStrict(ctx, shared.KeyProducts)
		if err != nil {
			return err
		}
		i, err := inventory.FindProduct(products, productID)
		if err != nil {
			return err
		}
		if err := products[i].UpdateDetails(inventory.ProductDetails{
			Name:            req.Name,
			Model:           req.Model,
			Category:        req.Category,
			Company:         req.Company,
			Supplier:        req.Supplier,
			SupplierContact: req.SupplierContact,
		}, s.opts.Now()); err != nil {
			return err
		}
		if err := s.products.Save(ctx, shared.KeyProducts, products); err != nil {
			return err
		}
		updated = &products[i]
		return nil
	})
	if err := appshared.Outcome(ctx, s.notifier, err, "Product updated"); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a product. Its purchase and sales history stays.
func (s *ProductService) Delete(ctx context.Context, productID string) error {
	err := s.opts.Guard.Do(ctx, shared.KeyProducts, func(ctx context.Context) error {
		products, err := s.products.LoadStrict(ctx, shared.KeyProducts)
		if err != nil {
			return err
		}
		i, err := inventory.FindProduct(products, productID)
		if err != nil {
			return err
		}
		return s.products.Save(ctx, shared.KeyProducts, slices.Delete(products, i, i+1))
	})
	return appshared.Outcome(ctx, s.notifier, err, "Product deleted")
}

// AddStock receives a lot into a product, records it in the purchase
// history under the next Inv- identifier and revalues the product. Both
// collections are saved or neither is.
func (s *ProductService) AddStock(ctx context.Context, req AddStockRequest) (*inventory.StockAddition, error) {
	var addition *inventory.StockAddition
	keys := []string{shared.KeyProducts, shared.KeyPurchaseHistory}
	err := sequence.DoAll(ctx, s.opts.Guard, keys, func(ctx context.Context) error {
		products, err := s.products.LoadStrict(ctx, shared.KeyProducts)
		if err != nil {
			return err
		}
		i, err := inventory.FindProduct(products, req.ProductID)
		if err != nil {
			return err
		}
		history, err := s.purchases.LoadStrict(ctx, shared.KeyPurchaseHistory)
		if err != nil {
			return err
		}
		invoiceID := sequence.PurchaseInvoice.Next(inventory.InvoiceIDs(history))

		loaded := slices.Clone(products)
		a, err := inventory.ReceiveStock(invoiceID, &products[i], req.Quantity, req.UnitPrice, s.opts.Now())
		if err != nil {
			return err
		}

		var w appshared.Writes
		appshared.Stage(&w, s.purchases, shared.KeyPurchaseHistory, history, append(slices.Clone(history), *a))
		appshared.Stage(&w, s.products, shared.KeyProducts, loaded, products)
		if err := w.Commit(ctx); err != nil {
			return err
		}
		addition = a
		return nil
	})
	if err := appshared.Outcome(ctx, s.notifier, err, ""); err != nil {
		return nil, err
	}
	s.opts.Metrics.RecordStockAddition(ctx, addition.AdditionalQuantity, addition.PurchaseValue)
	s.notifier.Notify(ctx, shared.Notification{
		Kind: shared.NotifySuccess,
		Message: fmt.Sprintf("Added %d units to %s (invoice %s)",
			addition.AdditionalQuantity, addition.ProductName, addition.InvoiceID),
	})
	return addition, nil
}

// PurchaseHistory returns a page of stock additions
func (s *ProductService) PurchaseHistory(ctx context.Context, q appshared.ListQuery) shared.Paginated[inventory.StockAddition] {
	return purchaseLister.List(s.purchases.Load(ctx, shared.KeyPurchaseHistory), q)
}

// GetPurchase returns one stock addition by invoice
func (s *ProductService) GetPurchase(ctx context.Context, invoiceID string) (*inventory.StockAddition, error) {
	for _, a := range s.purchases.Load(ctx, shared.KeyPurchaseHistory) {
		if a.InvoiceID == invoiceID {
			return &a, nil
		}
	}
	return nil, shared.NewNotFoundError("Purchase invoice", invoiceID)
}
