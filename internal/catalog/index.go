package catalog

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/subhlabh/billing/internal/domain"
)

// Index is a read-mostly lookup over the catalog snapshot of one billing session.
// Stock and the customer list change locally after successful back-office calls;
// those changes are display-only and never treated as the source of truth.
type Index struct {
	mu        sync.RWMutex
	products  []domain.CatalogProduct
	customers []domain.CatalogCustomer
	offers    []domain.CatalogOffer
}

// NewIndex builds an index over a copy of the snapshot
func NewIndex(snap Snapshot) *Index {
	return &Index{
		products:  append([]domain.CatalogProduct(nil), snap.Products...),
		customers: append([]domain.CatalogCustomer(nil), snap.Customers...),
		offers:    append([]domain.CatalogOffer(nil), snap.Offers...),
	}
}

// FindProduct looks up a product by id
func (x *Index) FindProduct(id int64) (domain.CatalogProduct, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	for _, p := range x.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.CatalogProduct{}, false
}

// FindCustomer looks up a customer by id
func (x *Index) FindCustomer(id int64) (domain.CatalogCustomer, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	for _, c := range x.customers {
		if c.ID == id {
			return c, true
		}
	}
	return domain.CatalogCustomer{}, false
}

// FindOffer looks up an offer by id
func (x *Index) FindOffer(id int64) (domain.CatalogOffer, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	for _, o := range x.offers {
		if o.ID == id {
			return o, true
		}
	}
	return domain.CatalogOffer{}, false
}

// Offers returns all offers in catalog order
func (x *Index) Offers() []domain.CatalogOffer {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return append([]domain.CatalogOffer(nil), x.offers...)
}

// SearchProducts returns active products whose name contains term, case-insensitively,
// in catalog order. An empty term matches nothing.
func (x *Index) SearchProducts(term string) []domain.CatalogProduct {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	var matches []domain.CatalogProduct
	for _, p := range x.products {
		if p.IsActive && strings.Contains(strings.ToLower(p.Name), term) {
			matches = append(matches, p)
		}
	}
	return matches
}

// SearchCustomers returns the walk-in entry followed by customers matching term on
// name (case-insensitive) or phone. An empty term yields the walk-in entry only.
func (x *Index) SearchCustomers(term string) []domain.CatalogCustomer {
	results := []domain.CatalogCustomer{domain.WalkInCustomer}

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return results
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	for _, c := range x.customers {
		if strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(c.Phone, term) {
			results = append(results, c)
		}
	}
	return results
}

// ApplyStockDelta decrements the cached stock of a product-kind item after a sale.
// Services and unknown ids are ignored.
func (x *Index) ApplyStockDelta(productID int64, delta decimal.Decimal) {
	x.mu.Lock()
	defer x.mu.Unlock()

	for i := range x.products {
		if x.products[i].ID != productID {
			continue
		}
		if x.products[i].Kind == domain.ProductKindProduct {
			x.products[i].StockQuantity = x.products[i].StockQuantity.Sub(delta)
		}
		return
	}
}

// AddCustomer appends a customer created during the session
func (x *Index) AddCustomer(c domain.CatalogCustomer) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.customers = append(x.customers, c)
}
