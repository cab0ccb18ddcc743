package repository

import (
	"context"
	"time"

	"github.com/subhlabh/billing/internal/domain"
)

// CatalogRepository reads the sellable catalog of a shop owner
type CatalogRepository interface {
	ListActiveProducts(ctx context.Context, ownerID int64) ([]domain.CatalogProduct, error)
	ListCustomers(ctx context.Context, ownerID int64) ([]domain.CatalogCustomer, error)
	ListRunningOffers(ctx context.Context, ownerID int64, at time.Time) ([]domain.CatalogOffer, error)
}

// Repositories groups the data access used by the billing counter
type Repositories struct {
	Catalog CatalogRepository
}
