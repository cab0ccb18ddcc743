package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/subhlabh/billing/internal/catalog"
	"github.com/subhlabh/billing/internal/config"
	"github.com/subhlabh/billing/internal/repository"
	"github.com/subhlabh/billing/internal/repository/postgres"
)

type catalogService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repos *repository.Repositories, logger *zap.Logger) *catalogService {
	return &catalogService{
		repos:  repos,
		logger: logger,
	}
}

// LoadSnapshot reads active products, customers and the offers running at the given time
func (s *catalogService) LoadSnapshot(ctx context.Context, ownerID int64, at time.Time) (catalog.Snapshot, error) {
	products, err := s.repos.Catalog.ListActiveProducts(ctx, ownerID)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("failed to load products: %w", err)
	}

	customers, err := s.repos.Catalog.ListCustomers(ctx, ownerID)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("failed to load customers: %w", err)
	}

	offers, err := s.repos.Catalog.ListRunningOffers(ctx, ownerID, at)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("failed to load offers: %w", err)
	}

	s.logger.Info("Catalog loaded",
		zap.Int64("owner_id", ownerID),
		zap.Int("products", len(products)),
		zap.Int("customers", len(customers)),
		zap.Int("offers", len(offers)),
	)

	return catalog.Snapshot{
		Products:  products,
		Customers: customers,
		Offers:    offers,
	}, nil
}

// LoadSnapshotFile reads a snapshot exported from the back-office billing page
func LoadSnapshotFile(path string) (catalog.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	return catalog.DecodeSnapshot(f)
}

// LoadConfiguredSnapshot loads the snapshot from the configured catalog source
func LoadConfiguredSnapshot(ctx context.Context, cfg *config.Config, logger *zap.Logger) (catalog.Snapshot, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceFile:
		logger.Info("Loading catalog from file", zap.String("path", cfg.Catalog.File))
		return LoadSnapshotFile(cfg.Catalog.File)
	default:
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			return catalog.Snapshot{}, err
		}
		defer db.Close()

		repos := postgres.NewRepositories(db, logger)
		return NewCatalogService(repos, logger).LoadSnapshot(ctx, cfg.Catalog.OwnerID, time.Now())
	}
}
