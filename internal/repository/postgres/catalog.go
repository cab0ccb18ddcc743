package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/subhlabh/billing/internal/domain"
)

type catalogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCatalogRepository creates a new catalog repository over the back-office tables
func NewCatalogRepository(db *sql.DB, logger *zap.Logger) *catalogRepository {
	return &catalogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *catalogRepository) ListActiveProducts(ctx context.Context, ownerID int64) ([]domain.CatalogProduct, error) {
	query := `
		SELECT id, name, product_type, price, unit, stock_quantity, is_active
		FROM customers_product
		WHERE user_id = $1 AND is_active = true
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		r.logger.Error("Failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []domain.CatalogProduct
	for rows.Next() {
		var p domain.CatalogProduct
		var kind string
		var unit sql.NullString

		if err := rows.Scan(&p.ID, &p.Name, &kind, &p.Price, &unit, &p.StockQuantity, &p.IsActive); err != nil {
			r.logger.Error("Failed to scan product", zap.Error(err))
			return nil, err
		}

		p.Kind = domain.ProductKind(kind)
		if !p.Kind.IsValid() {
			r.logger.Warn("Unknown product type, treating as product",
				zap.Int64("product_id", p.ID), zap.String("product_type", kind))
			p.Kind = domain.ProductKindProduct
		}
		if unit.Valid {
			p.Unit = unit.String
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *catalogRepository) ListCustomers(ctx context.Context, ownerID int64) ([]domain.CatalogCustomer, error) {
	query := `
		SELECT id, name, phone, address, udhar_amount
		FROM customers_customer
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		r.logger.Error("Failed to query customers", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var customers []domain.CatalogCustomer
	for rows.Next() {
		var c domain.CatalogCustomer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Credit); err != nil {
			r.logger.Error("Failed to scan customer", zap.Error(err))
			return nil, err
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

func (r *catalogRepository) ListRunningOffers(ctx context.Context, ownerID int64, at time.Time) ([]domain.CatalogOffer, error) {
	query := `
		SELECT id, name, offer_type, discount_value, min_purchase_amount, buy_quantity, get_quantity
		FROM customers_offer
		WHERE user_id = $1 AND is_active = true AND start_date <= $2 AND end_date >= $2
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID, at)
	if err != nil {
		r.logger.Error("Failed to query offers", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var offers []domain.CatalogOffer
	for rows.Next() {
		var o domain.CatalogOffer
		var offerType string
		var value, minPurchase decimal.Decimal

		if err := rows.Scan(&o.ID, &o.Name, &offerType, &value, &minPurchase, &o.BuyQuantity, &o.GetQuantity); err != nil {
			r.logger.Error("Failed to scan offer", zap.Error(err))
			return nil, err
		}

		o.Type = domain.OfferType(offerType)
		if !o.Type.IsValid() {
			r.logger.Warn("Skipping offer with unknown type",
				zap.Int64("offer_id", o.ID), zap.String("offer_type", offerType))
			continue
		}
		o.DiscountValue = value
		o.MinPurchaseAmount = minPurchase
		offers = append(offers, o)
	}

	return offers, rows.Err()
}
