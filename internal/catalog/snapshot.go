package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/subhlabh/billing/internal/domain"
)

// Snapshot is the catalog data handed to a billing session at start
type Snapshot struct {
	Products  []domain.CatalogProduct
	Customers []domain.CatalogCustomer
	Offers    []domain.CatalogOffer
}

// snapshotJSON mirrors the back-office billing page payload. Decimals arrive as strings.
type snapshotJSON struct {
	Products  []productJSON  `json:"products"`
	Customers []customerJSON `json:"customers"`
	Offers    []offerJSON    `json:"offers"`
}

type productJSON struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Unit          string          `json:"unit"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
	ProductType   string          `json:"product_type"`
}

type customerJSON struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Phone        string              `json:"phone"`
	Address      string              `json:"address"`
	UdharAmount  decimal.NullDecimal `json:"udhar_amount"`
	CreditAmount decimal.NullDecimal `json:"credit_amount"`
}

type offerJSON struct {
	ID                int64               `json:"id"`
	Name              string              `json:"name"`
	Type              string              `json:"type"`
	DiscountValue     decimal.Decimal     `json:"discount_value"`
	MinPurchaseAmount decimal.Decimal     `json:"min_purchase_amount"`
	MaxDiscountAmount decimal.NullDecimal `json:"max_discount_amount"`
	BuyQuantity       int                 `json:"buy_quantity"`
	GetQuantity       int                 `json:"get_quantity"`
}

// DecodeSnapshot reads a catalog snapshot in the back-office JSON format
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var raw snapshotJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode catalog snapshot: %w", err)
	}

	snap := Snapshot{
		Products:  make([]domain.CatalogProduct, 0, len(raw.Products)),
		Customers: make([]domain.CatalogCustomer, 0, len(raw.Customers)),
		Offers:    make([]domain.CatalogOffer, 0, len(raw.Offers)),
	}

	for _, p := range raw.Products {
		kind := domain.ProductKind(p.ProductType)
		if !kind.IsValid() {
			kind = domain.ProductKindProduct
		}
		snap.Products = append(snap.Products, domain.CatalogProduct{
			ID:            p.ID,
			Name:          p.Name,
			Price:         p.Price,
			Kind:          kind,
			Unit:          p.Unit,
			StockQuantity: p.StockQuantity,
			IsActive:      p.IsActive,
		})
	}

	for _, c := range raw.Customers {
		credit := c.UdharAmount
		if !credit.Valid {
			credit = c.CreditAmount
		}
		snap.Customers = append(snap.Customers, domain.CatalogCustomer{
			ID:      c.ID,
			Name:    c.Name,
			Phone:   c.Phone,
			Address: c.Address,
			Credit:  credit.Decimal,
		})
	}

	for _, o := range raw.Offers {
		offerType := domain.OfferType(o.Type)
		if !offerType.IsValid() {
			return Snapshot{}, fmt.Errorf("offer %d has unknown type %q", o.ID, o.Type)
		}
		snap.Offers = append(snap.Offers, domain.CatalogOffer{
			ID:                o.ID,
			Name:              o.Name,
			Type:              offerType,
			DiscountValue:     o.DiscountValue,
			MinPurchaseAmount: o.MinPurchaseAmount,
			MaxDiscountAmount: o.MaxDiscountAmount,
			BuyQuantity:       o.BuyQuantity,
			GetQuantity:       o.GetQuantity,
		})
	}

	return snap, nil
}
