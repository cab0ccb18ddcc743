package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogProduct is a sellable product or service from the session snapshot
type CatalogProduct struct {
	ID            int64
	Name          string
	Price         decimal.Decimal
	Kind          ProductKind
	Unit          string
	StockQuantity decimal.Decimal
	IsActive      bool
}

// IsService reports whether the product is a service (no stock)
func (p CatalogProduct) IsService() bool {
	return p.Kind == ProductKindService
}

// CatalogCustomer is a known customer. ID 0 is the walk-in pseudo-customer.
type CatalogCustomer struct {
	ID      int64
	Name    string
	Phone   string
	Address string
	Credit  decimal.Decimal
}

// WalkInCustomer represents an anonymous, no-credit sale
var WalkInCustomer = CatalogCustomer{Name: "Walk-in Customer"}

// IsWalkIn reports whether the customer is the walk-in pseudo-entry
func (c CatalogCustomer) IsWalkIn() bool {
	return c.ID == 0
}

// CatalogOffer is a discount rule applicable to the cart subtotal
type CatalogOffer struct {
	ID                int64
	Name              string
	Type              OfferType
	DiscountValue     decimal.Decimal
	MinPurchaseAmount decimal.Decimal
	MaxDiscountAmount decimal.NullDecimal // percentage only
	BuyQuantity       int
	GetQuantity       int
}

// LineItem is one row of the cart
type LineItem struct {
	ID           string
	Kind         LineItemKind
	ProductID    int64 // zero for custom lines
	Name         string
	Description  string
	Price        decimal.Decimal
	Quantity     decimal.Decimal
	Unit         string
	StockCeiling decimal.Decimal // catalog products only
}

// Total returns price × quantity
func (l LineItem) Total() decimal.Decimal {
	return l.Price.Mul(l.Quantity)
}

// Sale is a sale confirmed by the back office
type Sale struct {
	ID            int64
	TotalAmount   decimal.Decimal
	Discount      decimal.Decimal
	OfferID       int64
	Customer      *CatalogCustomer
	PaymentMethod PaymentMethod
	IsPaid        bool
	Notes         string
	Lines         []LineItem
	ConfirmedAt   time.Time
}
