package domain

// ProductKind distinguishes stocked goods from services in the catalog
type ProductKind string

const (
	ProductKindProduct ProductKind = "product"
	ProductKindService ProductKind = "service"
)

// IsValid checks if the product kind is valid
func (k ProductKind) IsValid() bool {
	switch k {
	case ProductKindProduct, ProductKindService:
		return true
	default:
		return false
	}
}

// OfferType is the discount rule an offer applies
type OfferType string

const (
	OfferTypePercentage OfferType = "percentage"
	OfferTypeFlat       OfferType = "flat"
	OfferTypeBOGO       OfferType = "bogo"
)

// IsValid checks if the offer type is valid
func (t OfferType) IsValid() bool {
	switch t {
	case OfferTypePercentage, OfferTypeFlat, OfferTypeBOGO:
		return true
	default:
		return false
	}
}

// PaymentMethod represents how a sale is settled at the counter
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodCredit PaymentMethod = "credit"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodCard, PaymentMethodCredit:
		return true
	default:
		return false
	}
}

// IsPaid reports whether a sale settled with this method is paid up front.
// Credit sales are added to the customer's outstanding balance instead.
func (m PaymentMethod) IsPaid() bool {
	return m != PaymentMethodCredit
}

// LineItemKind is the closed set of cart line variants
type LineItemKind string

const (
	LineItemCatalogProduct LineItemKind = "catalog-product"
	LineItemCatalogService LineItemKind = "catalog-service"
	LineItemCustom         LineItemKind = "custom"
)

// IsValid checks if the line item kind is valid
func (k LineItemKind) IsValid() bool {
	switch k {
	case LineItemCatalogProduct, LineItemCatalogService, LineItemCustom:
		return true
	default:
		return false
	}
}

// StockLimited reports whether lines of this kind are capped by a stock ceiling
func (k LineItemKind) StockLimited() bool {
	switch k {
	case LineItemCatalogProduct:
		return true
	default:
		return false
	}
}

// WholeQuantities reports whether lines of this kind step in whole units
func (k LineItemKind) WholeQuantities() bool {
	switch k {
	case LineItemCatalogService:
		return true
	default:
		return false
	}
}

// FromCatalog reports whether lines of this kind reference a catalog product
func (k LineItemKind) FromCatalog() bool {
	switch k {
	case LineItemCatalogProduct, LineItemCatalogService:
		return true
	default:
		return false
	}
}

// LineKindFor maps a catalog product kind onto the cart line kind
func LineKindFor(kind ProductKind) LineItemKind {
	switch kind {
	case ProductKindService:
		return LineItemCatalogService
	default:
		return LineItemCatalogProduct
	}
}
