package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/subhlabh/billing/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Result is the derived pricing of a cart. Values are unrounded; round at display.
type Result struct {
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	GrandTotal decimal.Decimal
	// Offer is the offer that produced Discount, nil when none applied.
	Offer *domain.CatalogOffer
	// Demoted is set when the selected offer no longer meets its minimum purchase
	// and must be cleared by the owner of the selection.
	Demoted bool
}

// OfferOption is an offer presentable in the selector
type OfferOption struct {
	ID    int64
	Label string
}

// Subtotal sums price × quantity over the lines
func Subtotal(lines []domain.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total
}

// Calculate prices the lines with the selected offer (nil for none)
func Calculate(lines []domain.LineItem, offer *domain.CatalogOffer) Result {
	subtotal := Subtotal(lines)
	res := Result{
		Subtotal:   subtotal,
		Discount:   decimal.Zero,
		GrandTotal: subtotal,
	}

	if offer == nil {
		return res
	}
	if !IsEligible(subtotal, *offer) {
		res.Demoted = true
		return res
	}

	discount := Discount(subtotal, *offer)
	res.Discount = discount
	res.GrandTotal = decimal.Max(decimal.Zero, subtotal.Sub(discount))
	res.Offer = offer
	return res
}

// Discount computes the offer's discount for an eligible subtotal
func Discount(subtotal decimal.Decimal, offer domain.CatalogOffer) decimal.Decimal {
	value := offer.DiscountValue
	if value.IsNegative() {
		return decimal.Zero
	}

	switch offer.Type {
	case domain.OfferTypePercentage:
		discount := subtotal.Mul(value).Div(hundred)
		if offer.MaxDiscountAmount.Valid && discount.GreaterThan(offer.MaxDiscountAmount.Decimal) {
			discount = offer.MaxDiscountAmount.Decimal
		}
		return discount
	case domain.OfferTypeFlat:
		return value
	case domain.OfferTypeBOGO:
		// Label only: no free item is injected, a declared value is taken as-is.
		return value
	default:
		return decimal.Zero
	}
}

// IsEligible reports whether subtotal meets the offer's minimum purchase
func IsEligible(subtotal decimal.Decimal, offer domain.CatalogOffer) bool {
	return subtotal.GreaterThanOrEqual(offer.MinPurchaseAmount)
}

// Eligible filters offers down to those presentable at subtotal, keeping order
func Eligible(subtotal decimal.Decimal, offers []domain.CatalogOffer) []OfferOption {
	options := make([]OfferOption, 0, len(offers))
	for _, o := range offers {
		if IsEligible(subtotal, o) {
			options = append(options, OfferOption{ID: o.ID, Label: Label(o)})
		}
	}
	return options
}

// Label formats an offer for the selector
func Label(offer domain.CatalogOffer) string {
	switch offer.Type {
	case domain.OfferTypePercentage:
		return fmt.Sprintf("%s (%s%% off)", offer.Name, offer.DiscountValue.String())
	case domain.OfferTypeFlat:
		return fmt.Sprintf("%s (₹%s off)", offer.Name, offer.DiscountValue.String())
	case domain.OfferTypeBOGO:
		return fmt.Sprintf("%s (Buy %d Get %d)", offer.Name, offer.BuyQuantity, offer.GetQuantity)
	default:
		return offer.Name
	}
}
