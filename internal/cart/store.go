package cart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/subhlabh/billing/internal/catalog"
	"github.com/subhlabh/billing/internal/domain"
	"github.com/subhlabh/billing/internal/pricing"
	"github.com/subhlabh/billing/pkg/errors"
)

// AddOutcome describes what AddCatalogItem did
type AddOutcome int

const (
	AddIgnored AddOutcome = iota
	AddAppended
	AddIncremented
)

func (o AddOutcome) String() string {
	switch o {
	case AddAppended:
		return "appended"
	case AddIncremented:
		return "incremented"
	default:
		return "ignored"
	}
}

// Store owns the in-progress cart of one sale. It is not safe for concurrent
// use; callers serialise access.
type Store struct {
	catalog *catalog.Index

	lines         []domain.LineItem
	customerID    int64
	offerID       int64
	demoted       bool
	paymentMethod domain.PaymentMethod
	note          string
}

// NewStore creates an empty cart backed by the given catalog
func NewStore(idx *catalog.Index) *Store {
	return &Store{
		catalog:       idx,
		paymentMethod: domain.PaymentMethodCash,
	}
}

// AddCatalogItem adds one unit of a catalog product. Unknown or inactive ids are ignored.
func (s *Store) AddCatalogItem(productID int64) (AddOutcome, error) {
	product, ok := s.catalog.FindProduct(productID)
	if !ok || !product.IsActive {
		return AddIgnored, nil
	}

	if i := s.indexOfProduct(productID); i >= 0 {
		existing := s.lines[i]
		qty := existing.Quantity.Add(decimal.NewFromInt(1))
		if err := checkCeiling(existing, qty); err != nil {
			return AddIgnored, err
		}
		s.lines[i].Quantity = qty
		s.recompute()
		return AddIncremented, nil
	}

	item := domain.LineItem{
		ID:        "product-" + strconv.FormatInt(product.ID, 10),
		Kind:      domain.LineKindFor(product.Kind),
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  decimal.NewFromInt(1),
	}
	if item.Kind.StockLimited() {
		item.Unit = product.Unit
		item.StockCeiling = product.StockQuantity
	}

	s.lines = append(s.lines, item)
	s.recompute()
	return AddAppended, nil
}

// AddCustomItem appends an ad hoc charge. Custom lines are never merged.
// A missing or non-positive quantity defaults to 1.
func (s *Store) AddCustomItem(name, description string, price decimal.Decimal, quantity decimal.NullDecimal) (domain.LineItem, error) {
	name = strings.TrimSpace(name)
	if name == "" || !price.IsPositive() {
		return domain.LineItem{}, errors.Invalid("custom item needs a name and a price above zero")
	}

	qty := decimal.NewFromInt(1)
	if quantity.Valid && quantity.Decimal.IsPositive() {
		qty = quantity.Decimal
	}

	item := domain.LineItem{
		ID:          "custom-" + uuid.NewString(),
		Kind:        domain.LineItemCustom,
		Name:        name,
		Description: strings.TrimSpace(description),
		Price:       price,
		Quantity:    qty,
	}
	s.lines = append(s.lines, item)
	s.recompute()
	return item, nil
}

// SetQuantity replaces the quantity of a line. On error the line is left untouched.
func (s *Store) SetQuantity(index int, qty decimal.Decimal) error {
	if index < 0 || index >= len(s.lines) {
		return lineNotFound(index)
	}
	item := s.lines[index]

	if err := checkQuantity(item, qty); err != nil {
		return err
	}

	s.lines[index].Quantity = qty
	s.recompute()
	return nil
}

// RemoveLine removes a line
func (s *Store) RemoveLine(index int) error {
	if index < 0 || index >= len(s.lines) {
		return lineNotFound(index)
	}
	s.lines = append(s.lines[:index], s.lines[index+1:]...)
	s.recompute()
	return nil
}

// SelectCustomer attaches a customer; 0 selects walk-in. Unknown ids are ignored.
func (s *Store) SelectCustomer(customerID int64) bool {
	if customerID == 0 {
		s.customerID = 0
		return true
	}
	if _, ok := s.catalog.FindCustomer(customerID); !ok {
		return false
	}
	s.customerID = customerID
	return true
}

// SelectOffer selects an offer; 0 clears it. Unknown ids are ignored and
// report false. An offer whose minimum purchase is not met is rejected.
func (s *Store) SelectOffer(offerID int64) (bool, error) {
	if offerID == 0 {
		s.offerID = 0
		s.demoted = false
		return true, nil
	}
	offer, ok := s.catalog.FindOffer(offerID)
	if !ok {
		return false, nil
	}
	if !pricing.IsEligible(pricing.Subtotal(s.lines), offer) {
		return true, errors.Invalid(fmt.Sprintf("%s needs a minimum purchase of ₹%s", offer.Name, offer.MinPurchaseAmount.StringFixed(2)))
	}
	s.offerID = offerID
	s.demoted = false
	return true, nil
}

// SetPaymentMethod records how the sale will be settled
func (s *Store) SetPaymentMethod(method domain.PaymentMethod) error {
	if !method.IsValid() {
		return errors.Invalid("unknown payment method " + strconv.Quote(string(method)))
	}
	s.paymentMethod = method
	return nil
}

// SetNote replaces the free-text note
func (s *Store) SetNote(note string) {
	s.note = note
}

// Pricing computes totals from the current lines. Demoted reports that the last
// line change cleared the selected offer.
func (s *Store) Pricing() pricing.Result {
	var offer *domain.CatalogOffer
	if s.offerID != 0 {
		if o, ok := s.catalog.FindOffer(s.offerID); ok {
			offer = &o
		} else {
			s.offerID = 0
		}
	}

	res := pricing.Calculate(s.lines, offer)
	if res.Demoted {
		s.offerID = 0
	}
	res.Demoted = res.Demoted || s.demoted
	return res
}

// PresentableOffers lists the offers eligible at the current subtotal
func (s *Store) PresentableOffers() []pricing.OfferOption {
	return pricing.Eligible(pricing.Subtotal(s.lines), s.catalog.Offers())
}

// ValidateForSave re-checks every line and the payment/customer pairing.
// A non-empty result must block the save.
func (s *Store) ValidateForSave() []errors.Violation {
	var violations []errors.Violation

	if len(s.lines) == 0 {
		violations = append(violations, errors.Violation{Line: -1, Message: "add at least one item"})
	}
	for i, item := range s.lines {
		if err := checkQuantity(item, item.Quantity); err != nil {
			violations = append(violations, errors.Violation{Line: i, Message: err.Error()})
		}
	}
	if !s.paymentMethod.IsValid() {
		violations = append(violations, errors.Violation{Line: -1, Message: "unknown payment method"})
	}
	if s.paymentMethod == domain.PaymentMethodCredit && s.customerID == 0 {
		violations = append(violations, errors.Violation{Line: -1, Message: "select a customer for credit sales"})
	}

	return violations
}

// Reset empties the cart
func (s *Store) Reset() {
	s.lines = nil
	s.customerID = 0
	s.offerID = 0
	s.demoted = false
	s.paymentMethod = domain.PaymentMethodCash
	s.note = ""
}

// Lines returns a copy of the lines in display order
func (s *Store) Lines() []domain.LineItem {
	return append([]domain.LineItem(nil), s.lines...)
}

// Customer returns the selected customer, or false for walk-in
func (s *Store) Customer() (domain.CatalogCustomer, bool) {
	if s.customerID == 0 {
		return domain.CatalogCustomer{}, false
	}
	return s.catalog.FindCustomer(s.customerID)
}

// OfferID returns the selected offer id, 0 for none
func (s *Store) OfferID() int64 {
	return s.offerID
}

// PaymentMethod returns the chosen payment method
func (s *Store) PaymentMethod() domain.PaymentMethod {
	return s.paymentMethod
}

// Note returns the free-text note
func (s *Store) Note() string {
	return s.note
}

// recompute clears the selected offer once the subtotal falls below its minimum.
// Every line change runs it so a demoted offer never comes back on its own.
func (s *Store) recompute() {
	s.demoted = false
	if s.offerID == 0 {
		return
	}
	offer, ok := s.catalog.FindOffer(s.offerID)
	if !ok || !pricing.IsEligible(pricing.Subtotal(s.lines), offer) {
		s.offerID = 0
		s.demoted = true
	}
}

func (s *Store) indexOfProduct(productID int64) int {
	for i, l := range s.lines {
		if l.Kind.FromCatalog() && l.ProductID == productID {
			return i
		}
	}
	return -1
}

func checkQuantity(item domain.LineItem, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return &errors.ErrInvalidQuantity{Value: qty.String(), Reason: "must be greater than zero"}
	}
	if item.Kind.WholeQuantities() && !qty.Equal(qty.Truncate(0)) {
		return &errors.ErrInvalidQuantity{Value: qty.String(), Reason: "services are sold in whole units"}
	}
	return checkCeiling(item, qty)
}

func checkCeiling(item domain.LineItem, qty decimal.Decimal) error {
	if item.Kind.StockLimited() && qty.GreaterThan(item.StockCeiling) {
		return &errors.ErrStockExceeded{
			Name:      item.Name,
			Requested: qty.String(),
			Available: item.StockCeiling.String(),
			Unit:      item.Unit,
		}
	}
	return nil
}

func lineNotFound(index int) error {
	return &errors.ErrNotFound{Resource: "cart line", ID: strconv.Itoa(index)}
}
