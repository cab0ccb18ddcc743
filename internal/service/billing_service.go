package service

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/subhlabh/billing/internal/backoffice"
	"github.com/subhlabh/billing/internal/cart"
	"github.com/subhlabh/billing/internal/catalog"
	"github.com/subhlabh/billing/internal/config"
	"github.com/subhlabh/billing/internal/domain"
	"github.com/subhlabh/billing/internal/pricing"
	"github.com/subhlabh/billing/internal/receipt"
	"github.com/subhlabh/billing/pkg/errors"
)

// Backoffice is the external collaborator that records sales and customers
type Backoffice interface {
	SaveSale(ctx context.Context, req backoffice.SaleRequest) (backoffice.SaleConfirmation, error)
	CreateCustomer(ctx context.Context, req backoffice.CustomerRequest) (int64, error)
	PrintURL(saleID int64) string
}

// CartView is a point-in-time view of the cart with fresh totals
type CartView struct {
	Lines         []domain.LineItem
	Customer      *domain.CatalogCustomer
	OfferID       int64
	Offers        []pricing.OfferOption
	PaymentMethod domain.PaymentMethod
	Note          string
	Pricing       pricing.Result
	Locked        bool
	LastSale      *domain.Sale
}

// CustomItemInput is an ad hoc charge entered at the counter
type CustomItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    decimal.NullDecimal
}

// NewCustomer is a customer registered from the billing screen
type NewCustomer struct {
	Name    string
	Phone   string
	Address string
	Notes   string
	Select  bool
}

// CreatedCustomer is a customer accepted by the back office. Selected is false
// when selection was asked for but the cart was locked.
type CreatedCustomer struct {
	Customer domain.CatalogCustomer
	Selected bool
}

// SharedReceipt is a confirmed sale rendered for sharing
type SharedReceipt struct {
	Text     string
	Link     string
	PrintURL string
	HasPhone bool
}

// BillingService owns the cart and catalog of one billing counter.
// Cart mutations are serialised; save and customer creation each allow a single
// request in flight.
type BillingService struct {
	mu         sync.Mutex
	saveMu     sync.Mutex
	customerMu sync.Mutex

	cart       *cart.Store
	catalog    *catalog.Index
	backoffice Backoffice
	shop       config.ShopConfig
	logger     *zap.Logger
	now        func() time.Time

	pending  bool
	lastSale *domain.Sale
}

// NewBillingService creates a billing session over the catalog
func NewBillingService(idx *catalog.Index, bo Backoffice, shop config.ShopConfig, logger *zap.Logger) *BillingService {
	return &BillingService{
		cart:       cart.NewStore(idx),
		catalog:    idx,
		backoffice: bo,
		shop:       shop,
		logger:     logger,
		now:        time.Now,
	}
}

// AddCatalogItem adds one unit of a catalog product or service
func (s *BillingService) AddCatalogItem(productID int64) (cart.AddOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMutable(); err != nil {
		return cart.AddIgnored, err
	}

	outcome, err := s.cart.AddCatalogItem(productID)
	if err != nil {
		return outcome, err
	}
	if outcome == cart.AddIgnored {
		s.logger.Debug("Ignoring unknown or inactive product", zap.Int64("product_id", productID))
	}
	return outcome, nil
}

// AddCustomItem appends an ad hoc charge
func (s *BillingService) AddCustomItem(in CustomItemInput) (domain.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMutable(); err != nil {
		return domain.LineItem{}, err
	}
	return s.cart.AddCustomItem(in.Name, in.Description, in.Price, in.Quantity)
}

// SetQuantity changes a line's quantity
func (s *BillingService) SetQuantity(index int, qty decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMutable(); err != nil {
		return err
	}
	return s.cart.SetQuantity(index, qty)
}

// RemoveLine removes a line
func (s *BillingService) RemoveLine(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMutable(); err != nil {
		return err
	}
	return s.cart.RemoveLine(index)
}

// SelectCustomer attaches a customer, 0 for walk-in
func (s *BillingService) SelectCustomer(customerID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMutable(); err != nil {
		return false, err
	}
	return s.cart.SelectCustomer(customerID), nil
}

// SelectOffer selects an offer, 0 for none
func (s *BillingService) SelectOffer(offerID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMutable(); err != nil {
		return false, err
	}
	return s.cart.SelectOffer(offerID)
}

// SetPaymentMethod chooses how the sale is settled
func (s *BillingService) SetPaymentMethod(method domain.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMutable(); err != nil {
		return err
	}
	return s.cart.SetPaymentMethod(method)
}

// SetNote replaces the sale note
func (s *BillingService) SetNote(note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMutable(); err != nil {
		return err
	}
	s.cart.SetNote(note)
	return nil
}

// Snapshot returns the cart with freshly computed totals
func (s *BillingService) Snapshot() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.viewLocked()
}

// SearchProducts searches active catalog products by name
func (s *BillingService) SearchProducts(term string) []domain.CatalogProduct {
	return s.catalog.SearchProducts(term)
}

// SearchCustomers searches customers by name or phone, walk-in first
func (s *BillingService) SearchCustomers(term string) []domain.CatalogCustomer {
	return s.catalog.SearchCustomers(term)
}

// SaveSale validates the cart and submits it to the back office. Local state is
// untouched on failure. On success the cart stays locked until NewSale.
func (s *BillingService) SaveSale(ctx context.Context) (domain.Sale, error) {
	if !s.saveMu.TryLock() {
		return domain.Sale{}, &errors.ErrBusy{Action: "save sale"}
	}
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if s.lastSale != nil {
		s.mu.Unlock()
		return domain.Sale{}, &errors.ErrCartLocked{Reason: "sale already saved, start a new sale"}
	}
	if violations := s.cart.ValidateForSave(); len(violations) > 0 {
		s.mu.Unlock()
		return domain.Sale{}, &errors.ErrValidationFailed{Violations: violations}
	}

	view := s.viewLocked()
	req := buildSaleRequest(view)
	s.pending = true
	s.mu.Unlock()

	conf, err := s.backoffice.SaveSale(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false

	if err != nil {
		var netErr *errors.ErrNetworkFailure
		if !stderrors.As(err, &netErr) {
			err = &errors.ErrNetworkFailure{Op: "save sale", Err: err}
		}
		s.logger.Warn("Sale not saved", zap.Error(err))
		return domain.Sale{}, err
	}

	for _, line := range view.Lines {
		if line.Kind.StockLimited() {
			s.catalog.ApplyStockDelta(line.ProductID, line.Quantity)
		}
	}

	sale := domain.Sale{
		ID:            conf.SaleID,
		TotalAmount:   conf.TotalAmount,
		Discount:      view.Pricing.Discount,
		OfferID:       view.OfferID,
		Customer:      view.Customer,
		PaymentMethod: view.PaymentMethod,
		IsPaid:        view.PaymentMethod.IsPaid(),
		Notes:         view.Note,
		Lines:         view.Lines,
		ConfirmedAt:   s.now(),
	}
	s.lastSale = &sale

	s.logger.Info("Sale saved",
		zap.Int64("sale_id", sale.ID),
		zap.Int("lines", len(sale.Lines)),
		zap.String("payment_method", string(sale.PaymentMethod)),
		zap.String("total", sale.TotalAmount.StringFixed(2)),
	)

	return sale, nil
}

// NewSale discards the cart and the last confirmed sale
func (s *BillingService) NewSale() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		return &errors.ErrBusy{Action: "save sale"}
	}
	s.cart.Reset()
	s.lastSale = nil
	return nil
}

// CreateCustomer registers a customer with the back office and makes it
// selectable without reloading the catalog. Once the back office accepts the
// customer the call succeeds, even if the cart is locked and cannot select it.
func (s *BillingService) CreateCustomer(ctx context.Context, in NewCustomer) (CreatedCustomer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.Notes = strings.TrimSpace(in.Notes)

	var violations []errors.Violation
	if in.Name == "" {
		violations = append(violations, errors.Violation{Line: -1, Message: "Please enter customer name"})
	}
	if !isTenDigits(in.Phone) {
		violations = append(violations, errors.Violation{Line: -1, Message: "Please enter a valid 10-digit phone number"})
	}
	if len(violations) > 0 {
		return CreatedCustomer{}, &errors.ErrValidationFailed{Violations: violations}
	}

	if !s.customerMu.TryLock() {
		return CreatedCustomer{}, &errors.ErrBusy{Action: "create customer"}
	}
	defer s.customerMu.Unlock()

	id, err := s.backoffice.CreateCustomer(ctx, backoffice.CustomerRequest{
		Name:    in.Name,
		Phone:   in.Phone,
		Address: in.Address,
		Notes:   in.Notes,
	})
	if err != nil {
		var netErr *errors.ErrNetworkFailure
		if !stderrors.As(err, &netErr) {
			err = &errors.ErrNetworkFailure{Op: "create customer", Err: err}
		}
		return CreatedCustomer{}, err
	}

	customer := domain.CatalogCustomer{
		ID:      id,
		Name:    in.Name,
		Phone:   in.Phone,
		Address: in.Address,
		Credit:  decimal.Zero,
	}
	s.catalog.AddCustomer(customer)
	s.logger.Info("Customer created", zap.Int64("customer_id", id))

	created := CreatedCustomer{Customer: customer}
	if in.Select {
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.checkMutable(); err != nil {
			s.logger.Info("Customer created but not selected", zap.Int64("customer_id", id), zap.Error(err))
			return created, nil
		}
		created.Selected = s.cart.SelectCustomer(id)
	}

	return created, nil
}

// ShareReceipt renders the last confirmed sale and its share and print links
func (s *BillingService) ShareReceipt() (SharedReceipt, error) {
	s.mu.Lock()
	sale := s.lastSale
	s.mu.Unlock()

	if sale == nil {
		return SharedReceipt{}, errors.Invalid("No sale record found! Save the sale first.")
	}

	text := receipt.Format(receipt.Receipt{
		Shop: receipt.Shop{
			Name:    s.shop.Name,
			Address: s.shop.Address,
			Phone:   s.shop.Phone,
		},
		IssuedAt:      sale.ConfirmedAt,
		Customer:      sale.Customer,
		Lines:         sale.Lines,
		PaymentMethod: sale.PaymentMethod,
		IsPaid:        sale.IsPaid,
		GrandTotal:    sale.TotalAmount,
		Notes:         sale.Notes,
	})

	var phone string
	if sale.Customer != nil {
		phone = receipt.NormalizePhone(sale.Customer.Phone, s.shop.CountryCode)
	}

	return SharedReceipt{
		Text:     text,
		Link:     receipt.ShareLink(text, phone),
		PrintURL: s.backoffice.PrintURL(sale.ID),
		HasPhone: len(phone) >= 10,
	}, nil
}

func (s *BillingService) checkMutable() error {
	if s.pending {
		return &errors.ErrCartLocked{Reason: "save in progress"}
	}
	if s.lastSale != nil {
		return &errors.ErrCartLocked{Reason: "sale already saved, start a new sale"}
	}
	return nil
}

func (s *BillingService) viewLocked() CartView {
	res := s.cart.Pricing()

	view := CartView{
		Lines:         s.cart.Lines(),
		OfferID:       s.cart.OfferID(),
		Offers:        s.cart.PresentableOffers(),
		PaymentMethod: s.cart.PaymentMethod(),
		Note:          s.cart.Note(),
		Pricing:       res,
		Locked:        s.pending || s.lastSale != nil,
		LastSale:      s.lastSale,
	}
	if c, ok := s.cart.Customer(); ok {
		view.Customer = &c
	}
	return view
}

func buildSaleRequest(view CartView) backoffice.SaleRequest {
	req := backoffice.SaleRequest{
		PaymentMethod:  string(view.PaymentMethod),
		IsPaid:         view.PaymentMethod.IsPaid(),
		Notes:          view.Note,
		DiscountAmount: view.Pricing.Discount,
		Items:          make([]backoffice.SaleItem, 0, len(view.Lines)),
	}
	if view.Customer != nil {
		id := view.Customer.ID
		req.CustomerID = &id
	}
	if view.OfferID != 0 {
		id := view.OfferID
		req.OfferID = &id
	}

	for _, line := range view.Lines {
		switch line.Kind {
		case domain.LineItemCustom:
			req.Items = append(req.Items, backoffice.CustomSaleItem(line.Name, line.Description, line.Quantity, line.Price))
		default:
			req.Items = append(req.Items, backoffice.CatalogSaleItem(line.ProductID, line.Quantity, line.Price))
		}
	}
	return req
}

func isTenDigits(phone string) bool {
	if len(phone) != 10 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
