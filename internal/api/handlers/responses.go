package handlers

import (
	"time"

	"github.com/subhlabh/billing/internal/domain"
	"github.com/subhlabh/billing/internal/service"
)

// LineResponse represents one cart line. Money is fixed to two places.
type LineResponse struct {
	Index        int                 `json:"index"`
	ID           string              `json:"id"`
	Kind         domain.LineItemKind `json:"kind"`
	ProductID    *int64              `json:"product_id,omitempty"`
	Name         string              `json:"name"`
	Description  string              `json:"description,omitempty"`
	Price        string              `json:"price"`
	Quantity     string              `json:"quantity"`
	Unit         string              `json:"unit,omitempty"`
	Total        string              `json:"total"`
	StockCeiling *string             `json:"stock_ceiling,omitempty"`
}

type CustomerResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Credit  string `json:"credit"`
}

type OfferOptionResponse struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

type SaleResponse struct {
	SaleID        int64                `json:"sale_id"`
	TotalAmount   string               `json:"total_amount"`
	Discount      string               `json:"discount"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	IsPaid        bool                 `json:"is_paid"`
	ConfirmedAt   string               `json:"confirmed_at"`
}

// CartResponse represents the cart and its totals
type CartResponse struct {
	Lines         []LineResponse        `json:"lines"`
	Customer      *CustomerResponse     `json:"customer"`
	OfferID       *int64                `json:"offer_id"`
	Offers        []OfferOptionResponse `json:"offers"`
	PaymentMethod domain.PaymentMethod  `json:"payment_method"`
	IsPaid        bool                  `json:"is_paid"`
	Note          string                `json:"note"`
	Subtotal      string                `json:"subtotal"`
	Discount      string                `json:"discount"`
	GrandTotal    string                `json:"grand_total"`
	OfferDemoted  bool                  `json:"offer_demoted"`
	Locked        bool                  `json:"locked"`
	LastSale      *SaleResponse         `json:"last_sale,omitempty"`
}

type ProductResponse struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	Price         string             `json:"price"`
	Kind          domain.ProductKind `json:"kind"`
	Unit          string             `json:"unit,omitempty"`
	StockQuantity *string            `json:"stock_quantity,omitempty"`
}

type ReceiptResponse struct {
	Text     string `json:"text"`
	ShareURL string `json:"share_url"`
	PrintURL string `json:"print_url"`
	HasPhone bool   `json:"has_phone"`
}

func toLineResponses(lines []domain.LineItem) []LineResponse {
	out := make([]LineResponse, len(lines))
	for i, l := range lines {
		out[i] = LineResponse{
			Index:       i,
			ID:          l.ID,
			Kind:        l.Kind,
			Name:        l.Name,
			Description: l.Description,
			Price:       l.Price.StringFixed(2),
			Quantity:    l.Quantity.String(),
			Unit:        l.Unit,
			Total:       l.Total().StringFixed(2),
		}
		if l.Kind.FromCatalog() {
			id := l.ProductID
			out[i].ProductID = &id
		}
		if l.Kind.StockLimited() {
			ceiling := l.StockCeiling.String()
			out[i].StockCeiling = &ceiling
		}
	}
	return out
}

func toCustomerResponse(c domain.CatalogCustomer) CustomerResponse {
	return CustomerResponse{
		ID:      c.ID,
		Name:    c.Name,
		Phone:   c.Phone,
		Address: c.Address,
		Credit:  c.Credit.StringFixed(2),
	}
}

func toSaleResponse(s domain.Sale) SaleResponse {
	return SaleResponse{
		SaleID:        s.ID,
		TotalAmount:   s.TotalAmount.StringFixed(2),
		Discount:      s.Discount.StringFixed(2),
		PaymentMethod: s.PaymentMethod,
		IsPaid:        s.IsPaid,
		ConfirmedAt:   s.ConfirmedAt.Format(time.RFC3339),
	}
}

func toCartResponse(view service.CartView) CartResponse {
	resp := CartResponse{
		Lines:         toLineResponses(view.Lines),
		Offers:        make([]OfferOptionResponse, len(view.Offers)),
		PaymentMethod: view.PaymentMethod,
		IsPaid:        view.PaymentMethod.IsPaid(),
		Note:          view.Note,
		Subtotal:      view.Pricing.Subtotal.StringFixed(2),
		Discount:      view.Pricing.Discount.StringFixed(2),
		GrandTotal:    view.Pricing.GrandTotal.StringFixed(2),
		OfferDemoted:  view.Pricing.Demoted,
		Locked:        view.Locked,
	}

	for i, o := range view.Offers {
		resp.Offers[i] = OfferOptionResponse{ID: o.ID, Label: o.Label}
	}
	if view.Customer != nil {
		c := toCustomerResponse(*view.Customer)
		resp.Customer = &c
	}
	if view.OfferID != 0 {
		id := view.OfferID
		resp.OfferID = &id
	}
	if view.LastSale != nil {
		s := toSaleResponse(*view.LastSale)
		resp.LastSale = &s
	}
	return resp
}

func toProductResponses(products []domain.CatalogProduct) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = ProductResponse{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price.StringFixed(2),
			Kind:  p.Kind,
			Unit:  p.Unit,
		}
		if !p.IsService() {
			stock := p.StockQuantity.String()
			out[i].StockQuantity = &stock
		}
	}
	return out
}
