package backoffice

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/subhlabh/billing/pkg/errors"
)

// SaleRequest is the save-sale payload
type SaleRequest struct {
	CustomerID     *int64          `json:"customer_id"`
	PaymentMethod  string          `json:"payment_method"`
	IsPaid         bool            `json:"is_paid"`
	Notes          string          `json:"notes"`
	OfferID        *int64          `json:"offer_id"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Items          []SaleItem      `json:"items"`
}

// SaleItem is either a catalog line (ProductID and Price set) or a custom line
// (ProductID nil and the Custom* fields set). The back office tells them apart by
// the presence of custom_name.
type SaleItem struct {
	ProductID         *int64           `json:"product_id"`
	Quantity          decimal.Decimal  `json:"quantity"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	CustomName        string           `json:"custom_name,omitempty"`
	CustomDescription *string          `json:"custom_description,omitempty"`
	CustomPrice       *decimal.Decimal `json:"custom_price,omitempty"`
}

// CatalogSaleItem builds a line for a catalog product or service
func CatalogSaleItem(productID int64, quantity, price decimal.Decimal) SaleItem {
	return SaleItem{ProductID: &productID, Quantity: quantity, Price: &price}
}

// CustomSaleItem builds a line for an ad hoc charge
func CustomSaleItem(name, description string, quantity, price decimal.Decimal) SaleItem {
	return SaleItem{
		Quantity:          quantity,
		CustomName:        name,
		CustomDescription: &description,
		CustomPrice:       &price,
	}
}

// SaleConfirmation is returned by the back office for a recorded sale
type SaleConfirmation struct {
	SaleID      int64
	TotalAmount decimal.Decimal
}

type saleResponse struct {
	Success     bool            `json:"success"`
	SaleID      int64           `json:"sale_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Message     string          `json:"message"`
}

// SaveSale submits a sale. Every failure, transport or rejection, is an *errors.ErrNetworkFailure.
func (c *Client) SaveSale(ctx context.Context, req SaleRequest) (SaleConfirmation, error) {
	idempotencyKey := uuid.NewString()

	var resp saleResponse
	err := c.postJSON(ctx, c.salePath, req, map[string]string{"Idempotency-Key": idempotencyKey}, &resp)
	if err != nil {
		c.logger.Error("Failed to save sale", zap.String("idempotency_key", idempotencyKey), zap.Error(err))
		return SaleConfirmation{}, &errors.ErrNetworkFailure{Op: "save sale", Err: err}
	}

	if !resp.Success {
		message := resp.Message
		if message == "" {
			message = "Error saving sale!"
		}
		c.logger.Warn("Back office rejected sale", zap.String("message", message))
		return SaleConfirmation{}, &errors.ErrNetworkFailure{Op: "save sale", Message: message}
	}

	c.logger.Info("Sale recorded",
		zap.Int64("sale_id", resp.SaleID),
		zap.String("total_amount", resp.TotalAmount.StringFixed(2)),
	)

	return SaleConfirmation{SaleID: resp.SaleID, TotalAmount: resp.TotalAmount}, nil
}
