package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/subhlabh/billing/internal/domain"
	"github.com/subhlabh/billing/internal/service"
	"github.com/subhlabh/billing/pkg/errors"
)

// AddItemRequest adds one unit of a catalog product or service
type AddItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

// CustomItemRequest adds an ad hoc charge. Quantity defaults to 1.
type CustomItemRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Price       decimal.Decimal     `json:"price"`
	Quantity    decimal.NullDecimal `json:"quantity"`
}

// QuantityRequest carries the raw quantity so a non-numeric value is reported
// as an invalid quantity rather than a malformed body.
type QuantityRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

// Decimal parses the quantity as a JSON number or numeric string
func (r QuantityRequest) Decimal() (decimal.Decimal, error) {
	raw := strings.TrimSpace(string(r.Quantity))
	var qty decimal.Decimal
	if raw == "" || raw == "null" || qty.UnmarshalJSON(r.Quantity) != nil {
		return decimal.Zero, &errors.ErrInvalidQuantity{Value: strings.Trim(raw, `"`), Reason: "not a number"}
	}
	return qty, nil
}

// SelectCustomerRequest selects a customer; 0 is walk-in
type SelectCustomerRequest struct {
	CustomerID int64 `json:"customer_id"`
}

// SelectOfferRequest selects an offer; 0 clears it
type SelectOfferRequest struct {
	OfferID int64 `json:"offer_id"`
}

type PaymentRequest struct {
	PaymentMethod domain.PaymentMethod `json:"payment_method" binding:"required"`
}

type NoteRequest struct {
	Note string `json:"note"`
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(billing *service.BillingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, toCartResponse(billing.Snapshot()))
	}
}

// HandleAddItem handles POST /v1/cart/items
func HandleAddItem(billing *service.BillingService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddItemRequest
		if !bindJSON(c, &req) {
			return
		}

		outcome, err := billing.AddCatalogItem(req.ProductID)
		if err != nil {
			respondError(c, err, logger)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"outcome": outcome.String(),
			"cart":    toCartResponse(billing.Snapshot()),
		})
	}
}

// HandleAddCustomItem handles POST /v1/cart/custom-items
func HandleAddCustomItem(billing *service.BillingService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CustomItemRequest
		if !bindJSON(c, &req) {
			return
		}

		_, err := billing.AddCustomItem(service.CustomItemInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Quantity:    req.Quantity,
		})
		if err != nil {
			respondError(c, err, logger)
			return
		}

		c.JSON(http.StatusCreated, toCartResponse(billing.Snapshot()))
	}
}

// HandleSetQuantity handles PATCH /v1/cart/lines/:index
func HandleSetQuantity(billing *service.BillingService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, ok := lineIndex(c)
		if !ok {
			return
		}

		var req QuantityRequest
		if !bindJSON(c, &req) {
			return
		}

		qty, err := req.Decimal()
		if err != nil {
			respondError(c, err, logger)
			return
		}

		if err := billing.SetQuantity(index, qty); err != nil {
			respondError(c, err, logger)
			return
		}

		c.JSON(http.StatusOK, toCartResponse(billing.Snapshot()))
	}
}

// HandleRemoveLine handles DELETE /v1/cart/lines/:index
func HandleRemoveLine(billing *service.BillingService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, ok := lineIndex(c)
		if !ok {
			return
		}

		if err := billing.RemoveLine(index); err != nil {
			respondError(c, err, logger)
			return
		}

		c.JSON(http.StatusOK, toCartResponse(billing.Snapshot()))
	}
}

// HandleSelectCustomer handles PUT /v1/cart/customer
func HandleSelectCustomer(billing *service.BillingService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SelectCustomerRequest
		if !bindJSON(c, &req) {
			return
		}

		found, err := billing.SelectCustomer(req.CustomerID)
		if err != nil {
			respondError(c, err, logger)
			return
		}
		if !found {
			respondError(c, &errors.ErrNotFound{Resource: "customer", ID: strconv.FormatInt(req.CustomerID, 10)}, logger)
			return
		}

		c.JSON(http.StatusOK, toCartResponse(billing.Snapshot()))
	}
}

// HandleSelectOffer handles PUT /v1/cart/offer
func HandleSelectOffer(billing *service.BillingService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SelectOfferRequest
		if !bindJSON(c, &req) {
			return
		}

		found, err := billing.SelectOffer(req.OfferID)
		if err != nil {
			respondError(c, err, logger)
			return
		}
		if !found {
			respondError(c, &errors.ErrNotFound{Resource: "offer", ID: strconv.FormatInt(req.OfferID, 10)}, logger)
			return
		}

		// Line changes that drop the subtotal below the minimum clear the offer; offer_demoted reports it.
		c.JSON(http.StatusOK, toCartResponse(billing.Snapshot()))
	}
}

// HandleSetPayment handles PUT /v1/cart/payment
func HandleSetPayment(billing *service.BillingService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PaymentRequest
		if !bindJSON(c, &req) {
			return
		}

		if err := billing.SetPaymentMethod(req.PaymentMethod); err != nil {
			respondError(c, err, logger)
			return
		}

		c.JSON(http.StatusOK, toCartResponse(billing.Snapshot()))
	}
}

// HandleSetNote handles PUT /v1/cart/note
func HandleSetNote(billing *service.BillingService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req NoteRequest
		if !bindJSON(c, &req) {
			return
		}

		if err := billing.SetNote(req.Note); err != nil {
			respondError(c, err, logger)
			return
		}

		c.JSON(http.StatusOK, toCartResponse(billing.Snapshot()))
	}
}

// HandleSaveSale handles POST /v1/cart/save
func HandleSaveSale(billing *service.BillingService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sale, err := billing.SaveSale(c.Request.Context())
		if err != nil {
			respondError(c, err, logger)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"sale_id":      sale.ID,
			"total_amount": sale.TotalAmount.StringFixed(2),
			"message":      "Sale saved successfully!",
		})
	}
}

// HandleNewSale handles POST /v1/cart/new
func HandleNewSale(billing *service.BillingService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := billing.NewSale(); err != nil {
			respondError(c, err, logger)
			return
		}

		c.JSON(http.StatusOK, toCartResponse(billing.Snapshot()))
	}
}

// HandleGetReceipt handles GET /v1/cart/receipt
func HandleGetReceipt(billing *service.BillingService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shared, err := billing.ShareReceipt()
		if err != nil {
			respondError(c, err, logger)
			return
		}

		c.JSON(http.StatusOK, ReceiptResponse{
			Text:     shared.Text,
			ShareURL: shared.Link,
			PrintURL: shared.PrintURL,
			HasPhone: shared.HasPhone,
		})
	}
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation failed",
			"details": err.Error(),
		})
		return false
	}
	return true
}

func lineIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line index"})
		return 0, false
	}
	return index, true
}
