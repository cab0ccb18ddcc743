package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/subhlabh/billing/internal/service"
)

// CreateCustomerRequest registers a customer from the billing screen
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
	Select  bool   `json:"select"`
}

// HandleSearchProducts handles GET /v1/catalog/products?q=
func HandleSearchProducts(billing *service.BillingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products := billing.SearchProducts(c.Query("q"))
		c.JSON(http.StatusOK, gin.H{"products": toProductResponses(products)})
	}
}

// HandleSearchCustomers handles GET /v1/catalog/customers?q=
func HandleSearchCustomers(billing *service.BillingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		customers := billing.SearchCustomers(c.Query("q"))

		resp := make([]CustomerResponse, len(customers))
		for i, cust := range customers {
			resp[i] = toCustomerResponse(cust)
		}
		c.JSON(http.StatusOK, gin.H{"customers": resp})
	}
}

// HandleCreateCustomer handles POST /v1/customers
func HandleCreateCustomer(billing *service.BillingService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCustomerRequest
		if !bindJSON(c, &req) {
			return
		}

		created, err := billing.CreateCustomer(c.Request.Context(), service.NewCustomer{
			Name:    req.Name,
			Phone:   req.Phone,
			Address: req.Address,
			Notes:   req.Notes,
			Select:  req.Select,
		})
		if err != nil {
			respondError(c, err, logger)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success":     true,
			"customer_id": created.Customer.ID,
			"customer":    toCustomerResponse(created.Customer),
			"selected":    created.Selected,
		})
	}
}
