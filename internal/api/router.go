package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/subhlabh/billing/internal/api/handlers"
	"github.com/subhlabh/billing/internal/api/middleware"
	"github.com/subhlabh/billing/internal/config"
	"github.com/subhlabh/billing/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, billing *service.BillingService, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes, one billing counter per server
	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.API.TerminalKeyHash, logger))
	{
		cart := v1.Group("/cart")
		{
			cart.GET("", handlers.HandleGetCart(billing))
			cart.POST("/items", handlers.HandleAddItem(billing, logger))
			cart.POST("/custom-items", handlers.HandleAddCustomItem(billing, logger))
			cart.PATCH("/lines/:index", handlers.HandleSetQuantity(billing, logger))
			cart.DELETE("/lines/:index", handlers.HandleRemoveLine(billing, logger))
			cart.PUT("/customer", handlers.HandleSelectCustomer(billing, logger))
			cart.PUT("/offer", handlers.HandleSelectOffer(billing, logger))
			cart.PUT("/payment", handlers.HandleSetPayment(billing, logger))
			cart.PUT("/note", handlers.HandleSetNote(billing, logger))
			cart.POST("/save", handlers.HandleSaveSale(billing, logger))
			cart.POST("/new", handlers.HandleNewSale(billing, logger))
			cart.GET("/receipt", handlers.HandleGetReceipt(billing, logger))
		}

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/products", handlers.HandleSearchProducts(billing))
			catalog.GET("/customers", handlers.HandleSearchCustomers(billing))
		}

		v1.POST("/customers", handlers.HandleCreateCustomer(billing, logger))
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
