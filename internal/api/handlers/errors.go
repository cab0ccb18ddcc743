package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/subhlabh/billing/pkg/errors"
)

// respondError maps billing errors to HTTP statuses
func respondError(c *gin.Context, err error, logger *zap.Logger) {
	var (
		validationErr *errors.ErrValidationFailed
		quantityErr   *errors.ErrInvalidQuantity
		stockErr      *errors.ErrStockExceeded
		notFoundErr   *errors.ErrNotFound
		busyErr       *errors.ErrBusy
		lockedErr     *errors.ErrCartLocked
		networkErr    *errors.ErrNetworkFailure
		authErr       *errors.ErrUnauthorized
	)

	switch {
	case stderrors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "validation failed",
			"violations": validationErr.Violations,
		})
	case stderrors.As(err, &quantityErr), stderrors.As(err, &stockErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case stderrors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case stderrors.As(err, &busyErr), stderrors.As(err, &lockedErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case stderrors.As(err, &networkErr):
		message := networkErr.Message
		if message == "" {
			message = "Network error. Please try again."
		}
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": message})
	case stderrors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		logger.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
