package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/books_backend/internal/apperrors"
	"github.com/finbooks/books_backend/internal/core/services"
	"github.com/finbooks/books_backend/internal/middleware"
)

// identity pulls the authenticated user and company from the request
// context, aborting with 401 when the auth middleware did not run.
func identity(c *gin.Context) (userID, companyID string, ok bool) {
	userID, okUser := middleware.GetUserIDFromContext(c)
	companyID, okCompany := middleware.GetCompanyIDFromContext(c)
	if !okUser || !okCompany {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	return userID, companyID, true
}

// respondError maps service errors to HTTP statuses. Unmapped errors log at
// error level and return a generic 500 so internals never leak to clients.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, services.ErrItemsRequired),
		errors.Is(err, services.ErrJournalLinesNeeded),
		errors.Is(err, services.ErrParentCycle),
		errors.Is(err, services.ErrParentTypeDiffers),
		errors.Is(err, services.ErrServiceNoStock),
		errors.Is(err, services.ErrZeroAdjustment):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, services.ErrDuplicateSKU):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidState),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, services.ErrNotModifiable),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrNotDeletable),
		errors.Is(err, services.ErrNotPayable),
		errors.Is(err, services.ErrOverpayment),
		errors.Is(err, services.ErrSystemAccount),
		errors.Is(err, services.ErrAccountInUse),
		errors.Is(err, services.ErrInactiveProduct),
		errors.Is(err, apperrors.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
