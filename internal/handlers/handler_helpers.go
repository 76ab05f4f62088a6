package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retailbank/banking_ledger/internal/apperrors"
)

// respondServiceError maps service errors onto HTTP status codes. Expected
// business outcomes log at warn; anything unrecognized is a 500 and logs at
// error without leaking internals to the client.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error) {
	var status int
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidAmount):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrAccountClosed),
		errors.Is(err, apperrors.ErrAlreadyClosed),
		errors.Is(err, apperrors.ErrNonZeroBalance),
		errors.Is(err, apperrors.ErrSameAccount),
		errors.Is(err, apperrors.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrLockTimeout):
		status = http.StatusServiceUnavailable
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}
