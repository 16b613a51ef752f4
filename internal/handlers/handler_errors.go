package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recognizely/points_ledger_backend/internal/apperrors"
)

// respondError maps a service error onto its HTTP status. Every handler
// funnels its failure path through here so the status mapping stays in one
// place.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Request rejected by validation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden), errors.Is(err, apperrors.ErrCrossTenantViolation):
		logger.Warn("Request forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientFunds), errors.Is(err, apperrors.ErrInvalidReversalAmount):
		logger.Warn("Request rejected by ledger invariant", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConcurrentModification), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Request conflicted with concurrent activity", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrStorageFailure):
		logger.Error("Storage failure", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage temporarily unavailable"})
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
