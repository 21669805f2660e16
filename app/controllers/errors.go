package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/tag"
)

// respondError maps a service error onto its HTTP status and message.
// Anything unrecognised is logged and reported as a 500.
func respondError(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnitNotFound):
		c.NotFound("Unit not found")
	case errors.Is(err, services.ErrProductNotFound):
		c.NotFound("Product not found")
	case errors.Is(err, services.ErrReceiptNotFound):
		c.NotFound("Receipt not found")
	case errors.Is(err, services.ErrAdminNotFound):
		c.NotFound("Admin not found")
	case errors.Is(err, services.ErrUnitSold):
		c.Error(http.StatusBadRequest, "Unit already sold")
	case errors.Is(err, services.ErrInvalidTransition):
		c.Error(http.StatusBadRequest, "Invalid status transition")
	case errors.Is(err, services.ErrInvalidStatus):
		c.Error(http.StatusBadRequest, "Invalid status")
	case errors.Is(err, services.ErrDuplicate):
		c.Error(http.StatusConflict, "Resource already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized("Invalid credentials")
	default:
		log := logger.WithCtx(c.Context())
		if errors.Is(err, tag.ErrTagSpaceExhausted) {
			log.Error("tag space exhausted", "error", err)
		} else {
			log.Error("request failed", "error", err)
		}
		c.Error(http.StatusInternalServerError, "Internal server error")
	}
}
