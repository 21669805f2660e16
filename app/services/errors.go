package services

import (
	"errors"

	"github.com/shashiranjanraj/storefront/app/models"
)

// Sentinel errors returned (wrapped) by the services. Controllers map them to
// HTTP statuses with errors.Is.
var (
	ErrUnitNotFound       = errors.New("unit not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrReceiptNotFound    = errors.New("receipt not found")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrUnitSold           = errors.New("unit already sold")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrDuplicate          = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidTransition = models.ErrInvalidTransition
)
