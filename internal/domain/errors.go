package domain

import "errors"

var (
	// ErrCatalogUnavailable is returned when the catalog provider cannot be reached
	ErrCatalogUnavailable = errors.New("catalog provider unavailable")

	// ErrProductNotFound is returned when a product cannot be found in the catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidPrice is returned when a price edit does not parse to a number
	ErrInvalidPrice = errors.New("price input does not parse to a number")

	// ErrConfirmationRequired is returned when a removal is attempted without confirmation
	ErrConfirmationRequired = errors.New("removal requires confirmation")

	// ErrBasketStorage is returned when the basket persistence layer fails
	ErrBasketStorage = errors.New("basket storage failure")
)
