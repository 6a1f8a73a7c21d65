package domain

import "context"

// CatalogClient defines the interface for fetching the raw product list
// from the Airtable-backed provider.
type CatalogClient interface {
	ListProducts(ctx context.Context) ([]ProductRecord, error)
}

// CatalogProvider is the read-side the core depends on: a cached,
// in-memory product list.
type CatalogProvider interface {
	Products(ctx context.Context) ([]ProductRecord, error)
	// Version changes whenever the cached product list is replaced,
	// letting consumers invalidate derived indexes.
	Version() uint64
}

// BasketRepository defines the persistence boundary for the basket.
// Save must persist the whole collection atomically from the caller's
// point of view.
type BasketRepository interface {
	Load(ctx context.Context) ([]LineItem, error)
	Save(ctx context.Context, items []LineItem) error
}

// ConfirmFunc is the injected confirmation policy consulted before a
// line item is removed. It receives the item's display name and returns
// whether the user approved the removal.
type ConfirmFunc func(itemName string) bool
