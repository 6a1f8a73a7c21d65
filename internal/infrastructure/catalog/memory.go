package catalog

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/switchtoindia/backend/internal/domain"
)

// Provider memoizes the product list fetched from the catalog client.
// The first caller triggers the fetch; concurrent callers block on the
// same mutex and reuse the result, so at most one upstream request is
// in flight at any time. A fetch failure degrades to an empty catalog
// rather than propagating.
type Provider struct {
	client domain.CatalogClient
	ttl    time.Duration // 0 means never refetch

	mutex     sync.Mutex
	products  []domain.ProductRecord
	fetched   bool
	fetchedAt time.Time
	version   uint64
}

// NewProvider creates a catalog provider backed by the given client.
func NewProvider(client domain.CatalogClient, ttl time.Duration) *Provider {
	return &Provider{
		client: client,
		ttl:    ttl,
	}
}

// Products returns the cached product list, fetching it on first use.
func (p *Provider) Products(ctx context.Context) ([]domain.ProductRecord, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.fetched && (p.ttl == 0 || time.Since(p.fetchedAt) < p.ttl) {
		return p.products, nil
	}

	products, err := p.client.ListProducts(ctx)
	if err != nil {
		// Failures are not memoized: the next caller retries. Until
		// then the catalog is simply empty.
		log.Printf("[CATALOG] Fetch failed, serving empty catalog: %v", err)
		return nil, nil
	}

	p.products = products
	p.fetched = true
	p.fetchedAt = time.Now()
	p.version++

	return p.products, nil
}

// Version changes whenever the cached product list is replaced.
func (p *Provider) Version() uint64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.version
}

// Invalidate drops the cached list so the next call refetches.
func (p *Provider) Invalidate() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.fetched = false
}

// Size returns the number of cached products (for debugging/monitoring)
func (p *Provider) Size() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.products)
}
