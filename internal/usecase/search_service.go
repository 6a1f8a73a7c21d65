package usecase

import (
	"context"
	"strings"

	"github.com/switchtoindia/backend/internal/domain"
)

// SearchService filters the catalog by a free-text query.
type SearchService struct {
	provider domain.CatalogProvider
}

// NewSearchService creates a new search service.
func NewSearchService(provider domain.CatalogProvider) *SearchService {
	return &SearchService{provider: provider}
}

// Search returns catalog records whose name, id, brand, or listed
// alternative names contain the query (case-insensitive). An empty
// query returns the full catalog. A catalog failure yields an empty
// result, never an error.
func (s *SearchService) Search(ctx context.Context, query string) []domain.ProductRecord {
	products, err := s.provider.Products(ctx)
	if err != nil {
		return nil
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}

	var results []domain.ProductRecord
	for i := range products {
		if matchesQuery(&products[i], q) {
			results = append(results, products[i])
		}
	}
	return results
}

func matchesQuery(p *domain.ProductRecord, q string) bool {
	if strings.Contains(strings.ToLower(p.ProductName), q) ||
		strings.Contains(strings.ToLower(p.ProductID), q) ||
		strings.Contains(strings.ToLower(p.Brand), q) {
		return true
	}
	for _, alt := range p.AlternativeNames {
		if strings.Contains(strings.ToLower(alt), q) {
			return true
		}
	}
	return false
}
