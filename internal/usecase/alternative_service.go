package usecase

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/switchtoindia/backend/internal/domain"
)

// Scoring bonuses. Each matched signal accumulates independently.
const (
	subcategoryMatchBonus = 300 // same subcategory as the source product
	categoryMatchBonus    = 80  // same category (independent of subcategory)
	sharedTagBonus        = 30  // at least one shared attribute tag, counted once
	domesticBonus         = 60  // ownership or parent country mentions India
	fssaiBonus            = 20  // FSSAI-licensed candidate
	rawMentionBonus       = 6   // candidate name already appears in the raw input
)

// maxAlternatives caps the shortlist length.
const maxAlternatives = 3

// brandNameSep joins brand and name into the composite index key.
const brandNameSep = ":::"

// AlternativeConfig holds configuration for the alternative service
type AlternativeConfig struct {
	EnableDebugLogging bool
}

// AlternativeService resolves raw alternative-name strings against the
// catalog and ranks the candidates for display.
type AlternativeService struct {
	provider           domain.CatalogProvider
	enableDebugLogging bool

	// Rebuildable lookup index over the catalog, keyed off the
	// provider's version so a catalog reload invalidates it.
	// Guarded by mutex; requests arrive concurrently.
	mutex        sync.Mutex
	index        map[string]*domain.ProductRecord
	indexVersion uint64
	indexed      []domain.ProductRecord
}

// NewAlternativeService creates a new alternative service.
func NewAlternativeService(provider domain.CatalogProvider, config AlternativeConfig) *AlternativeService {
	return &AlternativeService{
		provider:           provider,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// SelectAlternatives returns up to three ranked alternative candidates
// for the source product. Raw names that resolve to no catalog record
// become stub candidates so the caller can still render a label. The
// method never fails: a missing catalog or malformed fields degrade to
// empty or zero-scored results.
func (s *AlternativeService) SelectAlternatives(
	ctx context.Context,
	source domain.ProductRecord,
	rawNames []string,
) []domain.AlternativeCandidate {
	if len(rawNames) == 0 {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	products := s.catalog(ctx)

	var candidates []domain.AlternativeCandidate
	for _, raw := range rawNames {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		candidates = append(candidates, s.resolve(raw, products))
	}
	if len(candidates) == 0 {
		return nil
	}

	rawJoined := strings.ToLower(strings.Join(rawNames, " "))
	for i := range candidates {
		candidates[i].Score = scoreCandidate(&source, &candidates[i].Product, rawJoined)
		if s.enableDebugLogging {
			log.Printf("[MATCH] Candidate: %q | Stub: %v | Score: %d",
				candidates[i].Product.ProductName, candidates[i].Stub, candidates[i].Score)
		}
	}

	// Stable sort keeps resolution order for equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > maxAlternatives {
		candidates = candidates[:maxAlternatives]
	}
	return candidates
}

// catalog returns the current product list, rebuilding the lookup index
// when the provider's snapshot has changed.
func (s *AlternativeService) catalog(ctx context.Context) []domain.ProductRecord {
	products, err := s.provider.Products(ctx)
	if err != nil {
		log.Printf("[MATCH] Catalog unavailable: %v", err)
		return nil
	}

	if version := s.provider.Version(); s.index == nil || version != s.indexVersion {
		s.rebuildIndex(products, version)
	}
	return s.indexed
}

// rebuildIndex builds the name/id/brand-composite lookup map. Later
// records with a colliding key overwrite earlier ones; the catalog is
// assumed near-duplicate-free, so this is a best-effort policy.
func (s *AlternativeService) rebuildIndex(products []domain.ProductRecord, version uint64) {
	index := make(map[string]*domain.ProductRecord, len(products)*3)
	for i := range products {
		p := &products[i]
		if name := strings.ToLower(strings.TrimSpace(p.ProductName)); name != "" {
			index[name] = p
		}
		if id := strings.ToLower(strings.TrimSpace(p.ProductID)); id != "" {
			index[id] = p
		}
		if p.Brand != "" && p.ProductName != "" {
			composite := strings.ToLower(p.Brand + brandNameSep + p.ProductName)
			index[composite] = p
		}
	}

	s.index = index
	s.indexed = products
	s.indexVersion = version

	if s.enableDebugLogging {
		log.Printf("[MATCH] Rebuilt catalog index: %d products, %d keys (version %d)",
			len(products), len(index), version)
	}
}

// resolve maps one raw alternative name to a catalog record, trying the
// exact index first, then a substring scan, then synthesizing a stub.
func (s *AlternativeService) resolve(raw string, products []domain.ProductRecord) domain.AlternativeCandidate {
	needle := strings.ToLower(strings.TrimSpace(raw))

	if record, ok := s.index[needle]; ok {
		return domain.AlternativeCandidate{Product: *record}
	}

	for i := range products {
		name := strings.ToLower(products[i].ProductName)
		if name != "" && strings.Contains(name, needle) {
			return domain.AlternativeCandidate{Product: products[i]}
		}
	}

	return domain.AlternativeCandidate{
		Product: domain.ProductRecord{ProductName: strings.TrimSpace(raw)},
		Stub:    true,
	}
}

// scoreCandidate accumulates the ranking signals for one candidate
// against the source product. Absent fields contribute zero.
func scoreCandidate(source, candidate *domain.ProductRecord, rawJoined string) int {
	score := 0

	subcat := strings.ToLower(candidate.Subcategory)
	if subcat != "" && subcat == strings.ToLower(source.Subcategory) {
		score += subcategoryMatchBonus
	}

	cat := strings.ToLower(candidate.Category)
	if cat != "" && cat == strings.ToLower(source.Category) {
		score += categoryMatchBonus
	}

	if sharesTag(source.AttributeTags(), candidate.AttributeTags()) {
		score += sharedTagBonus
	}

	if candidate.Domestic() {
		score += domesticBonus
	}

	if candidate.FSSAILicensed {
		score += fssaiBonus
	}

	name := strings.ToLower(candidate.ProductName)
	if name != "" && strings.Contains(rawJoined, name) {
		score += rawMentionBonus
	}

	return score
}

// sharesTag reports whether the two tag sets overlap. Both must be
// non-empty for the signal to count.
func sharesTag(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, tag := range a {
		set[tag] = true
	}
	for _, tag := range b {
		if set[tag] {
			return true
		}
	}
	return false
}
