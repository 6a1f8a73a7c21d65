package usecase

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/switchtoindia/backend/internal/domain"
)

// priceCharsRegex keeps only the characters a price can be built from.
var priceCharsRegex = regexp.MustCompile(`[^0-9.]`)

// BasketService owns the canonical basket collection. Every mutation
// re-persists the whole collection; a persistence failure is logged and
// the in-memory result is kept on a best-effort basis, so callers must
// not assume durability.
type BasketService struct {
	repo domain.BasketRepository

	mutex sync.Mutex
	items []domain.LineItem
}

// NewBasketService creates a basket service and loads the persisted
// collection. A load failure starts the basket empty.
func NewBasketService(ctx context.Context, repo domain.BasketRepository) *BasketService {
	items, err := repo.Load(ctx)
	if err != nil {
		log.Printf("[BASKET] Load failed, starting empty: %v", err)
		items = nil
	}
	return &BasketService{
		repo:  repo,
		items: items,
	}
}

// AddItem merges a product into the basket. A second add with the same
// (name, country) key increments the existing line's quantity; a price
// is only adopted when the existing line has none.
func (s *BasketService) AddItem(ctx context.Context, name, country string, price *float64, qty int) domain.LineItem {
	if qty <= 0 {
		qty = 1
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := domain.LineKey(name, country)
	for i := range s.items {
		if s.items[i].Key == key {
			s.items[i].Qty += qty
			if s.items[i].Price == nil && price != nil {
				value := *price
				s.items[i].Price = &value
			}
			s.persist(ctx)
			return s.items[i]
		}
	}

	item := domain.LineItem{
		ID:      uuid.NewString(),
		Key:     key,
		Name:    name,
		Country: country,
		Qty:     qty,
	}
	if price != nil {
		value := *price
		item.Price = &value
	}
	s.items = append(s.items, item)
	s.persist(ctx)
	return item
}

// ChangeQuantity adds delta to the item's quantity. Dropping to zero or
// below consults the confirmation policy: confirmed removes the line,
// declined resets the quantity to 1. An out-of-range index is a no-op.
func (s *BasketService) ChangeQuantity(ctx context.Context, index, delta int, confirm domain.ConfirmFunc) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if index < 0 || index >= len(s.items) {
		return
	}

	s.items[index].Qty += delta
	if s.items[index].Qty <= 0 {
		if confirm != nil && confirm(s.items[index].Name) {
			s.items = append(s.items[:index], s.items[index+1:]...)
		} else {
			s.items[index].Qty = 1
		}
	}
	s.persist(ctx)
}

// EditPrice parses the raw user input and applies it to the item.
// Everything but digits and "." is stripped first; empty input clears
// the price; non-empty input that still fails to parse is rejected with
// the prior price preserved.
func (s *BasketService) EditPrice(ctx context.Context, index int, rawInput string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if index < 0 || index >= len(s.items) {
		return nil
	}

	if strings.TrimSpace(rawInput) == "" {
		s.items[index].Price = nil
		s.persist(ctx)
		return nil
	}

	cleaned := priceCharsRegex.ReplaceAllString(rawInput, "")
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || parsed < 0 {
		return domain.ErrInvalidPrice
	}

	s.items[index].Price = &parsed
	s.persist(ctx)
	return nil
}

// RemoveItem deletes the line after the confirmation policy approves.
// An out-of-range index is a no-op.
func (s *BasketService) RemoveItem(ctx context.Context, index int, confirm domain.ConfirmFunc) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if index < 0 || index >= len(s.items) {
		return nil
	}
	if confirm == nil || !confirm(s.items[index].Name) {
		return domain.ErrConfirmationRequired
	}

	s.items = append(s.items[:index], s.items[index+1:]...)
	s.persist(ctx)
	return nil
}

// Items returns the current line items in insertion order.
func (s *BasketService) Items() []domain.LineItem {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	out := make([]domain.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Clear empties the basket.
func (s *BasketService) Clear(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.items = nil
	s.persist(ctx)
}

// persist writes the full collection. Callers hold the mutex. Storage
// errors are logged, not propagated: the in-memory state stands.
func (s *BasketService) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.items); err != nil {
		log.Printf("[BASKET] Persist failed, in-memory state retained: %v", err)
	}
}
