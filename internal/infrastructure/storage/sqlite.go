package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/switchtoindia/backend/internal/domain"
	_ "modernc.org/sqlite"
)

// Storage keys for the serialized basket. The legacy alias mirrors the
// primary key so older readers keep working; both always hold identical
// content after any write.
const (
	PrimaryKey = "stindiabasket_v1"
	LegacyKey  = "basket"
)

// BasketStore persists the basket collection as a JSON payload in a
// key/value sqlite table.
type BasketStore struct {
	sql *sql.DB
}

// Open opens (and if needed initializes) the basket database at path.
func Open(path string) (*BasketStore, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS basket_state (
  key     TEXT PRIMARY KEY,
  payload TEXT NOT NULL
);
	`); err != nil {
		return nil, err
	}
	return &BasketStore{sql: db}, nil
}

// Close closes the underlying database.
func (s *BasketStore) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}
	return s.sql.Close()
}

// Load reads the basket from the primary key, falling back to the
// legacy alias. A missing or corrupt payload yields an empty basket.
func (s *BasketStore) Load(ctx context.Context) ([]domain.LineItem, error) {
	for _, key := range []string{PrimaryKey, LegacyKey} {
		var payload string
		err := s.sql.QueryRowContext(ctx, "SELECT payload FROM basket_state WHERE key = ?", key).Scan(&payload)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrBasketStorage, err)
		}

		var items []domain.LineItem
		if err := json.Unmarshal([]byte(payload), &items); err != nil {
			log.Printf("[STORAGE] Corrupt basket payload under %q, starting empty: %v", key, err)
			return nil, nil
		}
		return items, nil
	}
	return nil, nil
}

// Save serializes the full collection and writes it under both storage
// keys in one transaction.
func (s *BasketStore) Save(ctx context.Context, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBasketStorage, err)
	}

	tx, err := s.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBasketStorage, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, key := range []string{PrimaryKey, LegacyKey} {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO basket_state(key, payload) VALUES(?, ?)
			 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`,
			key, string(payload)); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrBasketStorage, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBasketStorage, err)
	}
	return nil
}
