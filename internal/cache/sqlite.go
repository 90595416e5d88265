// Package cache keeps a local copy of the last successful listing and
// wishlist fetches so browsing keeps working offline. The backend stays
// authoritative; the cache is replaced wholesale after each fetch.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Bharath552-bit/Real-Estate-Platform/internal/models"
)

// Store handles SQLite cache operations.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the cache database at dbPath.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &Store{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS properties (
		id INTEGER PRIMARY KEY,
		seller INTEGER NOT NULL,
		name TEXT NOT NULL,
		location TEXT DEFAULT '',
		price TEXT DEFAULT '',
		property_type TEXT DEFAULT '',
		payload TEXT NOT NULL,
		created_at DATETIME,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS wishlist (
		property_id INTEGER PRIMARY KEY,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_properties_created ON properties(created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() {
	s.db.Close()
}

// ReplaceListings swaps the cached listing feed for the given set.
func (s *Store) ReplaceListings(ctx context.Context, properties []models.Property) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM properties`); err != nil {
		return err
	}

	for _, p := range properties {
		payload, err := json.Marshal(p)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO properties (id, seller, name, location, price, property_type, payload, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, p.ID, p.Seller, p.Name, p.Location, p.Price, p.PropertyType, string(payload), p.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Listings returns the cached listing feed, newest first.
func (s *Store) Listings(ctx context.Context) ([]models.Property, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM properties ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var p models.Property
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// ReplaceWishlist swaps the cached wishlist property IDs.
func (s *Store) ReplaceWishlist(ctx context.Context, propertyIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM wishlist`); err != nil {
		return err
	}

	for _, id := range propertyIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO wishlist (property_id) VALUES (?)`, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// WishlistIDs returns the cached wishlist property IDs.
func (s *Store) WishlistIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT property_id FROM wishlist ORDER BY property_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
