// Package mintcache provides an optional, durable backing store for the
// vargen: minting the expander (C7) performs, keyed by the template's
// content hash so repeated expansions of the same template against
// refreshed bindings reuse the same minted identifiers (spec.md §9's
// "cross-reference consistency" is scoped to one expansion call; this
// package extends it across process runs).
//
// Schema and connection setup follow store/schema.go and store/store.go's
// shape: a single DDL string applied at open time, a shared *sql.DB with
// conservative pool limits for SQLite's single-writer model.
package mintcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS vargen_mint (
    template_hash TEXT NOT NULL,
    variable      TEXT NOT NULL,
    idx           INTEGER NOT NULL,
    minted_id     TEXT NOT NULL,
    PRIMARY KEY (template_hash, variable, idx)
);
`

// Cache is a SQLite-backed mint cache scoped to one template (identified by
// its content hash). It implements the expand.MintCache interface via
// Lookup/Store.
type Cache struct {
	db           *sql.DB
	templateHash string
}

// Open creates (or reuses) the SQLite file at path and scopes the returned
// Cache to templateHash — the caller computes this via HashTemplate.
func Open(path, templateHash string) (*Cache, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("mintcache: creating directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("mintcache: opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("mintcache: pinging database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("mintcache: creating schema: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite is single-writer; avoid cross-connection lock contention
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Cache{db: db, templateHash: templateHash}, nil
}

// HashTemplate returns a stable content hash for a template's canonical
// record listing, following the sha256+hex idiom goreason.go uses for
// document content hashing.
func HashTemplate(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Lookup returns the previously minted identifiers for variable, if any
// were recorded under this cache's template hash.
func (c *Cache) Lookup(variable string) ([]string, bool, error) {
	rows, err := c.db.QueryContext(context.Background(),
		`SELECT minted_id FROM vargen_mint WHERE template_hash = ? AND variable = ? ORDER BY idx`,
		c.templateHash, variable)
	if err != nil {
		return nil, false, fmt.Errorf("mintcache: querying %s: %w", variable, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, false, fmt.Errorf("mintcache: scanning %s: %w", variable, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("mintcache: iterating %s: %w", variable, err)
	}
	if len(ids) == 0 {
		return nil, false, nil
	}
	return ids, true, nil
}

// Store persists the minted identifiers for variable, replacing any prior
// entry under this cache's template hash.
func (c *Cache) Store(variable string, ids []string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("mintcache: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM vargen_mint WHERE template_hash = ? AND variable = ?`, c.templateHash, variable); err != nil {
		return fmt.Errorf("mintcache: clearing prior entry for %s: %w", variable, err)
	}
	for i, id := range ids {
		if _, err := tx.Exec(
			`INSERT INTO vargen_mint (template_hash, variable, idx, minted_id) VALUES (?, ?, ?, ?)`,
			c.templateHash, variable, i, id); err != nil {
			return fmt.Errorf("mintcache: storing %s[%d]: %w", variable, i, err)
		}
	}
	return tx.Commit()
}
