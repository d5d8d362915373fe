package database

import (
	"context"
	"database/sql"
	"fmt"
)

// SettingsStore reads the admin-managed site_settings and seo_settings
// key/value tables. The admin back-office writes them; this service only
// snapshots them into typed structs (see internal/settings).
type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get retrieves a single setting by key from the given table.
// Returns "" with no error when the key is absent.
func (s *SettingsStore) Get(ctx context.Context, table, key string) (string, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, table)

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %q: %w", key, err)
	}
	return value, nil
}

// GetAll retrieves every key/value pair from the given table.
func (s *SettingsStore) GetAll(ctx context.Context, table string) (map[string]string, error) {
	query := fmt.Sprintf(`SELECT key, value FROM %s`, table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}

	return settings, rows.Err()
}

// SiteSettings returns the site_settings table contents.
func (s *SettingsStore) SiteSettings(ctx context.Context) (map[string]string, error) {
	return s.GetAll(ctx, "site_settings")
}

// SeoSettings returns the seo_settings table contents.
func (s *SettingsStore) SeoSettings(ctx context.Context) (map[string]string, error) {
	return s.GetAll(ctx, "seo_settings")
}
