package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/AnimeLoL/SeoArr/internal/models"
)

type TaxonomyStore struct {
	db *sql.DB
}

func NewTaxonomyStore(db *sql.DB) *TaxonomyStore {
	return &TaxonomyStore{db: db}
}

// TaxonomyBySlug looks up a taxonomy entry (genre, country, year) by kind and
// slug. Returns nil, nil when no entry exists.
func (s *TaxonomyStore) TaxonomyBySlug(ctx context.Context, kind, slug string) (*models.Taxonomy, error) {
	query := `
		SELECT id, kind, slug, name, seo_title, seo_description, seo_keywords
		FROM taxonomies
		WHERE kind = $1 AND lower(slug) = $2
	`

	tax := &models.Taxonomy{}
	err := s.db.QueryRowContext(ctx, query, kind, strings.ToLower(slug)).Scan(
		&tax.ID,
		&tax.Kind,
		&tax.Slug,
		&tax.Name,
		&tax.SeoTitle,
		&tax.SeoDescription,
		&tax.SeoKeywords,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get taxonomy by slug: %w", err)
	}

	return tax, nil
}
