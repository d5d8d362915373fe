package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AnimeLoL/SeoArr/internal/models"
)

type MovieStore struct {
	db *sql.DB
}

func NewMovieStore(db *sql.DB) *MovieStore {
	return &MovieStore{db: db}
}

// MovieBySlug looks up a movie by its URL slug. Slugs are matched
// case-insensitively because inbound detail paths are. Returns nil, nil when
// no movie exists for the slug.
func (s *MovieStore) MovieBySlug(ctx context.Context, slug string) (*models.Movie, error) {
	query := `
		SELECT id, slug, name, original_name, year, episode_current, quality, lang,
		       content, thumb_url, categories, countries, actors, directors, tags,
		       seo_title, seo_description, seo_keywords, updated_at
		FROM movies
		WHERE lower(slug) = $1
	`

	movie := &models.Movie{}
	var categories, countries, actors, directors, tags []byte

	err := s.db.QueryRowContext(ctx, query, strings.ToLower(slug)).Scan(
		&movie.ID,
		&movie.Slug,
		&movie.Name,
		&movie.OriginalName,
		&movie.Year,
		&movie.EpisodeCurrent,
		&movie.Quality,
		&movie.Language,
		&movie.Content,
		&movie.ThumbURL,
		&categories,
		&countries,
		&actors,
		&directors,
		&tags,
		&movie.SeoTitle,
		&movie.SeoDescription,
		&movie.SeoKeywords,
		&movie.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get movie by slug: %w", err)
	}

	for _, col := range []struct {
		raw  []byte
		dest *[]string
	}{
		{categories, &movie.Categories},
		{countries, &movie.Countries},
		{actors, &movie.Actors},
		{directors, &movie.Directors},
		{tags, &movie.Tags},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return nil, fmt.Errorf("failed to decode movie list column: %w", err)
		}
	}

	return movie, nil
}
