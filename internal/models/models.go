package models

import "time"

// Movie is a catalog entry as read from the content store. Rich-text fields
// (Content) may contain HTML produced by the admin editor and must be treated
// as untrusted.
type Movie struct {
	ID             int64     `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	OriginalName   string    `json:"original_name"`
	Year           int       `json:"year"`
	EpisodeCurrent string    `json:"episode_current"` // e.g. "Tập 8", "Full"
	Quality        string    `json:"quality"`         // e.g. "FHD", "HD"
	Language       string    `json:"lang"`            // e.g. "Vietsub"
	Content        string    `json:"content"`         // synopsis, rich text
	ThumbURL       string    `json:"thumb_url"`
	Categories     []string  `json:"categories"`
	Countries      []string  `json:"countries"`
	Actors         []string  `json:"actors"`
	Directors      []string  `json:"directors"`
	Tags           []string  `json:"tags"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Per-movie SEO overrides. When SeoTitle is set, templates are bypassed
	// for this entry.
	SeoTitle       string `json:"seo_title,omitempty"`
	SeoDescription string `json:"seo_description,omitempty"`
	SeoKeywords    string `json:"seo_keywords,omitempty"`
}

// Taxonomy kinds mirror the public listing route families.
const (
	TaxonomyGenre   = "genre"
	TaxonomyCountry = "country"
	TaxonomyYear    = "year"
)

// Taxonomy is a classification axis entry (genre, country, release year).
type Taxonomy struct {
	ID   int64  `json:"id"`
	Kind string `json:"kind"`
	Slug string `json:"slug"`
	Name string `json:"name"`

	SeoTitle       string `json:"seo_title,omitempty"`
	SeoDescription string `json:"seo_description,omitempty"`
	SeoKeywords    string `json:"seo_keywords,omitempty"`
}
