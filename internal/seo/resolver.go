package seo

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/AnimeLoL/SeoArr/internal/models"
	"github.com/AnimeLoL/SeoArr/internal/routing"
	"github.com/AnimeLoL/SeoArr/internal/settings"
)

// descriptionBudget is the character budget for meta descriptions after
// markup stripping.
const descriptionBudget = 160

// MovieSource fetches movie records from the content store.
type MovieSource interface {
	MovieBySlug(ctx context.Context, slug string) (*models.Movie, error)
}

// TaxonomySource fetches taxonomy records from the content store.
type TaxonomySource interface {
	TaxonomyBySlug(ctx context.Context, kind, slug string) (*models.Taxonomy, error)
}

// Resolver combines per-entity overrides, admin-configured templates and
// site defaults into a ready-to-render Payload.
type Resolver struct {
	movies     MovieSource
	taxonomies TaxonomySource
	settings   *settings.Manager
	timeout    time.Duration
	logger     *slog.Logger
}

func NewResolver(movies MovieSource, taxonomies TaxonomySource, mgr *settings.Manager, timeout time.Duration, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		movies:     movies,
		taxonomies: taxonomies,
		settings:   mgr,
		timeout:    timeout,
		logger:     logger.With("component", "resolver"),
	}
}

// Resolve produces the SEO payload for a content descriptor. origin is the
// public scheme://host used for canonical URLs. Returns nil, nil when no
// content matches the descriptor; the caller must then fall through to the
// unmodified origin response.
func (r *Resolver) Resolve(ctx context.Context, desc routing.Descriptor, origin string) (*Payload, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	s := r.settings.Get()

	switch desc.Kind {
	case routing.KindHomepage:
		return r.resolveHomepage(s, origin), nil
	case routing.KindMovieDetail:
		return r.resolveMovie(ctx, s, desc.Slug, origin)
	case routing.KindTaxonomy:
		return r.resolveTaxonomy(ctx, s, desc.TaxonomyKind, desc.Slug, origin)
	default:
		return nil, nil
	}
}

func (r *Resolver) resolveHomepage(s settings.Settings, origin string) *Payload {
	vars := Variables{"sitename": s.Site.SiteName}

	title := Coalesce(Substitute(s.Seo.HomepageTitle, vars), s.Site.SiteName)
	title = appendSiteName(title, s.Site.SiteName)

	description := Coalesce(
		s.Seo.HomepageDescription,
		s.Site.DefaultDescription,
		"Xem phim online miễn phí, chất lượng cao",
	)
	keywords := Coalesce(s.Seo.HomepageKeywords, s.Site.DefaultKeywords)

	return &Payload{
		Title:        title,
		Description:  Truncate(StripMarkup(description), descriptionBudget),
		Keywords:     keywords,
		Image:        s.Seo.DefaultImage,
		CanonicalURL: origin + "/",
		SiteName:     s.Site.SiteName,
		FaviconURL:   s.Site.FaviconURL,
		Type:         TypeWebsite,
	}
}

func (r *Resolver) resolveMovie(ctx context.Context, s settings.Settings, slug, origin string) (*Payload, error) {
	movie, err := r.movies.MovieBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("movie lookup failed: %w", err)
	}
	if movie == nil {
		return nil, nil
	}

	vars := movieVariables(movie, s.Site.SiteName)

	title := Coalesce(movie.SeoTitle, Substitute(s.Seo.MovieTitleTemplate, vars), movie.Name)
	title = appendSiteName(title, s.Site.SiteName)

	description := Coalesce(
		movie.SeoDescription,
		Substitute(s.Seo.MovieDescriptionTemplate, vars),
		s.Site.DefaultDescription,
	)

	keywords := Coalesce(
		movie.SeoKeywords,
		Substitute(s.Seo.MovieKeywordsTemplate, vars),
		s.Site.DefaultKeywords,
	)

	return &Payload{
		Title:        title,
		Description:  Truncate(StripMarkup(description), descriptionBudget),
		Keywords:     keywords,
		Image:        Coalesce(movie.ThumbURL, s.Seo.DefaultImage),
		CanonicalURL: origin + "/phim/" + movie.Slug,
		SiteName:     s.Site.SiteName,
		FaviconURL:   s.Site.FaviconURL,
		Type:         TypeVideoMovie,
	}, nil
}

func (r *Resolver) resolveTaxonomy(ctx context.Context, s settings.Settings, kind, slug, origin string) (*Payload, error) {
	tax, err := r.taxonomies.TaxonomyBySlug(ctx, kind, slug)
	if err != nil {
		return nil, fmt.Errorf("taxonomy lookup failed: %w", err)
	}
	if tax == nil {
		return nil, nil
	}

	vars := Variables{"sitename": s.Site.SiteName}
	var titleTpl, descTpl, routePrefix string
	switch kind {
	case models.TaxonomyGenre:
		vars["theloai"] = tax.Name
		titleTpl, descTpl = s.Seo.GenreTitleTemplate, s.Seo.GenreDescriptionTemplate
		routePrefix = "/the-loai/"
	case models.TaxonomyCountry:
		vars["quocgia"] = tax.Name
		titleTpl, descTpl = s.Seo.CountryTitleTemplate, s.Seo.CountryDescriptionTemplate
		routePrefix = "/quoc-gia/"
	case models.TaxonomyYear:
		vars["nam"] = tax.Name
		titleTpl, descTpl = s.Seo.YearTitleTemplate, s.Seo.YearDescriptionTemplate
		routePrefix = "/nam/"
	default:
		return nil, nil
	}

	title := Coalesce(tax.SeoTitle, Substitute(titleTpl, vars), tax.Name)
	title = appendSiteName(title, s.Site.SiteName)

	description := Coalesce(
		tax.SeoDescription,
		Substitute(descTpl, vars),
		s.Site.DefaultDescription,
	)

	return &Payload{
		Title:        title,
		Description:  Truncate(StripMarkup(description), descriptionBudget),
		Keywords:     Coalesce(tax.SeoKeywords, s.Site.DefaultKeywords),
		Image:        s.Seo.DefaultImage,
		CanonicalURL: origin + routePrefix + tax.Slug,
		SiteName:     s.Site.SiteName,
		FaviconURL:   s.Site.FaviconURL,
		Type:         TypeWebsite,
	}, nil
}

// movieVariables builds the substitution context from entity attributes.
func movieVariables(m *models.Movie, siteName string) Variables {
	year := ""
	if m.Year > 0 {
		year = strconv.Itoa(m.Year)
	}
	return Variables{
		"sitename":  siteName,
		"phim":      m.Name,
		"phimgoc":   m.OriginalName,
		"theloai":   strings.Join(m.Categories, ", "),
		"quocgia":   strings.Join(m.Countries, ", "),
		"nam":       year,
		"tag":       strings.Join(m.Tags, ", "),
		"dienvien":  strings.Join(m.Actors, ", "),
		"daodien":   strings.Join(m.Directors, ", "),
		"tap":       m.EpisodeCurrent,
		"chatluong": m.Quality,
		"ngonngu":   m.Language,
		"noidung":   StripMarkup(m.Content),
		"thumb":     m.ThumbURL,
	}
}

// appendSiteName appends " - {siteName}" unless the title already contains
// the site name (case-insensitive).
func appendSiteName(title, siteName string) string {
	if siteName == "" || title == "" {
		return Coalesce(title, siteName)
	}
	if strings.Contains(strings.ToLower(title), strings.ToLower(siteName)) {
		return title
	}
	return title + " - " + siteName
}
