// Package routing maps inbound URL paths to content descriptors the metadata
// resolver can act on.
package routing

import (
	"path"
	"strings"

	"github.com/AnimeLoL/SeoArr/internal/models"
)

type Kind int

const (
	// KindUnhandled means the pipeline must not intervene: the request is
	// passed through to the origin untouched.
	KindUnhandled Kind = iota
	KindHomepage
	KindMovieDetail
	KindTaxonomy
)

// Descriptor identifies what content an inbound path refers to. Exactly one
// variant is active per request.
type Descriptor struct {
	Kind         Kind
	Slug         string
	TaxonomyKind string // set only for KindTaxonomy
}

// staticExtensions short-circuit to Unhandled so non-HTML resources never
// reach the resolver.
var staticExtensions = map[string]bool{
	".js": true, ".css": true, ".map": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
	".avif": true, ".svg": true, ".ico": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,
	".json": true, ".xml": true, ".txt": true,
}

// taxonomy route families, prefix → kind
var taxonomyRoutes = []struct {
	prefix string
	kind   string
}{
	{"/the-loai/", models.TaxonomyGenre},
	{"/quoc-gia/", models.TaxonomyCountry},
	{"/nam/", models.TaxonomyYear},
}

// Classify maps a request path to a content descriptor. It is total: every
// input yields exactly one descriptor and it never panics. Prefix matching is
// case-insensitive; slug casing is preserved.
func Classify(p string) Descriptor {
	if p == "" || p == "/" || strings.EqualFold(p, "/index.html") {
		return Descriptor{Kind: KindHomepage}
	}

	if staticExtensions[strings.ToLower(path.Ext(p))] {
		return Descriptor{Kind: KindUnhandled}
	}

	lower := strings.ToLower(p)

	if strings.HasPrefix(lower, "/phim/") {
		if slug, ok := singleSegment(p[len("/phim/"):]); ok {
			return Descriptor{Kind: KindMovieDetail, Slug: slug}
		}
		return Descriptor{Kind: KindUnhandled}
	}

	for _, route := range taxonomyRoutes {
		if strings.HasPrefix(lower, route.prefix) {
			if slug, ok := singleSegment(p[len(route.prefix):]); ok {
				return Descriptor{Kind: KindTaxonomy, TaxonomyKind: route.kind, Slug: slug}
			}
			return Descriptor{Kind: KindUnhandled}
		}
	}

	return Descriptor{Kind: KindUnhandled}
}

// singleSegment accepts exactly one non-empty path segment, with an optional
// trailing slash.
func singleSegment(rest string) (string, bool) {
	rest = strings.TrimSuffix(rest, "/")
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
