package routing

import (
	"testing"

	"github.com/AnimeLoL/SeoArr/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Descriptor
	}{
		{"/", Descriptor{Kind: KindHomepage}},
		{"", Descriptor{Kind: KindHomepage}},
		{"/index.html", Descriptor{Kind: KindHomepage}},
		{"/INDEX.HTML", Descriptor{Kind: KindHomepage}},

		{"/phim/thu-hut-manh-liet", Descriptor{Kind: KindMovieDetail, Slug: "thu-hut-manh-liet"}},
		{"/phim/thu-hut-manh-liet/", Descriptor{Kind: KindMovieDetail, Slug: "thu-hut-manh-liet"}},
		{"/PHIM/Thu-Hut", Descriptor{Kind: KindMovieDetail, Slug: "Thu-Hut"}},
		{"/phim/", Descriptor{Kind: KindUnhandled}},
		{"/phim/a/b", Descriptor{Kind: KindUnhandled}},

		{"/the-loai/hanh-dong", Descriptor{Kind: KindTaxonomy, TaxonomyKind: models.TaxonomyGenre, Slug: "hanh-dong"}},
		{"/quoc-gia/han-quoc/", Descriptor{Kind: KindTaxonomy, TaxonomyKind: models.TaxonomyCountry, Slug: "han-quoc"}},
		{"/nam/2026", Descriptor{Kind: KindTaxonomy, TaxonomyKind: models.TaxonomyYear, Slug: "2026"}},
		{"/the-loai/", Descriptor{Kind: KindUnhandled}},

		{"/assets/app.js", Descriptor{Kind: KindUnhandled}},
		{"/style.css", Descriptor{Kind: KindUnhandled}},
		{"/favicon.ico", Descriptor{Kind: KindUnhandled}},
		{"/phim/poster.jpg", Descriptor{Kind: KindUnhandled}},
		{"/sitemap.xml", Descriptor{Kind: KindUnhandled}},
		{"/api/v1/health", Descriptor{Kind: KindUnhandled}},
		{"/tim-kiem", Descriptor{Kind: KindUnhandled}},
	}

	for _, tt := range tests {
		if got := Classify(tt.path); got != tt.want {
			t.Errorf("Classify(%q) = %+v, want %+v", tt.path, got, tt.want)
		}
	}
}
