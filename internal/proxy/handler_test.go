package proxy

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/AnimeLoL/SeoArr/internal/cache"
	"github.com/AnimeLoL/SeoArr/internal/models"
	"github.com/AnimeLoL/SeoArr/internal/seo"
	"github.com/AnimeLoL/SeoArr/internal/settings"
)

const botUA = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/126.0 Safari/537.36"

const originShell = `<!DOCTYPE html>
<html>
<head>
<title>Loading...</title>
<meta name="description" content="placeholder">
</head>
<body><div id="app"></div><script src="/assets/app.js"></script></body>
</html>`

type fakeMovieSource struct {
	movies map[string]*models.Movie
}

func (f *fakeMovieSource) MovieBySlug(_ context.Context, slug string) (*models.Movie, error) {
	return f.movies[slug], nil
}

type fakeTaxonomySource struct{}

func (fakeTaxonomySource) TaxonomyBySlug(context.Context, string, string) (*models.Taxonomy, error) {
	return nil, nil
}

func newTestHandler(t *testing.T, origin *httptest.Server) (*Handler, *cache.MemoryCache) {
	t.Helper()

	originURL, err := url.Parse(origin.URL)
	if err != nil {
		t.Fatal(err)
	}

	movies := &fakeMovieSource{movies: map[string]*models.Movie{
		"thu-hut-manh-liet": {
			Slug:           "thu-hut-manh-liet",
			Name:           "Thu Hút Mạnh Liệt",
			EpisodeCurrent: "Tập 8",
			Quality:        "FHD",
			Content:        "Một câu chuyện tình yêu đầy kịch tính.",
		},
	}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mgr := settings.NewManager(nil)
	resolver := seo.NewResolver(movies, fakeTaxonomySource{}, mgr, time.Second, logger)
	store := cache.NewMemoryCache()
	h := NewHandler(originURL, store, resolver, mgr, 5*time.Second, 5*time.Minute, logger)
	return h, store
}

func htmlOrigin() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, originShell)
	}))
}

func TestBrowserTrafficPassesThrough(t *testing.T) {
	origin := htmlOrigin()
	defer origin.Close()
	h, _ := newTestHandler(t, origin)

	req := httptest.NewRequest("GET", "http://site.example/phim/thu-hut-manh-liet", nil)
	req.Header.Set("User-Agent", browserUA)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Body.String() != originShell {
		t.Errorf("browser response differs from origin:\n%s", rec.Body.String())
	}
	if rec.Header().Get("X-Cache") != "" {
		t.Error("browser response carries pipeline headers")
	}
}

func TestBotReceivesRewrittenPage(t *testing.T) {
	origin := htmlOrigin()
	defer origin.Close()
	h, _ := newTestHandler(t, origin)

	req := httptest.NewRequest("GET", "http://site.example/phim/thu-hut-manh-liet", nil)
	req.Header.Set("User-Agent", botUA)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<title>Thu Hút Mạnh Liệt Tập 8 FHD - AnimeLoL</title>") {
		t.Errorf("title not rewritten:\n%s", body)
	}
	if !strings.Contains(body, `<div id="app">`) {
		t.Errorf("SPA shell body dropped:\n%s", body)
	}
	if !strings.Contains(body, `rel="canonical" href="http://site.example/phim/thu-hut-manh-liet"`) {
		t.Errorf("canonical not derived from request host:\n%s", body)
	}
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", rec.Header().Get("X-Cache"))
	}
	if rec.Header().Get("Cache-Control") != "public, max-age=300" {
		t.Errorf("Cache-Control = %q, want %q", rec.Header().Get("Cache-Control"), "public, max-age=300")
	}
	if rec.Header().Get("Vary") != "User-Agent" {
		t.Errorf("Vary = %q", rec.Header().Get("Vary"))
	}
}

func TestBotSecondRequestHitsCache(t *testing.T) {
	origin := htmlOrigin()
	defer origin.Close()
	h, _ := newTestHandler(t, origin)

	first := httptest.NewRequest("GET", "http://site.example/phim/thu-hut-manh-liet", nil)
	first.Header.Set("User-Agent", botUA)
	firstRec := httptest.NewRecorder()
	h.ServeHTTP(firstRec, first)

	second := httptest.NewRequest("GET", "http://site.example/phim/thu-hut-manh-liet", nil)
	second.Header.Set("User-Agent", botUA)
	secondRec := httptest.NewRecorder()
	h.ServeHTTP(secondRec, second)

	if secondRec.Header().Get("X-Cache") != "HIT" {
		t.Errorf("X-Cache = %q, want HIT", secondRec.Header().Get("X-Cache"))
	}
	if firstRec.Body.String() != secondRec.Body.String() {
		t.Error("cached body differs from rendered body")
	}
}

func TestBotUnknownSlugPassesThrough(t *testing.T) {
	origin := htmlOrigin()
	defer origin.Close()
	h, _ := newTestHandler(t, origin)

	req := httptest.NewRequest("GET", "http://site.example/phim/khong-ton-tai", nil)
	req.Header.Set("User-Agent", botUA)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Body.String() != originShell {
		t.Errorf("unknown slug should serve origin unchanged:\n%s", rec.Body.String())
	}
}

func TestBotNonHTMLOriginPassesThrough(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"maintenance"}`)
	}))
	defer origin.Close()
	h, store := newTestHandler(t, origin)

	req := httptest.NewRequest("GET", "http://site.example/", nil)
	req.Header.Set("User-Agent", botUA)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Body.String() != `{"status":"maintenance"}` {
		t.Errorf("non-HTML origin response altered:\n%s", rec.Body.String())
	}

	stats, _ := store.Stats(context.Background())
	if stats.Entries != 0 {
		t.Error("non-HTML response was cached")
	}
}

func TestBotStaticAssetPassesThrough(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		io.WriteString(w, "console.log('app')")
	}))
	defer origin.Close()
	h, store := newTestHandler(t, origin)

	req := httptest.NewRequest("GET", "http://site.example/assets/app.js", nil)
	req.Header.Set("User-Agent", botUA)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Body.String() != "console.log('app')" {
		t.Errorf("static asset altered:\n%s", rec.Body.String())
	}

	// The cache is consulted before the router decides the path is not
	// handled, so the lookup registers as a miss.
	stats, _ := store.Stats(context.Background())
	if stats.Misses != 1 {
		t.Errorf("misses = %d, want 1 (lookup precedes routing)", stats.Misses)
	}
}

func TestOriginErrorFallsBackToPassthrough(t *testing.T) {
	// Origin returns 500 for the fetch; the pipeline must fall back to the
	// transparent proxy instead of serving a rewritten error page.
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "origin down")
	}))
	defer origin.Close()
	h, store := newTestHandler(t, origin)

	req := httptest.NewRequest("GET", "http://site.example/phim/thu-hut-manh-liet", nil)
	req.Header.Set("User-Agent", botUA)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want origin's 500", rec.Code)
	}
	stats, _ := store.Stats(context.Background())
	if stats.Entries != 0 {
		t.Error("error response was cached")
	}
}
