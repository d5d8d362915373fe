// Package proxy is the request-facing pipeline: bot detection, cache lookup,
// metadata resolution, origin fetch and head rewrite. Every failure path
// degrades to a transparent reverse proxy so browser traffic is never
// affected by the rewriting machinery.
package proxy

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/AnimeLoL/SeoArr/internal/botdetect"
	"github.com/AnimeLoL/SeoArr/internal/cache"
	"github.com/AnimeLoL/SeoArr/internal/rewrite"
	"github.com/AnimeLoL/SeoArr/internal/routing"
	"github.com/AnimeLoL/SeoArr/internal/seo"
	"github.com/AnimeLoL/SeoArr/internal/settings"
)

// Handler serves all non-API traffic. Bot requests for handled routes get
// rewritten HTML; everything else is proxied to the origin untouched.
type Handler struct {
	originURL  *url.URL
	passthru   *httputil.ReverseProxy
	client     *http.Client
	cache      cache.Cache
	resolver   *seo.Resolver
	settings   *settings.Manager
	defaultTTL time.Duration
	logger     *slog.Logger
}

func NewHandler(originURL *url.URL, store cache.Cache, resolver *seo.Resolver, mgr *settings.Manager, originTimeout, defaultTTL time.Duration, logger *slog.Logger) *Handler {
	return &Handler{
		originURL:  originURL,
		passthru:   httputil.NewSingleHostReverseProxy(originURL),
		client:     &http.Client{Timeout: originTimeout},
		cache:      store,
		resolver:   resolver,
		settings:   mgr,
		defaultTTL: defaultTTL,
		logger:     logger.With("component", "proxy"),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.passthru.ServeHTTP(w, r)
		return
	}
	if !botdetect.IsBot(r.Header) {
		h.passthru.ServeHTTP(w, r)
		return
	}

	key := cache.Key(r.URL)
	if entry, err := h.cache.Get(r.Context(), key); err != nil {
		h.logger.Warn("cache lookup failed", "key", key, "error", err)
	} else if entry != nil {
		h.writeEntry(w, r, entry, "HIT")
		return
	}

	desc := routing.Classify(r.URL.Path)
	if desc.Kind == routing.KindUnhandled {
		h.passthru.ServeHTTP(w, r)
		return
	}

	entry, err := h.render(r, desc)
	if err != nil {
		h.logger.Warn("render failed, passing through", "path", r.URL.Path, "error", err)
		h.passthru.ServeHTTP(w, r)
		return
	}
	if entry == nil {
		// Handled route shape but nothing to rewrite (unknown slug,
		// non-HTML origin response). Serve the origin as-is.
		h.passthru.ServeHTTP(w, r)
		return
	}

	if err := h.cache.Put(r.Context(), key, entry); err != nil {
		h.logger.Warn("cache store failed", "key", key, "error", err)
	}
	h.writeEntry(w, r, entry, "MISS")
}

// render resolves metadata and produces the rewritten response body. A nil
// entry with nil error means the request should fall back to passthrough.
func (h *Handler) render(r *http.Request, desc routing.Descriptor) (*cache.Entry, error) {
	base := h.publicBase(r)

	payload, err := h.resolver.Resolve(r.Context(), desc, base)
	if err != nil {
		return nil, fmt.Errorf("resolving metadata: %w", err)
	}
	if payload == nil {
		return nil, nil
	}

	resp, err := h.fetchOrigin(r)
	if err != nil {
		return nil, fmt.Errorf("fetching origin: %w", err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode != http.StatusOK || !isHTML(contentType) {
		return nil, nil
	}

	var buf bytes.Buffer
	rw := rewrite.New(*payload, base)
	if err := rw.Rewrite(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("rewriting response: %w", err)
	}

	return &cache.Entry{
		Status:      resp.StatusCode,
		ContentType: contentType,
		Body:        buf.Bytes(),
		ExpiresAt:   time.Now().Add(h.ttl()),
	}, nil
}

func (h *Handler) fetchOrigin(r *http.Request) (*http.Response, error) {
	target := *h.originURL
	target.Path = r.URL.Path
	target.RawQuery = r.URL.RawQuery

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.UserAgent())
	req.Header.Set("Accept", "text/html")
	return h.client.Do(req)
}

func (h *Handler) writeEntry(w http.ResponseWriter, r *http.Request, entry *cache.Entry, cacheStatus string) {
	// Round up so a freshly stored entry advertises its full TTL.
	maxAge := int(math.Ceil(time.Until(entry.ExpiresAt).Seconds()))
	if maxAge < 0 {
		maxAge = 0
	}
	w.Header().Set("Content-Type", entry.ContentType)
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
	w.Header().Set("Vary", "User-Agent")
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(entry.Status)
	if r.Method != http.MethodHead {
		w.Write(entry.Body)
	}
}

// publicBase is the absolute URL canonical links are built against: the
// configured site URL when set, otherwise the incoming request's host.
func (h *Handler) publicBase(r *http.Request) string {
	if site := strings.TrimRight(h.settings.Get().Site.SiteURL, "/"); site != "" {
		return site
	}
	return deriveProtocol(r) + "://" + r.Host
}

func (h *Handler) ttl() time.Duration {
	if secs := h.settings.Get().Seo.CacheTTLSeconds; secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return h.defaultTTL
}

func deriveProtocol(r *http.Request) string {
	switch {
	case r.TLS != nil:
		return "https"
	case r.Header.Get("X-Forwarded-Proto") != "":
		return r.Header.Get("X-Forwarded-Proto")
	default:
		return "http"
	}
}

func isHTML(contentType string) bool {
	mediaType := contentType
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
