package settings

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/AnimeLoL/SeoArr/internal/database"
)

// SiteSettings is the typed view of the site_settings table.
type SiteSettings struct {
	SiteName           string `json:"site_name"`
	SiteURL            string `json:"site_url"`
	DefaultDescription string `json:"default_description"`
	DefaultKeywords    string `json:"default_keywords"`
	FaviconURL         string `json:"favicon_url"`
	AdminPasswordHash  string `json:"-"` // bcrypt hash for the admin API login
}

// SeoSettings is the typed view of the seo_settings table. Template strings
// use %token% placeholders, substituted per request by the template engine.
type SeoSettings struct {
	HomepageTitle       string `json:"homepage_title"`
	HomepageDescription string `json:"homepage_description"`
	HomepageKeywords    string `json:"homepage_keywords"`

	MovieTitleTemplate       string `json:"movie_title_template"`
	MovieDescriptionTemplate string `json:"movie_description_template"`
	MovieKeywordsTemplate    string `json:"movie_keywords_template"`

	GenreTitleTemplate       string `json:"genre_title_template"`
	GenreDescriptionTemplate string `json:"genre_description_template"`

	CountryTitleTemplate       string `json:"country_title_template"`
	CountryDescriptionTemplate string `json:"country_description_template"`

	YearTitleTemplate       string `json:"year_title_template"`
	YearDescriptionTemplate string `json:"year_description_template"`

	DefaultImage    string `json:"default_image"`
	IndexNowKey     string `json:"indexnow_key"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds"`
}

// Settings is one immutable snapshot handed out by the manager.
type Settings struct {
	Site SiteSettings
	Seo  SeoSettings
}

func getDefaultSettings() *Settings {
	return &Settings{
		Site: SiteSettings{
			SiteName:           "AnimeLoL",
			SiteURL:            "",
			DefaultDescription: "Xem phim online chất lượng cao, cập nhật nhanh",
			DefaultKeywords:    "xem phim, phim online, phim vietsub",
		},
		Seo: SeoSettings{
			HomepageTitle:            "%sitename% - Xem Phim Online",
			MovieTitleTemplate:       "%phim% %tap% %chatluong%",
			MovieDescriptionTemplate: "%noidung%",
			MovieKeywordsTemplate:    "%phim%, %phimgoc%, %theloai%",
			GenreTitleTemplate:       "Phim %theloai%",
			CountryTitleTemplate:     "Phim %quocgia%",
			YearTitleTemplate:        "Phim %nam%",
			CacheTTLSeconds:          300,
		},
	}
}

// Manager loads admin-configured settings from the database and hands out
// read-only snapshots. Snapshots are replaced wholesale on reload, never
// mutated.
type Manager struct {
	store    *database.SettingsStore
	settings *Settings
	mu       sync.RWMutex
}

func NewManager(store *database.SettingsStore) *Manager {
	return &Manager{
		store:    store,
		settings: getDefaultSettings(),
	}
}

// Get returns the current settings snapshot.
func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.settings
}

// Load pulls both settings tables and swaps in a fresh snapshot. Keys absent
// from the database keep their defaults.
func (m *Manager) Load(ctx context.Context) error {
	site, err := m.store.SiteSettings(ctx)
	if err != nil {
		return err
	}
	seo, err := m.store.SeoSettings(ctx)
	if err != nil {
		return err
	}

	next := getDefaultSettings()
	applySite(&next.Site, site)
	applySeo(&next.Seo, seo)

	m.mu.Lock()
	m.settings = next
	m.mu.Unlock()
	return nil
}

// RefreshLoop reloads settings on the given interval until ctx is cancelled.
// Errors keep the previous snapshot, so a database blip never drops admin
// configuration.
func (m *Manager) RefreshLoop(ctx context.Context, interval time.Duration, onError func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Load(ctx); err != nil && onError != nil {
				onError(err)
			}
		}
	}
}

func applySite(s *SiteSettings, kv map[string]string) {
	setString(kv, "site_name", &s.SiteName)
	setString(kv, "site_url", &s.SiteURL)
	setString(kv, "default_description", &s.DefaultDescription)
	setString(kv, "default_keywords", &s.DefaultKeywords)
	setString(kv, "favicon_url", &s.FaviconURL)
	setString(kv, "admin_password_hash", &s.AdminPasswordHash)
}

func applySeo(s *SeoSettings, kv map[string]string) {
	setString(kv, "homepage_title", &s.HomepageTitle)
	setString(kv, "homepage_description", &s.HomepageDescription)
	setString(kv, "homepage_keywords", &s.HomepageKeywords)

	setString(kv, "movie_title_template", &s.MovieTitleTemplate)
	setString(kv, "movie_description_template", &s.MovieDescriptionTemplate)
	setString(kv, "movie_keywords_template", &s.MovieKeywordsTemplate)

	setString(kv, "genre_title_template", &s.GenreTitleTemplate)
	setString(kv, "genre_description_template", &s.GenreDescriptionTemplate)

	setString(kv, "country_title_template", &s.CountryTitleTemplate)
	setString(kv, "country_description_template", &s.CountryDescriptionTemplate)

	setString(kv, "year_title_template", &s.YearTitleTemplate)
	setString(kv, "year_description_template", &s.YearDescriptionTemplate)

	setString(kv, "default_image", &s.DefaultImage)
	setString(kv, "indexnow_key", &s.IndexNowKey)
	setInt(kv, "cache_ttl_seconds", &s.CacheTTLSeconds)
}

func setString(kv map[string]string, key string, dest *string) {
	if v, ok := kv[key]; ok && v != "" {
		*dest = v
	}
}

func setInt(kv map[string]string, key string, dest *int) {
	if v, ok := kv[key]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dest = n
		}
	}
}
