package botdetect

import (
	"net/http"
	"testing"
)

func TestIsBot(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want bool
	}{
		{
			name: "googlebot",
			ua:   "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			want: true,
		},
		{
			name: "bingbot",
			ua:   "Mozilla/5.0 (compatible; bingbot/2.0; +http://www.bing.com/bingbot.htm)",
			want: true,
		},
		{
			name: "coccoc",
			ua:   "Mozilla/5.0 (compatible; coccocbot-web/1.0; +http://help.coccoc.com/searchengine)",
			want: true,
		},
		{
			name: "facebook unfurler",
			ua:   "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)",
			want: true,
		},
		{
			name: "zalo unfurler",
			ua:   "Mozilla/5.0 ZaloPC-win32-24v473 Zalo",
			want: true,
		},
		{
			name: "telegram",
			ua:   "TelegramBot (like TwitterBot)",
			want: true,
		},
		{
			name: "chrome desktop",
			ua:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36",
			want: false,
		},
		{
			name: "safari ios",
			ua:   "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 Version/17.5 Mobile Safari/604.1",
			want: false,
		},
		{
			name: "empty user agent",
			ua:   "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.ua != "" {
				h.Set("User-Agent", tt.ua)
			}
			if got := IsBot(h); got != tt.want {
				t.Errorf("IsBot(%q) = %v, want %v", tt.ua, got, tt.want)
			}
		})
	}
}

func TestIsBotPrefetchHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0) Chrome/126.0")
	h.Set("Purpose", "prefetch")
	if !IsBot(h) {
		t.Error("Purpose: prefetch not detected")
	}

	h = http.Header{}
	h.Set("Sec-Purpose", "prefetch;prerender")
	if !IsBot(h) {
		t.Error("Sec-Purpose: prefetch not detected")
	}

	h = http.Header{}
	h.Set("Purpose", "navigation")
	if IsBot(h) {
		t.Error("non-prefetch Purpose misclassified as bot")
	}
}
