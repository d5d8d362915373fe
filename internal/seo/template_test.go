package seo

import (
	"strings"
	"testing"
)

func TestSubstitute(t *testing.T) {
	vars := Variables{
		"phim":      "Thu Hút Mạnh Liệt",
		"tap":       "Tập 8",
		"chatluong": "FHD",
		"sitename":  "AnimeLoL",
	}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "basic tokens",
			template: "%phim% %tap% %chatluong%",
			want:     "Thu Hút Mạnh Liệt Tập 8 FHD",
		},
		{
			name:     "case insensitive token names",
			template: "%PHIM% - %SiteName%",
			want:     "Thu Hút Mạnh Liệt - AnimeLoL",
		},
		{
			name:     "unrecognized token passes through",
			template: "%phim% %giatien%",
			want:     "Thu Hút Mạnh Liệt %giatien%",
		},
		{
			name:     "missing value collapses whitespace",
			template: "Xem %phim%  %nam%  online",
			want:     "Xem Thu Hút Mạnh Liệt online",
		},
		{
			name:     "no tokens",
			template: "Xem phim hay",
			want:     "Xem phim hay",
		},
		{
			name:     "empty template",
			template: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Substitute(tt.template, vars); got != tt.want {
				t.Errorf("Substitute(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "tags removed",
			in:   "<p>Phim <b>hay</b> nhất</p>",
			want: "Phim hay nhất",
		},
		{
			name: "entities decoded",
			in:   "T&ocirc;i &amp; b&#7841;n",
			want: "Tôi & bạn",
		},
		{
			name: "script content dropped",
			in:   `Mở đầu<script>alert("x")</script> phim`,
			want: "Mở đầu phim",
		},
		{
			name: "whitespace collapsed",
			in:   "<p>Dòng một</p>\n\n<p>Dòng   hai</p>",
			want: "Dòng một Dòng hai",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.in); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("ngắn", 160); got != "ngắn" {
		t.Errorf("short string changed: %q", got)
	}

	long := strings.Repeat("phim hay ", 30) // 270 chars
	got := Truncate(long, 160)
	if len([]rune(got)) != 160 {
		t.Errorf("truncated length = %d runes, want 160", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated string missing ellipsis: %q", got)
	}

	// Multibyte text must be cut on rune boundaries.
	viet := strings.Repeat("mạnh liệt ", 30)
	if cut := Truncate(viet, 50); !strings.HasSuffix(cut, "...") || len([]rune(cut)) != 50 {
		t.Errorf("multibyte truncate = %q (%d runes)", cut, len([]rune(cut)))
	}

	// Tiny budgets leave the string alone rather than producing bare dots.
	if got := Truncate("abcdef", 3); got != "abcdef" {
		t.Errorf("Truncate with budget 3 = %q", got)
	}
}

func TestTruncateIdempotent(t *testing.T) {
	inputs := []string{
		"ngắn",
		strings.Repeat("xem phim online ", 20),
		strings.Repeat("liệt ", 64),
	}
	for _, in := range inputs {
		once := Truncate(in, 160)
		twice := Truncate(once, 160)
		if once != twice {
			t.Errorf("Truncate not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "  ", "thứ ba", "thứ tư"); got != "thứ ba" {
		t.Errorf("Coalesce = %q, want %q", got, "thứ ba")
	}
	if got := Coalesce("", "   "); got != "" {
		t.Errorf("Coalesce of empties = %q, want empty", got)
	}
	if got := Coalesce(); got != "" {
		t.Errorf("Coalesce with no args = %q, want empty", got)
	}
}
