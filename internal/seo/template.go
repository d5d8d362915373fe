package seo

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Variables is the substitution context for admin-configured templates: token
// name to value. Tokens absent from the map substitute to the empty string.
type Variables map[string]string

// recognizedTokens are the placeholder names admins may use in templates.
// Anything else between percent signs is treated as literal text.
var recognizedTokens = map[string]bool{
	"sitename":  true,
	"phim":      true,
	"phimgoc":   true,
	"theloai":   true,
	"quocgia":   true,
	"nam":       true,
	"tag":       true,
	"dienvien":  true,
	"daodien":   true,
	"tap":       true,
	"chatluong": true,
	"ngonngu":   true,
	"noidung":   true,
	"thumb":     true,
}

var tokenPattern = regexp.MustCompile(`%[a-zA-Z]+%`)

var stripPolicy = bluemonday.StrictPolicy()

// Substitute replaces every recognized %token% in template with its value.
// Matching is case-insensitive; recognized tokens with no value become the
// empty string, unrecognized tokens pass through untouched. Whitespace runs
// left behind by empty values are collapsed and the result trimmed.
func Substitute(template string, vars Variables) string {
	out := tokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		token := strings.ToLower(match[1 : len(match)-1])
		if !recognizedTokens[token] {
			return match
		}
		return vars[token]
	})
	return collapseWhitespace(out)
}

// StripMarkup removes tags and decodes entities from rich-text fields so
// synopsis HTML can be used in descriptions and keywords.
func StripMarkup(s string) string {
	if s == "" {
		return ""
	}
	text := stripPolicy.Sanitize(s)
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, " ", " ")
	return collapseWhitespace(text)
}

// Truncate cuts text to maxLen-3 characters plus an ellipsis when it exceeds
// maxLen. Cuts happen on rune boundaries, never mid-codepoint.
func Truncate(s string, maxLen int) string {
	if maxLen <= 3 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

// Coalesce returns the first value that is non-empty after trimming. It is
// the ordered-precedence lookup behind every fallback chain in the resolver.
func Coalesce(vals ...string) string {
	for _, v := range vals {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

// collapseWhitespace trims leading/trailing whitespace and collapses
// internal whitespace sequences to single spaces.
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
