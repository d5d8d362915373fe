// Package botdetect decides whether a request comes from a crawler or
// link-unfurler that should receive server-rendered metadata instead of the
// SPA shell.
package botdetect

import (
	"net/http"
	"strings"
)

// signatures is the allow-list of known crawler and unfurler User-Agent
// fragments, lowercase. Generic browser UAs match none of these.
var signatures = []string{
	// search engines
	"googlebot",
	"bingbot",
	"yandexbot",
	"baiduspider",
	"duckduckbot",
	"slurp", // Yahoo
	"applebot",
	"petalbot",
	"coccocbot", // Cốc Cốc, dominant in the Vietnamese market
	"seznambot",

	// social link preview fetchers
	"facebookexternalhit",
	"facebot",
	"twitterbot",
	"linkedinbot",
	"pinterestbot",
	"redditbot",

	// messenger unfurlers
	"slackbot",
	"telegrambot",
	"whatsapp",
	"discordbot",
	"skypeuripreview",
	"viber",
	"zalo",

	// generic prerender probes
	"embedly",
	"quora link preview",
	"rogerbot",
	"screaming frog",
}

// IsBot reports whether the request headers identify a crawler or unfurler.
// The User-Agent is matched case-insensitively against the signature list;
// failing that, a Purpose/Sec-Purpose header containing "prefetch" counts as
// bot-like. Unknown input defaults to false so humans always get the SPA.
func IsBot(h http.Header) bool {
	if ua := strings.ToLower(h.Get("User-Agent")); ua != "" {
		for _, sig := range signatures {
			if strings.Contains(ua, sig) {
				return true
			}
		}
	}

	purpose := h.Get("Purpose")
	if purpose == "" {
		purpose = h.Get("Sec-Purpose")
	}
	return strings.Contains(strings.ToLower(purpose), "prefetch")
}
