// Package rewrite transforms the origin's SPA shell HTML so crawlers see
// resolved titles, descriptions and Open Graph tags. The transform is a
// single forward streaming pass over the tokenizer; the document is never
// materialized as a DOM.
package rewrite

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/AnimeLoL/SeoArr/internal/seo"
)

const (
	keyTitle     = "title"
	keyCanonical = "canonical"
)

// metaAttrKey lists the managed meta tags and whether each is addressed by
// name= or property= when injected. Rewrites of existing tags keep whichever
// attribute the origin used.
var metaAttrKey = map[string]string{
	"description":         "name",
	"keywords":            "name",
	"twitter:card":        "name",
	"twitter:title":       "name",
	"twitter:description": "name",
	"twitter:image":       "name",
	"og:title":            "property",
	"og:description":      "property",
	"og:type":             "property",
	"og:site_name":        "property",
	"og:url":              "property",
	"og:image":            "property",
	"og:image:alt":        "property",
}

// injectOrder fixes the emission order for tags missing from the origin head.
var injectOrder = []string{
	"description",
	"keywords",
	"og:title",
	"og:description",
	"og:type",
	"og:site_name",
	"og:url",
	"og:image",
	"og:image:alt",
	"twitter:card",
	"twitter:title",
	"twitter:description",
	"twitter:image",
}

// Rewriter applies one payload to one HTML document.
type Rewriter struct {
	payload seo.Payload
	origin  string // scheme://host for absolutizing site-relative URLs
}

func New(payload seo.Payload, origin string) *Rewriter {
	return &Rewriter{payload: payload, origin: strings.TrimRight(origin, "/")}
}

// Rewrite streams src to dst, substituting managed head tags and passing
// every other token through byte for byte. Payload-derived values are
// HTML-escaped here, and only here. The only error source is the underlying
// reader: the tokenizer itself is lenient and accepts malformed markup.
func (rw *Rewriter) Rewrite(dst io.Writer, src io.Reader) error {
	z := html.NewTokenizer(src)
	w := bufio.NewWriter(dst)
	seen := make(map[string]bool)
	injected := false

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return err
			}
			return w.Flush()
		}

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()

			switch string(name) {
			case "title":
				if tt == html.StartTagToken && !seen[keyTitle] {
					seen[keyTitle] = true
					fmt.Fprintf(w, "<title>%s</title>", html.EscapeString(rw.payload.Title))
					if err := skipTitleText(z); err != nil {
						if err == io.EOF {
							return w.Flush()
						}
						return err
					}
					continue
				}

			case "meta":
				if hasAttr {
					attrs := readAttrs(z)
					if key, attrKey, ok := managedMeta(attrs); ok {
						seen[key] = true
						if value, write := rw.contentFor(key); write {
							rw.writeMeta(w, attrKey, key, value)
							continue
						}
					}
				}

			case "link":
				if hasAttr {
					attrs := readAttrs(z)
					switch rel := strings.ToLower(attrs["rel"]); {
					case rel == "canonical":
						seen[keyCanonical] = true
						fmt.Fprintf(w, `<link rel="canonical" href="%s">`, html.EscapeString(rw.payload.CanonicalURL))
						continue
					case (rel == "icon" || rel == "shortcut icon") && rw.payload.FaviconURL != "":
						fmt.Fprintf(w, `<link rel="%s" href="%s">`, rel, html.EscapeString(rw.absoluteURL(rw.payload.FaviconURL)))
						continue
					}
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "head" && !injected {
				injected = true
				rw.injectMissing(w, seen)
			}
		}

		if _, err := w.Write(z.Raw()); err != nil {
			return err
		}
	}
}

// contentFor maps a managed tag key to its payload value. The second return
// is false when the original tag should be left untouched (image tags with no
// resolved image).
func (rw *Rewriter) contentFor(key string) (string, bool) {
	p := rw.payload
	switch key {
	case "description", "og:description", "twitter:description":
		return p.Description, true
	case "keywords":
		// Empty keywords keep the tag with empty content; injection of a
		// fresh tag is skipped elsewhere.
		return p.Keywords, true
	case "og:title", "twitter:title":
		return p.Title, true
	case "og:image:alt":
		return p.Title, p.Image != ""
	case "og:type":
		return string(p.Type), true
	case "og:site_name":
		return p.SiteName, true
	case "og:url":
		return p.CanonicalURL, true
	case "og:image", "twitter:image":
		img := rw.absoluteURL(p.Image)
		return img, img != ""
	case "twitter:card":
		if p.Image != "" {
			return "summary_large_image", true
		}
		return "summary", true
	}
	return "", false
}

func (rw *Rewriter) writeMeta(w io.Writer, attrKey, key, value string) {
	fmt.Fprintf(w, `<meta %s="%s" content="%s">`, attrKey, key, html.EscapeString(value))
}

// injectMissing appends managed tags the origin head never emitted. Existing
// tags were already overwritten in place, so this never clobbers origin
// content.
func (rw *Rewriter) injectMissing(w io.Writer, seen map[string]bool) {
	p := rw.payload

	if !seen[keyTitle] && p.Title != "" {
		fmt.Fprintf(w, "<title>%s</title>\n", html.EscapeString(p.Title))
	}

	for _, key := range injectOrder {
		if seen[key] {
			continue
		}
		value, ok := rw.contentFor(key)
		if !ok || value == "" {
			continue
		}
		rw.writeMeta(w, metaAttrKey[key], key, value)
		io.WriteString(w, "\n")
	}

	if !seen[keyCanonical] && p.CanonicalURL != "" {
		fmt.Fprintf(w, "<link rel=\"canonical\" href=\"%s\">\n", html.EscapeString(p.CanonicalURL))
	}
}

func (rw *Rewriter) absoluteURL(u string) string {
	switch {
	case u == "":
		return ""
	case strings.HasPrefix(u, "http://"), strings.HasPrefix(u, "https://"):
		return u
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case strings.HasPrefix(u, "/"):
		return rw.origin + u
	default:
		return rw.origin + "/" + u
	}
}

// managedMeta reports whether a meta tag's name/property addresses a managed
// key, and which attribute the origin used.
func managedMeta(attrs map[string]string) (key, attrKey string, ok bool) {
	for _, candidate := range []string{"name", "property"} {
		v, present := attrs[candidate]
		if !present {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(v))
		if _, managed := metaAttrKey[k]; managed {
			return k, candidate, true
		}
	}
	return "", "", false
}

func readAttrs(z *html.Tokenizer) map[string]string {
	attrs := make(map[string]string)
	for {
		k, v, more := z.TagAttr()
		attrs[strings.ToLower(string(k))] = string(v)
		if !more {
			return attrs
		}
	}
}

// skipTitleText consumes the origin title's text up to and including the
// closing tag; the replacement element was already written.
func skipTitleText(z *html.Tokenizer) error {
	for {
		switch z.Next() {
		case html.ErrorToken:
			return z.Err()
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "title" {
				return nil
			}
		}
	}
}
