package seo

// PageType drives the og:type tag.
type PageType string

const (
	TypeWebsite    PageType = "website"
	TypeVideoMovie PageType = "video.movie"
	TypeArticle    PageType = "article"
)

// Payload is the resolved, ready-to-render metadata for one page. It is
// constructed fresh per request and never mutated afterwards. Values are
// unescaped; the rewrite engine escapes them exactly once on output.
type Payload struct {
	Title        string
	Description  string
	Keywords     string
	Image        string // absolute or site-relative, absolutized by the rewriter
	CanonicalURL string
	SiteName     string
	FaviconURL   string
	Type         PageType
}
