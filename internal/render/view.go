package render

import (
	"html/template"
	"time"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/config"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/content"
)

type Heading struct {
	Level int
	ID    string
	Text  string
}

// HomePage is the main marketing composition: hero, features, testimonials,
// pricing and FAQ all live in the theme templates; the view only carries the
// dynamic strips.
type HomePage struct {
	Site        config.SiteConfig
	LatestPosts []content.Post
	LegalLinks  []LegalLink
	Generated   time.Time
	Title       string
}

type BlogListPage struct {
	Site config.SiteConfig

	Posts []content.Post
	// RemoteSource is true when the list came from the content service
	// rather than bundled content.
	RemoteSource bool
	// Note is a non-blocking status line, e.g. "showing bundled articles".
	Note string

	Generated time.Time
	Title     string
}

type BlogPostPage struct {
	Site config.SiteConfig
	Post content.Post
	HTML template.HTML
	TOC  []Heading

	Title string
}

type LegalLink struct {
	Slug  string
	Title string
}

type LegalListPage struct {
	Site  config.SiteConfig
	Docs  []LegalLink
	Title string
}

type LegalDocPage struct {
	Site config.SiteConfig

	Slug        string
	Version     string
	LastUpdated string
	HTML        template.HTML

	Title string
}

type NotFoundPage struct {
	Site config.SiteConfig
	Path string
}
