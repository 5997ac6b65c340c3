package content

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultAuthor is used whenever a post carries no author relation.
var DefaultAuthor = Author{
	Name:  "Lumiso Team",
	Title: "Lumiso",
}

const DefaultTitle = "Untitled post"

type Author struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Post is the normalized article record shown on the blog, regardless of
// whether it came from the remote content service or from bundled markdown.
type Post struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`

	PublishedAt time.Time `json:"publishedAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`

	Excerpt  string   `json:"excerpt,omitempty"`
	ReadTime string   `json:"readTime,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	Content string `json:"content,omitempty"`

	CoverImageURL string `json:"coverImageUrl,omitempty"`
	CoverImageAlt string `json:"coverImageAlt,omitempty"`

	Author Author `json:"author"`

	URL string `json:"url,omitempty"`
}

// Normalize enforces the Post invariant: non-empty ID and Title, trimmed
// strings, deduplicated tags, defaults for author and URL.
func (p *Post) Normalize() {
	p.ID = strings.TrimSpace(p.ID)
	p.Slug = strings.TrimSpace(p.Slug)
	p.Title = strings.TrimSpace(p.Title)
	p.Category = strings.TrimSpace(p.Category)
	p.Tags = normalizeStrings(p.Tags)

	if p.ID == "" {
		p.ID = p.Slug
	}
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.PublishedAt.IsZero() {
		p.PublishedAt = p.UpdatedAt
	}
	if p.Author.Name == "" {
		p.Author.Name = DefaultAuthor.Name
	}
	if p.Author.Title == "" {
		p.Author.Title = DefaultAuthor.Title
	}
	if p.ReadTime == "" && p.Content != "" {
		p.ReadTime = ReadTime(p.Content)
	}
	if p.URL == "" && p.Slug != "" {
		p.URL = "/blog/" + p.Slug
	}
}

// ReadTime estimates reading time from the word count of text, at 200 words
// per minute, never reporting less than one minute.
func ReadTime(text string) string {
	words := len(strings.Fields(text))
	mins := int(math.Round(float64(words) / 200))
	if mins < 1 {
		mins = 1
	}
	return fmt.Sprintf("%d min read", mins)
}

// Excerpt returns an explicit summary when present, else a truncated prefix
// of the body cut at a word boundary.
func Excerpt(explicit, body string, maxLen int) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}
	body = strings.Join(strings.Fields(body), " ")
	if body == "" || maxLen <= 0 {
		return ""
	}
	if len(body) <= maxLen {
		return body
	}
	cut := body[:maxLen]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	// the byte cut can land mid-rune when there is no space to back up to
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size != 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut + "…"
}

func normalizeStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		item = strings.ToLower(item)
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
