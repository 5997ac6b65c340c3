package cms

import (
	"fmt"
	"strings"
	"time"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/content"
)

// The content service returns entries either flat or with their fields nested
// under an "attributes" container, depending on version. unwrapEntity folds
// both into one shape before any field mapping runs.
func unwrapEntity(raw map[string]any) map[string]any {
	attrs, ok := raw["attributes"].(map[string]any)
	if !ok {
		return raw
	}
	out := make(map[string]any, len(attrs)+1)
	for k, v := range attrs {
		out[k] = v
	}
	if id, ok := raw["id"]; ok {
		out["id"] = id
	}
	return out
}

func normalizePost(raw map[string]any, baseURL string) content.Post {
	e := unwrapEntity(raw)

	var p content.Post
	p.Slug = stringField(e, "slug")
	p.ID = p.Slug
	if p.ID == "" {
		if id, ok := numberField(e, "id"); ok {
			p.ID = fmt.Sprintf("post-%d", id)
		}
	}
	p.Title = firstString(e, "title", "name")

	p.PublishedAt = timeField(e, "publishedAt", "published_at", "date")
	p.UpdatedAt = timeField(e, "updatedAt", "updated_at")

	p.Content = firstString(e, "content", "body")
	if p.Content == "" {
		p.Content = blockContent(e["blocks"])
	}

	p.Excerpt = content.Excerpt(firstString(e, "excerpt", "description"), p.Content, 180)
	p.ReadTime = stringField(e, "readTime")
	p.Category = resolveCategory(e["category"])
	p.Tags = stringList(e["tags"])

	p.CoverImageURL, p.CoverImageAlt = resolveMedia(e, "cover", "coverImage", "image")
	p.CoverImageURL = absoluteURL(baseURL, p.CoverImageURL)

	p.Author = resolveAuthor(e["author"], baseURL)

	p.URL = firstString(e, "url", "externalUrl", "external_url")

	p.Normalize()
	return p
}

// resolveMedia checks each candidate field in order and keeps the first one
// that yields a URL: either a relation wrapper with nested data or a flat
// media object.
func resolveMedia(e map[string]any, keys ...string) (url, alt string) {
	for _, key := range keys {
		m := mediaObject(e[key])
		if m == nil {
			continue
		}
		if u := stringField(m, "url"); u != "" {
			return u, firstString(m, "alternativeText", "alt")
		}
	}
	return "", ""
}

func mediaObject(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	if data, ok := m["data"].(map[string]any); ok {
		return unwrapEntity(data)
	}
	if _, hasURL := m["url"]; hasURL {
		return m
	}
	return nil
}

func resolveCategory(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case map[string]any:
		if data, ok := c["data"].(map[string]any); ok {
			return stringField(unwrapEntity(data), "name")
		}
		return stringField(c, "name")
	}
	return ""
}

func resolveAuthor(v any, baseURL string) content.Author {
	m, ok := v.(map[string]any)
	if !ok {
		return content.DefaultAuthor
	}
	if data, ok := m["data"].(map[string]any); ok {
		m = unwrapEntity(data)
	} else if _, hasData := m["data"]; hasData {
		// relation present but empty
		return content.DefaultAuthor
	}

	a := content.Author{
		Name:  stringField(m, "name"),
		Title: firstString(m, "title", "role"),
	}
	if url, _ := resolveMedia(m, "avatar"); url != "" {
		a.AvatarURL = absoluteURL(baseURL, url)
	}
	if a.Name == "" {
		a.Name = content.DefaultAuthor.Name
	}
	if a.Title == "" {
		a.Title = content.DefaultAuthor.Title
	}
	return a
}

// blockContent rebuilds an article body from a structured block list by
// concatenating only the rich-text segments, each trimmed, joined with a
// blank line.
func blockContent(v any) string {
	blocks, ok := v.([]any)
	if !ok {
		return ""
	}
	var parts []string
	for _, b := range blocks {
		m, ok := b.(map[string]any)
		if !ok {
			continue
		}
		kind := firstString(m, "__component", "type")
		if !strings.Contains(kind, "rich-text") {
			continue
		}
		if body := strings.TrimSpace(firstString(m, "body", "content")); body != "" {
			parts = append(parts, body)
		}
	}
	return strings.Join(parts, "\n\n")
}

func absoluteURL(base, path string) string {
	if path == "" || base == "" {
		return path
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "//") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringField(m, k); s != "" {
			return s
		}
	}
	return ""
}

func numberField(m map[string]any, key string) (int64, bool) {
	switch n := m[key].(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func stringList(v any) []string {
	if m, ok := v.(map[string]any); ok {
		return stringList(m["data"])
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, it := range items {
		switch s := it.(type) {
		case string:
			out = append(out, s)
		case map[string]any:
			if name := stringField(unwrapEntity(s), "name"); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

func timeField(m map[string]any, keys ...string) time.Time {
	for _, k := range keys {
		s := stringField(m, k)
		if s == "" {
			continue
		}
		for _, layout := range []string{
			time.RFC3339Nano,
			time.RFC3339,
			time.DateOnly,
		} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
