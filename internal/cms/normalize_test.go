package cms

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/content"
)

func entityFromJSON(t *testing.T, src string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(src), &m))
	return m
}

func TestUnwrapEntityBothShapes(t *testing.T) {
	flat := entityFromJSON(t, `{"id": 7, "title": "Hello", "slug": "hello"}`)
	wrapped := entityFromJSON(t, `{"id": 7, "attributes": {"title": "Hello", "slug": "hello"}}`)

	a := unwrapEntity(flat)
	b := unwrapEntity(wrapped)

	assert.Equal(t, a["title"], b["title"])
	assert.Equal(t, a["slug"], b["slug"])
	assert.Equal(t, a["id"], b["id"])
}

// Equivalent underlying data must normalize identically across every
// combination of entity wrapping, category shape and author shape.
func TestNormalizeShapeCompleteness(t *testing.T) {
	categoryVariants := map[string]string{
		"string":   `"Ürün"`,
		"relation": `{"data": {"id": 3, "attributes": {"name": "Ürün"}}}`,
		"flat":     `{"name": "Ürün"}`,
	}
	authorVariants := map[string]string{
		"relation": `{"data": {"id": 5, "attributes": {"name": "Ayşe", "title": "Editör"}}}`,
		"flat":     `{"name": "Ayşe", "title": "Editör"}`,
	}

	var want *content.Post
	for catName, cat := range categoryVariants {
		for authName, auth := range authorVariants {
			fields := `"title": "Takvim", "slug": "takvim", "content": "kısa metin",
				"publishedAt": "2025-10-01T09:00:00Z", "category": ` + cat + `, "author": ` + auth

			for _, wrap := range []bool{false, true} {
				src := `{"id": 1, ` + fields + `}`
				if wrap {
					src = `{"id": 1, "attributes": {` + fields + `}}`
				}
				got := normalizePost(entityFromJSON(t, src), "https://cms.example.com")
				if want == nil {
					want = &got
					continue
				}
				assert.Equalf(t, *want, got, "category=%s author=%s wrapped=%v", catName, authName, wrap)
			}
		}
	}

	require.NotNil(t, want)
	assert.Equal(t, "takvim", want.ID)
	assert.Equal(t, "Ürün", want.Category)
	assert.Equal(t, "Ayşe", want.Author.Name)
	assert.Equal(t, "Editör", want.Author.Title)
}

func TestNormalizeDefaults(t *testing.T) {
	p := normalizePost(entityFromJSON(t, `{"id": 42}`), "")

	assert.Equal(t, "post-42", p.ID)
	assert.Equal(t, content.DefaultTitle, p.Title)
	assert.Equal(t, content.DefaultAuthor.Name, p.Author.Name)
	assert.Equal(t, content.DefaultAuthor.Title, p.Author.Title)
	assert.Empty(t, p.URL)
}

func TestNormalizeURLSynthesis(t *testing.T) {
	p := normalizePost(entityFromJSON(t, `{"id": 1, "slug": "takvim"}`), "")
	assert.Equal(t, "/blog/takvim", p.URL)

	p = normalizePost(entityFromJSON(t, `{"id": 1, "slug": "takvim", "externalUrl": "https://medium.com/x"}`), "")
	assert.Equal(t, "https://medium.com/x", p.URL)
}

func TestNormalizePublishedFallsBackToUpdated(t *testing.T) {
	p := normalizePost(entityFromJSON(t, `{"id": 1, "slug": "x", "updatedAt": "2025-05-01T10:00:00Z"}`), "")
	assert.Equal(t, p.UpdatedAt, p.PublishedAt)
	assert.False(t, p.PublishedAt.IsZero())
}

func TestResolveMediaFirstNonEmptyWins(t *testing.T) {
	e := entityFromJSON(t, `{
		"cover": {"data": null},
		"coverImage": {"data": {"attributes": {"url": "/uploads/a.jpg", "alternativeText": "takvim"}}},
		"image": {"url": "/uploads/b.jpg"}
	}`)
	url, alt := resolveMedia(e, "cover", "coverImage", "image")
	assert.Equal(t, "/uploads/a.jpg", url)
	assert.Equal(t, "takvim", alt)
}

func TestNormalizeCoverAbsoluteURL(t *testing.T) {
	p := normalizePost(entityFromJSON(t,
		`{"id": 1, "slug": "x", "cover": {"url": "/uploads/a.jpg", "alternativeText": "alt"}}`),
		"https://cms.example.com/")
	assert.Equal(t, "https://cms.example.com/uploads/a.jpg", p.CoverImageURL)
	assert.Equal(t, "alt", p.CoverImageAlt)

	p = normalizePost(entityFromJSON(t,
		`{"id": 1, "slug": "x", "cover": {"url": "https://cdn.example.com/a.jpg"}}`),
		"https://cms.example.com")
	assert.Equal(t, "https://cdn.example.com/a.jpg", p.CoverImageURL)
}

func TestBlockContentConcatenatesRichText(t *testing.T) {
	e := entityFromJSON(t, `{"id": 1, "slug": "x", "blocks": [
		{"__component": "shared.rich-text", "body": "  birinci bölüm  "},
		{"__component": "shared.media", "file": {}},
		{"__component": "shared.rich-text", "body": "ikinci bölüm"},
		{"__component": "shared.quote", "body": "alıntı"}
	]}`)
	p := normalizePost(e, "")
	assert.Equal(t, "birinci bölüm\n\nikinci bölüm", p.Content)
}

func TestNormalizeReadTimeExplicitWins(t *testing.T) {
	e := entityFromJSON(t, `{"id": 1, "slug": "x", "readTime": "7 min read", "content": "tek"}`)
	p := normalizePost(e, "")
	assert.Equal(t, "7 min read", p.ReadTime)
}

func TestNormalizeReadTimeDerived(t *testing.T) {
	words := strings.TrimSpace(strings.Repeat("kelime ", 400))
	e := map[string]any{"id": float64(1), "slug": "x", "content": words}
	p := normalizePost(e, "")
	assert.Equal(t, "2 min read", p.ReadTime)
}

func TestNormalizeExcerptFromContent(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("uzun ", 100))
	p := normalizePost(map[string]any{"id": float64(1), "slug": "x", "content": long}, "")
	assert.NotEmpty(t, p.Excerpt)
	assert.LessOrEqual(t, len(p.Excerpt), 190)

	p = normalizePost(map[string]any{
		"id": float64(1), "slug": "x", "content": long, "excerpt": "açık özet",
	}, "")
	assert.Equal(t, "açık özet", p.Excerpt)
}

func TestResolveAuthorEmptyRelation(t *testing.T) {
	a := resolveAuthor(map[string]any{"data": nil}, "")
	assert.Equal(t, content.DefaultAuthor.Name, a.Name)
	assert.Equal(t, content.DefaultAuthor.Title, a.Title)
}

func TestNormalizeTagsRelationAndFlat(t *testing.T) {
	p := normalizePost(entityFromJSON(t,
		`{"id": 1, "slug": "x", "tags": {"data": [{"id": 1, "attributes": {"name": "Takvim"}}]}}`), "")
	assert.Equal(t, []string{"takvim"}, p.Tags)

	p = normalizePost(entityFromJSON(t, `{"id": 1, "slug": "x", "tags": ["Takvim", "takvim", ""]}`), "")
	assert.Equal(t, []string{"takvim"}, p.Tags)
}
