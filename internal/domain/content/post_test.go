package content

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestReadTime(t *testing.T) {
	cases := []struct {
		words int
		want  string
	}{
		{1, "1 min read"},
		{99, "1 min read"},
		{100, "1 min read"},
		{101, "1 min read"},
		{400, "2 min read"},
		{1000, "5 min read"},
	}
	for _, tc := range cases {
		text := strings.TrimSpace(strings.Repeat("kelime ", tc.words))
		assert.Equalf(t, tc.want, ReadTime(text), "%d words", tc.words)
	}
	assert.Equal(t, "1 min read", ReadTime(""))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "verilen özet", Excerpt("  verilen özet  ", "gövde", 180))
	assert.Equal(t, "kısa gövde", Excerpt("", "kısa   gövde\n", 180))
	assert.Equal(t, "", Excerpt("", "", 180))

	long := strings.TrimSpace(strings.Repeat("sözcük ", 50))
	got := Excerpt("", long, 40)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, len(got), 40+len("…"))
	// never cut mid-word
	for _, w := range strings.Fields(strings.TrimSuffix(got, "…")) {
		assert.Equal(t, "sözcük", w)
	}
}

func TestExcerptStaysValidUTF8(t *testing.T) {
	// no space inside the cut window, so the byte cut lands mid-rune
	body := strings.Repeat("ü", 100)
	got := Excerpt("", body, 5)
	assert.True(t, utf8.ValidString(got), "got %q", got)
	assert.Equal(t, "üü…", got)
}

func TestNormalize(t *testing.T) {
	p := Post{
		Slug:    " takvim ",
		Content: "tek kelime",
		Tags:    []string{" Takvim", "takvim", "", "Galeri"},
	}
	p.Normalize()

	assert.Equal(t, "takvim", p.ID)
	assert.Equal(t, DefaultTitle, p.Title)
	assert.Equal(t, DefaultAuthor, p.Author)
	assert.Equal(t, []string{"takvim", "galeri"}, p.Tags)
	assert.Equal(t, "1 min read", p.ReadTime)
	assert.Equal(t, "/blog/takvim", p.URL)
}

func TestNormalizeKeepsExplicitFields(t *testing.T) {
	upd := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	p := Post{
		ID:        "x1",
		Slug:      "takvim",
		Title:     "Takvim",
		ReadTime:  "7 min read",
		UpdatedAt: upd,
		URL:       "https://medium.com/x",
		Author:    Author{Name: "Ayşe", Title: "Editör"},
	}
	p.Normalize()

	assert.Equal(t, "x1", p.ID)
	assert.Equal(t, "7 min read", p.ReadTime)
	assert.Equal(t, "https://medium.com/x", p.URL)
	assert.Equal(t, upd, p.PublishedAt)
	assert.Equal(t, "Ayşe", p.Author.Name)
}
