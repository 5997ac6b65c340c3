package legal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/render"
)

// PreferredOrder fixes the navigation order of the canonical documents.
// Anything not listed sorts after these, alphabetically by title.
var PreferredOrder = []string{
	"terms",
	"privacy",
	"kvkk",
	"cookie-policy",
	"communication-consent",
	"dpa",
}

type Document struct {
	ID          string
	Version     string
	LastUpdated string
	Title       string

	// Body is the markdown after header and leading-h1 stripping; HTML is
	// its rendered form.
	Body string
	HTML string

	SourcePath string
}

// Collection holds the parsed documents in render order plus an ID lookup.
// It is built once and never mutated afterwards.
type Collection struct {
	docs []Document
	byID map[string]int
}

// LoadDocuments eagerly parses every markdown document under dir (except
// README.md) and returns an ordered collection. A document without an id is
// a hard failure naming the offending file: a legal page must never render
// half-specified.
func LoadDocuments(dir string) (*Collection, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("legal: read dir %s: %w", dir, err)
	}

	md := render.NewMarkdownRenderer()

	var docs []Document
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.EqualFold(name, "README.md") {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(name), ".md") {
			continue
		}
		path := filepath.Join(dir, name)

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("legal: read %s: %w", path, err)
		}
		meta, body, err := ParseDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("legal: parse %s: %w", path, err)
		}

		id := strings.TrimSpace(meta.ID)
		if id == "" {
			return nil, fmt.Errorf("legal: %s: missing required id", path)
		}

		title := strings.TrimSpace(meta.DocumentTitle)
		if title == "" {
			title = id
		}

		body = StripLeadingHeading(body)
		res, err := md.Render(body)
		if err != nil {
			return nil, fmt.Errorf("legal: render %s: %w", path, err)
		}

		docs = append(docs, Document{
			ID:          id,
			Version:     strings.TrimSpace(meta.Version),
			LastUpdated: strings.TrimSpace(meta.LastUpdated),
			Title:       title,
			Body:        string(body),
			HTML:        string(res.HTML),
			SourcePath:  path,
		})
	}

	byID := make(map[string]int, len(docs))
	for i, d := range docs {
		if prev, ok := byID[d.ID]; ok {
			return nil, fmt.Errorf("legal: duplicate id %q in %s and %s",
				d.ID, docs[prev].SourcePath, d.SourcePath)
		}
		byID[d.ID] = i
	}

	sortDocuments(docs)
	for i, d := range docs {
		byID[d.ID] = i
	}

	return &Collection{docs: docs, byID: byID}, nil
}

// sortDocuments orders by PreferredOrder position, then puts unlisted
// documents after all listed ones, alphabetically by title under Turkish
// collation.
func sortDocuments(docs []Document) {
	rank := make(map[string]int, len(PreferredOrder))
	for i, id := range PreferredOrder {
		rank[id] = i
	}
	unlisted := len(PreferredOrder)
	pos := func(d Document) int {
		if r, ok := rank[d.ID]; ok {
			return r
		}
		return unlisted
	}

	coll := collate.New(language.Turkish)
	sort.SliceStable(docs, func(i, j int) bool {
		pi, pj := pos(docs[i]), pos(docs[j])
		if pi != pj {
			return pi < pj
		}
		return coll.CompareString(docs[i].Title, docs[j].Title) < 0
	})
}

func (c *Collection) Documents() []Document {
	if c == nil {
		return nil
	}
	return c.docs
}

// Get looks a document up by its id/slug.
func (c *Collection) Get(slug string) (Document, bool) {
	if c == nil {
		return Document{}, false
	}
	i, ok := c.byID[strings.TrimSpace(slug)]
	if !ok {
		return Document{}, false
	}
	return c.docs[i], true
}

func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.docs)
}
