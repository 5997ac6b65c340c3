package ingest

import (
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/content"
)

type Warning struct {
	Path string
	Msg  string
}

type Result struct {
	Post  content.Post
	Warns []Warning
	Skip  bool
	Err   error
}

// Ingest parses every bundled markdown article under sourceDir into the
// same normalized Post model the remote adapter produces. Malformed front
// matter and duplicate slugs degrade to warnings; only I/O failures abort.
func Ingest(sourceDir string) ([]content.Post, []Warning, error) {
	files, err := DiscoverSource(sourceDir)
	if err != nil {
		return nil, nil, err
	}

	workers := runtime.GOMAXPROCS(0)
	jobs := make(chan SourceFile)
	results := make(chan Result)

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sf := range jobs {
				results <- parseOne(sf)
			}
		}()
	}

	go func() {
		for _, f := range files {
			jobs <- f
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var out []content.Post
	var warns []Warning
	for r := range results {
		if r.Err != nil {
			return nil, nil, r.Err
		}
		if len(r.Warns) > 0 {
			warns = append(warns, r.Warns...)
		}
		if r.Skip {
			continue
		}
		out = append(out, r.Post)
	}

	seen := make(map[string]struct{}, len(out))
	filtered := make([]content.Post, 0, len(out))
	for _, p := range out {
		if _, ok := seen[p.Slug]; ok {
			warns = append(warns, Warning{Msg: "duplicate slug skipped: " + p.Slug})
			continue
		}
		seen[p.Slug] = struct{}{}
		filtered = append(filtered, p)
	}
	return filtered, warns, nil
}

func parseOne(sf SourceFile) Result {
	st, err := os.Stat(sf.Path)
	if err != nil {
		return Result{Err: err}
	}
	raw, err := os.ReadFile(sf.Path)
	if err != nil {
		return Result{Err: err}
	}

	fm, body, fmErr := ParseFrontMatter(raw)

	var warns []Warning
	if fmErr != nil && fmErr != errNoFrontMatter {
		warns = append(warns, Warning{
			Path: sf.Path,
			Msg:  "failed to parse front matter: " + fmErr.Error(),
		})
		return Result{Warns: warns, Skip: true}
	}
	if fm.Hidden || fm.Draft {
		return Result{Skip: true}
	}

	slug := ResolveSlug(fm, sf.Path)
	if slug == "" {
		warns = append(warns, Warning{Path: sf.Path, Msg: "empty slug"})
		return Result{Warns: warns, Skip: true}
	}

	p := content.Post{
		Slug:          slug,
		Title:         fm.Title,
		Excerpt:       strings.TrimSpace(fm.Excerpt),
		ReadTime:      strings.TrimSpace(fm.ReadTime),
		Category:      fm.Category,
		Tags:          fm.Tags,
		Content:       string(body),
		CoverImageURL: fm.Cover,
		CoverImageAlt: fm.CoverAlt,
		URL:           strings.TrimSpace(fm.ExternalURL),
	}
	p.Author = content.Author{
		Name:      fm.Author.Name,
		Title:     fm.Author.Title,
		AvatarURL: fm.Author.Avatar,
	}

	mt := st.ModTime().In(time.Local)
	p.PublishedAt = ParseTime(fm.Date)
	p.UpdatedAt = ParseTime(fm.Updated)
	if p.PublishedAt.IsZero() {
		p.PublishedAt = mt
		warns = append(warns, Warning{
			Path: sf.Path,
			Msg:  "using file modification time for date",
		})
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.PublishedAt
	}
	if strings.TrimSpace(p.Title) == "" {
		warns = append(warns, Warning{Path: sf.Path, Msg: "title is empty"})
	}

	p.Normalize()
	return Result{Post: p, Warns: warns}
}
