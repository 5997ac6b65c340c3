package build

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/app"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/cms"
	domainbuild "github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/build"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/config"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/content"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/index"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/ingest"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/legal"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/render"
)

type Builder struct {
	Cfg       config.Config
	CMS       *cms.Client
	IndexPath string
}

type Result struct {
	Posts       int
	RemotePosts bool
	LegalDocs   int
	Warnings    []ingest.Warning
	Fingerprint domainbuild.Fingerprint
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	posts, remote, warns, err := LoadPosts(ctx, b.Cfg, b.CMS)
	if err != nil {
		return nil, err
	}

	docs, err := legal.LoadDocuments(b.Cfg.Build.LegalDir)
	if err != nil {
		return nil, fmt.Errorf("load legal documents: %w", err)
	}

	md := render.NewMarkdownRenderer()

	// Pre-render bodies once; excerpts for posts that lack one come from
	// the rendered text, not raw markdown.
	bodies := make(map[string]render.MarkdownResult, len(posts))
	for i := range posts {
		res, err := md.Render([]byte(posts[i].Content))
		if err != nil {
			return nil, fmt.Errorf("markdown render(%s): %w", posts[i].Slug, err)
		}
		bodies[posts[i].Slug] = res
		if posts[i].Excerpt == "" {
			posts[i].Excerpt = content.Excerpt("", render.PlainText(res.HTML), 180)
		}
	}

	st, err := index.Open(index.OpenOptions{Path: b.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer st.Close()

	if err := st.Rebuild(posts); err != nil {
		return nil, fmt.Errorf("rebuild index: %w", err)
	}

	themeTplDir := filepath.Join(b.Cfg.Build.ThemeDir, b.Cfg.Site.Theme, "templates")
	if err := render.CheckThemeTemplates(themeTplDir); err != nil {
		return nil, fmt.Errorf("theme(%s): %w", b.Cfg.Site.Theme, err)
	}
	tpl, err := render.NewTemplateRenderer(b.Cfg.Build.ThemeDir, b.Cfg.Site.Theme)
	if err != nil {
		return nil, fmt.Errorf("load theme(%s): %w", b.Cfg.Site.Theme, err)
	}

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	listed, err := st.ListAll(index.SortPublished)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if remote {
		// keep the service's own ordering
		listed = posts
	}

	if err := b.buildHome(ctx, tpl, outDir, listed, docs); err != nil {
		return nil, fmt.Errorf("build home: %w", err)
	}
	if err := b.buildBlogList(ctx, tpl, outDir, listed, remote); err != nil {
		return nil, fmt.Errorf("build blog list: %w", err)
	}
	if err := b.buildBlogPosts(ctx, tpl, outDir, posts, bodies); err != nil {
		return nil, fmt.Errorf("build blog posts: %w", err)
	}
	if err := b.buildLegal(ctx, tpl, outDir, docs); err != nil {
		return nil, fmt.Errorf("build legal: %w", err)
	}
	if err := b.buildNotFound(ctx, tpl, outDir); err != nil {
		return nil, fmt.Errorf("build 404: %w", err)
	}

	manifestPath := filepath.Join(outDir, b.Cfg.Build.ManifestPath)
	if err := docs.Manifest().Write(manifestPath); err != nil {
		return nil, fmt.Errorf("write legal manifest: %w", err)
	}

	if err := b.copyStaticAssets(outDir); err != nil {
		return nil, fmt.Errorf("copy static assets: %w", err)
	}

	fp, err := b.fingerprint(posts, docs)
	if err != nil {
		return nil, err
	}
	log.Printf("[build] wrote %d pages to %s", len(app.SiteRoutes(posts, docs)), outDir)
	if err := writeFile(outDir, ".buildinfo", []byte(fp.BuildHash+"\n")); err != nil {
		return nil, err
	}

	return &Result{
		Posts:       len(posts),
		RemotePosts: remote,
		LegalDocs:   docs.Len(),
		Warnings:    warns,
		Fingerprint: fp,
	}, nil
}

// LoadPosts prefers the content service and falls back to bundled markdown
// when the service is unset, unreachable or empty. Only cancellation and
// local ingest failures abort. The dev server shares this exact policy.
func LoadPosts(ctx context.Context, cfg config.Config, client *cms.Client) ([]content.Post, bool, []ingest.Warning, error) {
	local, warns, err := ingest.Ingest(cfg.Build.ContentDir)
	if err != nil {
		return nil, false, nil, fmt.Errorf("ingest %s: %w", cfg.Build.ContentDir, err)
	}

	if client == nil {
		return local, false, warns, nil
	}

	remote, err := client.FetchPosts(ctx, cms.Query{
		Limit:  cfg.CMS.Limit,
		Locale: cfg.CMS.Locale,
	})
	switch {
	case errors.Is(err, cms.ErrNotConfigured):
		log.Printf("[content] service not configured, using bundled articles")
		return local, false, warns, nil
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return nil, false, nil, err
	case err != nil:
		log.Printf("[warn] content service fetch failed, using bundled articles: %v", err)
		return local, false, warns, nil
	case len(remote) == 0:
		log.Printf("[content] service returned no articles, using bundled articles")
		return local, false, warns, nil
	}
	return remote, true, warns, nil
}

func (b *Builder) buildHome(
	ctx context.Context,
	tpl render.Renderer,
	outDir string,
	posts []content.Post,
	docs *legal.Collection,
) error {
	latest := posts
	if len(latest) > 3 {
		latest = latest[:3]
	}

	page := render.HomePage{
		Site:        b.Cfg.Site,
		LatestPosts: latest,
		LegalLinks:  legalLinks(docs),
		Generated:   b.Cfg.Build.Now,
		Title:       b.Cfg.Site.Title,
	}
	htmlBytes, err := tpl.RenderHome(ctx, page)
	if err != nil {
		return err
	}
	return writeFile(outDir, "index.html", htmlBytes)
}

func (b *Builder) buildBlogList(
	ctx context.Context,
	tpl render.Renderer,
	outDir string,
	posts []content.Post,
	remote bool,
) error {
	page := render.BlogListPage{
		Site:         b.Cfg.Site,
		Posts:        posts,
		RemoteSource: remote,
		Generated:    b.Cfg.Build.Now,
		Title:        "Blog",
	}
	if !remote {
		page.Note = "showing bundled articles"
	}
	htmlBytes, err := tpl.RenderBlogList(ctx, page)
	if err != nil {
		return err
	}
	return writeFile(outDir, filepath.Join("blog", "index.html"), htmlBytes)
}

func (b *Builder) buildBlogPosts(
	ctx context.Context,
	tpl render.Renderer,
	outDir string,
	posts []content.Post,
	bodies map[string]render.MarkdownResult,
) error {
	routes := app.PostRoutes(posts)
	i := 0
	for _, p := range posts {
		if p.Slug == "" {
			continue
		}
		res := bodies[p.Slug]

		pp := render.BlogPostPage{
			Site:  b.Cfg.Site,
			Post:  p,
			HTML:  template.HTML(res.HTML),
			TOC:   res.Headings,
			Title: p.Title,
		}
		htmlBytes, err := tpl.RenderBlogPost(ctx, pp)
		if err != nil {
			return fmt.Errorf("render post(%s): %w", p.Slug, err)
		}
		if err := writeFile(outDir, routes[i].OutPath, htmlBytes); err != nil {
			return err
		}
		i++
	}
	return nil
}

func (b *Builder) buildLegal(
	ctx context.Context,
	tpl render.Renderer,
	outDir string,
	docs *legal.Collection,
) error {
	lp := render.LegalListPage{
		Site:  b.Cfg.Site,
		Docs:  legalLinks(docs),
		Title: "Legal",
	}
	htmlBytes, err := tpl.RenderLegalList(ctx, lp)
	if err != nil {
		return err
	}
	if err := writeFile(outDir, filepath.Join("legal", "index.html"), htmlBytes); err != nil {
		return err
	}

	routes := app.LegalRoutes(docs)
	for i, d := range docs.Documents() {
		dp := render.LegalDocPage{
			Site:        b.Cfg.Site,
			Slug:        d.ID,
			Version:     d.Version,
			LastUpdated: d.LastUpdated,
			HTML:        template.HTML(d.HTML),
			Title:       d.Title,
		}
		htmlBytes, err := tpl.RenderLegalDoc(ctx, dp)
		if err != nil {
			return fmt.Errorf("render legal(%s): %w", d.ID, err)
		}
		if err := writeFile(outDir, routes[i].OutPath, htmlBytes); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) buildNotFound(ctx context.Context, tpl render.Renderer, outDir string) error {
	page := render.NotFoundPage{
		Site: b.Cfg.Site,
		Path: "",
	}
	htmlBytes, err := tpl.RenderNotFound(ctx, page)
	if err != nil {
		return err
	}
	return writeFile(outDir, "404.html", htmlBytes)
}

func legalLinks(docs *legal.Collection) []render.LegalLink {
	out := make([]render.LegalLink, 0, docs.Len())
	for _, d := range docs.Documents() {
		out = append(out, render.LegalLink{Slug: d.ID, Title: d.Title})
	}
	return out
}

func (b *Builder) fingerprint(posts []content.Post, docs *legal.Collection) (domainbuild.Fingerprint, error) {
	var fp domainbuild.Fingerprint

	ch := sha256.New()
	for _, p := range posts {
		pb, err := json.Marshal(p)
		if err != nil {
			return fp, err
		}
		ch.Write(pb)
	}
	fp.ContentHash = hex.EncodeToString(ch.Sum(nil))

	lh := sha256.New()
	for _, d := range docs.Documents() {
		lh.Write([]byte(d.ID))
		lh.Write([]byte(d.Version))
		lh.Write([]byte(d.LastUpdated))
		lh.Write([]byte(d.Body))
	}
	fp.LegalHash = hex.EncodeToString(lh.Sum(nil))

	th, err := hashDir(filepath.Join(b.Cfg.Build.ThemeDir, b.Cfg.Site.Theme))
	if err != nil {
		return fp, err
	}
	fp.ThemeHash = th

	cfgh := sha256.Sum256([]byte(fmt.Sprintf("%+v", b.Cfg.Site)))
	fp.ConfigHash = hex.EncodeToString(cfgh[:])

	fp.ComputeBuildHash()
	return fp, nil
}

func hashDir(dir string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		h.Write([]byte(path))
		h.Write(data)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (b *Builder) copyStaticAssets(outDir string) error {
	src := filepath.Join(b.Cfg.Build.ThemeDir, b.Cfg.Site.Theme, "static")
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(outDir, rel)

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}

		in, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, in, 0o644)
	})
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}
