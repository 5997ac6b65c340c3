package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/content"
)

type TemplateRenderer struct {
	tpl *template.Template
}

func NewTemplateRenderer(themeDir, themeName string) (*TemplateRenderer, error) {
	pattern := filepath.Join(themeDir, themeName, "templates", "*.tmpl")
	tpl, err := template.New("").Funcs(templateFuncs()).ParseGlob(pattern)
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(t interface{}, layout string) string {
			switch v := t.(type) {
			case nil:
				return ""
			case string:
				return v
			case interface{ Format(string) string }:
				return v.Format(layout)
			default:
				return ""
			}
		},
		"nowYear": func() int {
			return time.Now().Year()
		},
		"postURL": func(p content.Post) string {
			if p.URL != "" {
				return p.URL
			}
			return "/blog/" + p.Slug
		},
		"legalURL": func(slug string) string {
			return "/legal/" + slug
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
}

func (r *TemplateRenderer) RenderHome(ctx context.Context, page HomePage) ([]byte, error) {
	return r.exec("home.tmpl", page)
}

func (r *TemplateRenderer) RenderBlogList(ctx context.Context, page BlogListPage) ([]byte, error) {
	return r.exec("blog-list.tmpl", page)
}

func (r *TemplateRenderer) RenderBlogPost(ctx context.Context, page BlogPostPage) ([]byte, error) {
	return r.exec("blog-post.tmpl", page)
}

func (r *TemplateRenderer) RenderLegalList(ctx context.Context, page LegalListPage) ([]byte, error) {
	return r.exec("legal-list.tmpl", page)
}

func (r *TemplateRenderer) RenderLegalDoc(ctx context.Context, page LegalDocPage) ([]byte, error) {
	return r.exec("legal-doc.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func CheckThemeTemplates(themeDir string) error {
	required := []string{
		"home.tmpl",
		"blog-list.tmpl",
		"blog-post.tmpl",
		"legal-list.tmpl",
		"legal-doc.tmpl",
		"404.tmpl",
	}
	for _, name := range required {
		if _, err := os.Stat(filepath.Join(themeDir, name)); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}
