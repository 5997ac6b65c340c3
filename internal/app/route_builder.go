package app

import (
	"path/filepath"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/content"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/site"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/legal"
)

// PostRoutes maps each post to its output location under public/. Posts
// without a slug get no detail route; joining an empty slug would collide
// with the blog index page.
func PostRoutes(posts []content.Post) []site.Route {
	var routes []site.Route
	for _, p := range posts {
		if p.Slug == "" {
			continue
		}
		routes = append(routes, site.Route{
			Kind:    site.RouteBlogPost,
			Slug:    p.Slug,
			OutPath: filepath.Join("blog", p.Slug, "index.html"),
		})
	}
	return routes
}

func LegalRoutes(docs *legal.Collection) []site.Route {
	var routes []site.Route
	for _, d := range docs.Documents() {
		routes = append(routes, site.Route{
			Kind:    site.RouteLegalDoc,
			Slug:    d.ID,
			OutPath: filepath.Join("legal", d.ID, "index.html"),
		})
	}
	return routes
}

// SiteRoutes returns every page the static build emits, fixed pages first.
func SiteRoutes(posts []content.Post, docs *legal.Collection) []site.Route {
	routes := []site.Route{
		{Kind: site.RouteHome, OutPath: "index.html"},
		{Kind: site.RouteBlogIndex, OutPath: filepath.Join("blog", "index.html")},
		{Kind: site.RouteLegalIndex, OutPath: filepath.Join("legal", "index.html")},
		{Kind: site.RouteManifest, OutPath: filepath.Join("legal", "versions.json")},
		{Kind: site.RouteNotFound, OutPath: "404.html"},
	}
	routes = append(routes, PostRoutes(posts)...)
	routes = append(routes, LegalRoutes(docs)...)
	return routes
}
