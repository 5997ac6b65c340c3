package site

import (
	"fmt"
	"strings"
)

type RouteKind string

const (
	RouteHome       RouteKind = "home"
	RouteBlogIndex  RouteKind = "blog-index"
	RouteBlogPost   RouteKind = "blog-post"
	RouteLegalIndex RouteKind = "legal-index"
	RouteLegalDoc   RouteKind = "legal-doc"
	RouteManifest   RouteKind = "legal-manifest"
	RouteNotFound   RouteKind = "404"
)

type Route struct {
	Kind    RouteKind
	Slug    string
	OutPath string
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Slug != "" {
		parts = append(parts, "slug="+r.Slug)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}

// URL returns the public path a route is served under.
func (r Route) URL() string {
	switch r.Kind {
	case RouteHome:
		return "/"
	case RouteBlogIndex:
		return "/blog"
	case RouteBlogPost:
		return fmt.Sprintf("/blog/%s", r.Slug)
	case RouteLegalIndex:
		return "/legal"
	case RouteLegalDoc:
		return fmt.Sprintf("/legal/%s", r.Slug)
	case RouteManifest:
		return "/legal/versions.json"
	default:
		return "/" + string(r.Kind)
	}
}
