package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/content"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/site"
)

func TestPostRoutes(t *testing.T) {
	routes := PostRoutes([]content.Post{{Slug: "takvim"}, {Slug: "galeri"}})
	assert.Len(t, routes, 2)
	assert.Equal(t, site.RouteBlogPost, routes[0].Kind)
	assert.Equal(t, "blog/takvim/index.html", routes[0].OutPath)
	assert.Equal(t, "/blog/takvim", routes[0].URL())
}

func TestPostRoutesSkipsSluglessPosts(t *testing.T) {
	// a remote entry with only a numeric id normalizes to a slugless post;
	// it must not claim blog/index.html for itself
	routes := PostRoutes([]content.Post{{ID: "post-42"}, {Slug: "takvim"}})
	require.Len(t, routes, 1)
	assert.Equal(t, "takvim", routes[0].Slug)
	for _, r := range routes {
		assert.NotEqual(t, filepath.Join("blog", "index.html"), r.OutPath)
	}
}

func TestSiteRoutesFixedPagesFirst(t *testing.T) {
	routes := SiteRoutes([]content.Post{{Slug: "takvim"}}, nil)
	assert.Equal(t, site.RouteHome, routes[0].Kind)
	assert.Equal(t, site.RouteNotFound, routes[4].Kind)
	assert.Equal(t, site.RouteBlogPost, routes[5].Kind)
}
