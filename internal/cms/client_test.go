package cms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/config"
)

func testConfig(baseURL string) config.CMSConfig {
	return config.CMSConfig{
		BaseURL:    baseURL,
		APIToken:   "secret-token",
		Collection: "articles",
		Limit:      20,
	}
}

func TestFetchPostsNotConfigured(t *testing.T) {
	c := New(config.CMSConfig{})
	posts, err := c.FetchPosts(context.Background(), Query{})
	assert.Nil(t, posts)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFetchPostsNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/articles", r.URL.Path)

		params := r.URL.Query()
		assert.Equal(t, "publishedAt:desc", params.Get("sort"))
		assert.Equal(t, "20", params.Get("pagination[pageSize]"))
		assert.Equal(t, "blocks", params.Get("populate[0]"))
		assert.Equal(t, "author.avatar", params.Get("populate[2]"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [
			{"id": 1, "attributes": {"slug": "takvim", "title": "Takvim", "publishedAt": "2025-10-01T09:00:00Z"}},
			{"id": 2, "slug": "galeri", "title": "Galeri"}
		], "meta": {}}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	posts, err := c.FetchPosts(context.Background(), Query{Limit: 20})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "takvim", posts[0].Slug)
	assert.Equal(t, "/blog/galeri", posts[1].URL)
}

func TestFetchPostsRetriesOnInvalidPopulate(t *testing.T) {
	var populates []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pop := r.URL.Query().Get("populate")
		populates = append(populates, pop)
		if pop != PopulateAll {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": {"status": 400, "name": "ValidationError", "message": "Invalid key deep at populate"}}`))
			return
		}
		w.Write([]byte(`{"data": [{"id": 1, "slug": "takvim", "title": "Takvim"}]}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	posts, err := c.FetchPosts(context.Background(), Query{Populate: "deep,3"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, []string{"deep,3", "*"}, populates)
}

func TestFetchPostsNoRetryWithoutDeepPopulate(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "Invalid key something at populate"}}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	_, err := c.FetchPosts(context.Background(), Query{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, 1, calls)
}

func TestFetchPostsNoRetryOnUnrelatedBadRequest(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "locale not enabled"}}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	_, err := c.FetchPosts(context.Background(), Query{Populate: "deep,3"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 1, calls)
}

func TestFetchPostsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`upstream exploded`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	_, err := c.FetchPosts(context.Background(), Query{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Contains(t, apiErr.Body, "upstream exploded")
}

func TestFetchPostsCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	c := New(testConfig(srv.URL))
	_, err := c.FetchPosts(ctx, Query{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "want context.Canceled, got %v", err)
}

func TestFetchPostBySlug(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		assert.Equal(t, "1", params.Get("pagination[pageSize]"))
		if params.Get("filters[slug][$eq]") == "takvim" {
			w.Write([]byte(`{"data": [{"id": 1, "slug": "takvim", "title": "Takvim"}]}`))
			return
		}
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))

	post, err := c.FetchPostBySlug(context.Background(), "takvim", Query{})
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "Takvim", post.Title)

	post, err = c.FetchPostBySlug(context.Background(), "yok", Query{})
	require.NoError(t, err)
	assert.Nil(t, post)

	post, err = c.FetchPostBySlug(context.Background(), "  ", Query{})
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestPublicationStateParam(t *testing.T) {
	cfg := testConfig("https://cms.example.com")
	cfg.PublicationState = config.PublicationPreview
	c := New(cfg)

	assert.Contains(t, c.endpoint(Query{}), "publicationState=preview")

	cfg.PublicationState = "draft"
	c = New(cfg)
	assert.NotContains(t, c.endpoint(Query{}), "publicationState")
}

func TestDecodeFailureKeepsStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	_, err := c.FetchPosts(context.Background(), Query{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.Status)
	assert.Contains(t, apiErr.Body, "not json")
}
