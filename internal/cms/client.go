package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/config"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/content"
)

// ErrNotConfigured means no content-service base URL is set. Callers treat
// this as "use bundled content", never as a failure to surface.
var ErrNotConfigured = errors.New("cms: content service not configured")

// APIError carries the HTTP status and raw body of a failed request so the
// populate retry rule can inspect it.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("cms: http %d: %s", e.Status, body)
}

var (
	reInvalidKey = regexp.MustCompile(`(?i)invalid key`)
	rePopulate   = regexp.MustCompile(`(?i)populate`)
)

// invalidPopulate reports whether the response complains about a populate
// key the service does not understand (deep-populate plugin missing).
func (e *APIError) invalidPopulate() bool {
	if e.Status < 400 || e.Status >= 500 {
		return false
	}
	return reInvalidKey.MatchString(e.Body) && rePopulate.MatchString(e.Body)
}

const (
	// PopulateAll expands every relation, the blanket fallback for services
	// that reject deep populate directives.
	PopulateAll = "*"

	maxResponseBytes = 8 << 20
)

// defaultPopulate expands the relations the blog actually renders: body
// blocks, cover image, author with avatar, category.
var defaultPopulate = []string{"blocks", "cover", "author.avatar", "category"}

type Query struct {
	Limit  int
	Locale string

	// Filters are appended to the request verbatim, e.g.
	// "filters[slug][$eq]" -> "pricing-update".
	Filters map[string]string

	// Populate overrides the default relation-expansion set when non-empty.
	Populate string
}

type Client struct {
	cfg  config.CMSConfig
	http *http.Client
}

func New(cfg config.CMSConfig) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	// No overall timeout: cancellation is the caller's ctx.
	return &Client{
		cfg:  cfg,
		http: &http.Client{Transport: transport},
	}
}

// FetchPosts returns normalized posts from the content service, newest
// first. When the service rejects a deep populate directive it retries once
// with PopulateAll; every other error propagates.
func (c *Client) FetchPosts(ctx context.Context, q Query) ([]content.Post, error) {
	if !c.cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	posts, err := c.fetchOnce(ctx, q)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.invalidPopulate() && strings.HasPrefix(q.Populate, "deep") {
			q.Populate = PopulateAll
			return c.fetchOnce(ctx, q)
		}
		return nil, err
	}
	return posts, nil
}

// FetchPostBySlug fetches a single post via a slug-equality filter. A missing
// post resolves to nil, not an error.
func (c *Client) FetchPostBySlug(ctx context.Context, slug string, q Query) (*content.Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}

	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	filters["filters[slug][$eq]"] = slug
	q.Filters = filters
	q.Limit = 1

	posts, err := c.FetchPosts(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

type listResponse struct {
	Data []map[string]any `json:"data"`
	Meta map[string]any   `json:"meta"`
}

func (c *Client) fetchOnce(ctx context.Context, q Query) ([]content.Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(q), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token := strings.TrimSpace(c.cfg.APIToken); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	var list listResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("cms: decode response (%v): %w", err, &APIError{
			Status: resp.StatusCode,
			Body:   string(body),
		})
	}

	posts := make([]content.Post, 0, len(list.Data))
	for _, raw := range list.Data {
		posts = append(posts, normalizePost(raw, c.cfg.BaseURL))
	}
	return posts, nil
}

func (c *Client) endpoint(q Query) string {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	collection := strings.Trim(c.cfg.Collection, "/")

	params := url.Values{}
	params.Set("sort", "publishedAt:desc")
	if q.Limit > 0 {
		params.Set("pagination[pageSize]", strconv.Itoa(q.Limit))
	}
	if loc := strings.TrimSpace(q.Locale); loc != "" {
		params.Set("locale", loc)
	}

	if q.Populate != "" {
		params.Set("populate", q.Populate)
	} else {
		for i, rel := range defaultPopulate {
			params.Set(fmt.Sprintf("populate[%d]", i), rel)
		}
	}

	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		params.Set(k, q.Filters[k])
	}

	switch state := strings.TrimSpace(c.cfg.PublicationState); state {
	case config.PublicationLive, config.PublicationPreview:
		params.Set("publicationState", state)
	}

	return fmt.Sprintf("%s/api/%s?%s", base, collection, params.Encode())
}
