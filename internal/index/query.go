package index

import (
	"encoding/json"
	"errors"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/content"
)

var ErrNotFound = errors.New("not found")

type SortMode string

const (
	SortPublished SortMode = "published"
	SortUpdated   SortMode = "updated"
)

type ListOptions struct {
	Sort SortMode
	Page int
	Size int
}

func (s *Store) GetPost(slug string) (content.Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return content.Post{}, ErrNotFound
	}
	var p content.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bPost)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(slug))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &p)
	})
	return p, err
}

func normalizePaging(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

// List walks the inverted-time index, newest first.
func (s *Store) List(opt ListOptions) ([]content.Post, error) {
	opt.Page, opt.Size = normalizePaging(opt.Page, opt.Size)

	var idxBucketName []byte
	switch opt.Sort {
	case SortUpdated:
		idxBucketName = bIdxUpdated
	default:
		idxBucketName = bIdxPublished
	}

	var out []content.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(idxBucketName)
		postB := tx.Bucket(bPost)
		if idx == nil || postB == nil {
			return nil
		}
		return collect(idx.Cursor(), postB, opt, &out)
	})
	return out, err
}

// ListAll walks every page of the index in sort order, for pages that
// render the complete corpus.
func (s *Store) ListAll(sort SortMode) ([]content.Post, error) {
	var out []content.Post
	for page := 1; ; page++ {
		batch, err := s.List(ListOptions{Sort: sort, Page: page, Size: 100})
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if len(batch) < 100 {
			return out, nil
		}
	}
}

func (s *Store) ListByTag(tag string, opt ListOptions) ([]content.Post, error) {
	return s.listSub(bIdxTag, strings.ToLower(strings.TrimSpace(tag)), opt)
}

func (s *Store) ListByCategory(cat string, opt ListOptions) ([]content.Post, error) {
	return s.listSub(bIdxCat, strings.TrimSpace(cat), opt)
}

func (s *Store) listSub(parent []byte, key string, opt ListOptions) ([]content.Post, error) {
	if key == "" {
		return nil, nil
	}
	opt.Page, opt.Size = normalizePaging(opt.Page, opt.Size)

	var out []content.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		pb := tx.Bucket(parent)
		postB := tx.Bucket(bPost)
		if pb == nil || postB == nil {
			return nil
		}
		sb := pb.Bucket([]byte(key))
		if sb == nil {
			return nil
		}
		return collect(sb.Cursor(), postB, opt, &out)
	})
	return out, err
}

func collect(cur *bolt.Cursor, postB *bolt.Bucket, opt ListOptions, out *[]content.Post) error {
	skip := (opt.Page - 1) * opt.Size
	for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
		slug := slugFromTimeSlugKey(k)
		if slug == "" {
			continue
		}
		v := postB.Get([]byte(slug))
		if v == nil {
			continue
		}
		var p content.Post
		if err := json.Unmarshal(v, &p); err != nil {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		*out = append(*out, p)
		if len(*out) >= opt.Size {
			break
		}
	}
	return nil
}
