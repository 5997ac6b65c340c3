package index

import (
	"encoding/json"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/content"
)

// Rebuild replaces the whole index with the given posts. The site is small
// enough that incremental updates are not worth their complexity.
func (s *Store) Rebuild(posts []content.Post) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_ = tx.DeleteBucket(bPost)
		_ = tx.DeleteBucket(bIdxPublished)
		_ = tx.DeleteBucket(bIdxUpdated)
		_ = tx.DeleteBucket(bIdxTag)
		_ = tx.DeleteBucket(bIdxCat)

		postB, _ := tx.CreateBucket(bPost)
		idxPubB, _ := tx.CreateBucket(bIdxPublished)
		idxUpdB, _ := tx.CreateBucket(bIdxUpdated)
		idxTagB, _ := tx.CreateBucket(bIdxTag)
		idxCatB, _ := tx.CreateBucket(bIdxCat)

		for _, p := range posts {
			if strings.TrimSpace(p.Slug) == "" {
				continue
			}
			pb, err := json.Marshal(p)
			if err != nil {
				return err
			}
			if err := postB.Put([]byte(p.Slug), pb); err != nil {
				return err
			}

			pubKey := makeTimeSlugKey(p.PublishedAt.UnixNano(), p.Slug)
			if err := idxPubB.Put(pubKey, []byte{1}); err != nil {
				return err
			}
			updKey := makeTimeSlugKey(p.UpdatedAt.UnixNano(), p.Slug)
			if err := idxUpdB.Put(updKey, []byte{1}); err != nil {
				return err
			}

			for _, tag := range p.Tags {
				if tag == "" {
					continue
				}
				sb, err := idxTagB.CreateBucketIfNotExists([]byte(tag))
				if err != nil {
					return err
				}
				if err := sb.Put(pubKey, []byte{1}); err != nil {
					return err
				}
			}

			if cat := strings.TrimSpace(p.Category); cat != "" {
				sb, err := idxCatB.CreateBucketIfNotExists([]byte(cat))
				if err != nil {
					return err
				}
				if err := sb.Put(pubKey, []byte{1}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
