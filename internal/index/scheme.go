package index

var (
	bPost = []byte("post") // slug -> postBytes

	bIdxPublished = []byte("idx_published") // invTime+slug -> 1
	bIdxUpdated   = []byte("idx_updated")
	bIdxTag       = []byte("idx_tag") // tag -> sub-bucket
	bIdxCat       = []byte("idx_cat") // category -> sub-bucket
)
