package build

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint identifies one build of the site: content, legal documents,
// theme and config each hash independently so callers can tell what changed.
type Fingerprint struct {
	ContentHash string
	LegalHash   string
	ThemeHash   string
	ConfigHash  string
	BuildHash   string
}

func (f *Fingerprint) ComputeBuildHash() {
	h := sha256.New()
	h.Write([]byte(f.ContentHash))
	h.Write([]byte(f.LegalHash))
	h.Write([]byte(f.ThemeHash))
	h.Write([]byte(f.ConfigHash))
	f.BuildHash = hex.EncodeToString(h.Sum(nil))
}
