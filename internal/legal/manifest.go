package legal

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	domainerr "github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/errors"
)

type VersionInfo struct {
	Version     string `json:"version"`
	LastUpdated string `json:"last_updated"`
}

// Manifest is the compact slug -> version/date mapping published for cheap
// "must the user re-accept?" checks without fetching document bodies.
type Manifest map[string]VersionInfo

// Manifest derives the version manifest from the already-parsed collection,
// so it can never drift from what the pages render.
func (c *Collection) Manifest() Manifest {
	m := make(Manifest, len(c.docs))
	for _, d := range c.docs {
		m[d.ID] = VersionInfo{
			Version:     d.Version,
			LastUpdated: d.LastUpdated,
		}
	}
	return m
}

func (m Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

type manifestMeta struct {
	ID          string `validate:"required"`
	Version     string `validate:"required"`
	LastUpdated string `validate:"required"`
}

var validate = validator.New()

// ValidateStrict enforces the manifest-generation requirements: id, version
// and last_updated must all be present. The runtime loader only insists on
// id; the standalone script refuses to publish a manifest with holes in it.
func ValidateStrict(docs []Document) error {
	var ve domainerr.ValidationError
	for _, d := range docs {
		meta := manifestMeta{
			ID:          d.ID,
			Version:     d.Version,
			LastUpdated: d.LastUpdated,
		}
		if err := validate.Struct(meta); err != nil {
			var fields validator.ValidationErrors
			if !errors.As(err, &fields) {
				ve.Add(d.SourcePath, err.Error())
				continue
			}
			for _, f := range fields {
				ve.Addf(d.SourcePath, "missing required %s", headerKey(f.Field()))
			}
		}
	}
	if ve.HasAny() {
		return ve
	}
	return nil
}

func headerKey(field string) string {
	switch field {
	case "ID":
		return "id"
	case "Version":
		return "version"
	case "LastUpdated":
		return "last_updated"
	}
	return field
}
