package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerr "github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/errors"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "site.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Lumiso", cfg.Site.Title)
	assert.Equal(t, "content/blog", cfg.Build.ContentDir)
	assert.False(t, cfg.CMS.Enabled())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
site:
  title: Stüdyo
  theme: lumiso
build:
  public_dir: dist
cms:
  base_url: https://cms.example.com
  collection: articles
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Stüdyo", cfg.Site.Title)
	assert.Equal(t, "dist", cfg.Build.PublicDir)
	assert.True(t, cfg.CMS.Enabled())
	// untouched keys keep their defaults
	assert.Equal(t, "content/legal", cfg.Build.LegalDir)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LUMISO_CMS_BASE_URL", "https://cms.example.com")
	t.Setenv("LUMISO_CMS_API_TOKEN", "gizli")

	cfg, err := Load(filepath.Join(t.TempDir(), "site.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.CMS.Enabled())
	assert.Equal(t, "gizli", cfg.CMS.APIToken)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.Site.Title = ""
	cfg.CMS.BaseURL = "not a url"
	cfg.CMS.PublicationState = "draft"
	cfg.CMS.Limit = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerr.ErrInvalid)

	var ve domainerr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Items, 4)
}

func TestValidatePublicationStates(t *testing.T) {
	cfg := Default()
	for _, state := range []string{"", PublicationLive, PublicationPreview} {
		cfg.CMS.PublicationState = state
		assert.NoError(t, cfg.Validate(), state)
	}
}
