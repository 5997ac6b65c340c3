package config

import (
	"errors"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	domainerr "github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/errors"
)

type Config struct {
	Site  SiteConfig  `mapstructure:"site"`
	Build BuildConfig `mapstructure:"build"`
	CMS   CMSConfig   `mapstructure:"cms"`
}

type SiteConfig struct {
	Title       string `mapstructure:"title"`
	Subtitle    string `mapstructure:"subtitle"`
	SiteURL     string `mapstructure:"site_url"`
	Theme       string `mapstructure:"theme"`
	Language    string `mapstructure:"language"`
	Description string `mapstructure:"description"`
}

type BuildConfig struct {
	ContentDir   string `mapstructure:"content_dir"`
	LegalDir     string `mapstructure:"legal_dir"`
	PublicDir    string `mapstructure:"public_dir"`
	ThemeDir     string `mapstructure:"theme_dir"`
	ManifestPath string `mapstructure:"manifest_path"`
	IncludeDraft bool   `mapstructure:"include_draft"`

	Now time.Time `mapstructure:"-"`
}

// CMSConfig describes the optional remote content service. An empty BaseURL
// means the feature is disabled, not misconfigured.
type CMSConfig struct {
	BaseURL          string `mapstructure:"base_url"`
	APIToken         string `mapstructure:"api_token"`
	Collection       string `mapstructure:"collection"`
	PublicationState string `mapstructure:"publication_state"`
	Locale           string `mapstructure:"locale"`
	Limit            int    `mapstructure:"limit"`
}

func (c CMSConfig) Enabled() bool {
	return strings.TrimSpace(c.BaseURL) != ""
}

const (
	PublicationLive    = "live"
	PublicationPreview = "preview"
)

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Lumiso",
			Theme:    "lumiso",
			Language: "tr",
		},
		Build: BuildConfig{
			ContentDir:   "content/blog",
			LegalDir:     "content/legal",
			PublicDir:    "public",
			ThemeDir:     "themes",
			ManifestPath: "legal/versions.json",
			Now:          time.Now(),
		},
		CMS: CMSConfig{
			Collection: "articles",
			Limit:      20,
		},
	}
}

// Load reads the yaml config file, overlays LUMISO_* environment variables
// (so the content-service credentials never need to live on disk), and
// validates the result. A missing file falls back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("site.title", cfg.Site.Title)
	v.SetDefault("site.theme", cfg.Site.Theme)
	v.SetDefault("site.language", cfg.Site.Language)
	v.SetDefault("build.content_dir", cfg.Build.ContentDir)
	v.SetDefault("build.legal_dir", cfg.Build.LegalDir)
	v.SetDefault("build.public_dir", cfg.Build.PublicDir)
	v.SetDefault("build.theme_dir", cfg.Build.ThemeDir)
	v.SetDefault("build.manifest_path", cfg.Build.ManifestPath)
	v.SetDefault("cms.collection", cfg.CMS.Collection)
	v.SetDefault("cms.limit", cfg.CMS.Limit)

	v.SetEnvPrefix("LUMISO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("cms.base_url")
	_ = v.BindEnv("cms.api_token")
	_ = v.BindEnv("cms.collection")
	_ = v.BindEnv("cms.publication_state")
	_ = v.BindEnv("cms.locale")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}
	if s := strings.TrimSpace(c.Site.SiteURL); s != "" && !isValidAbsURL(s) {
		ve.Add("site.site_url", "must be a valid absolute URL")
	}
	if strings.TrimSpace(c.Site.Theme) == "" {
		ve.Add("site.theme", "must not be empty")
	}

	if strings.TrimSpace(c.Build.ContentDir) == "" {
		ve.Add("build.content_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.LegalDir) == "" {
		ve.Add("build.legal_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.ThemeDir) == "" {
		ve.Add("build.theme_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.ManifestPath) == "" {
		ve.Add("build.manifest_path", "must not be empty")
	}

	if c.CMS.Enabled() && !isValidAbsURL(c.CMS.BaseURL) {
		ve.Add("cms.base_url", "must be a valid absolute URL")
	}
	switch strings.TrimSpace(c.CMS.PublicationState) {
	case "", PublicationLive, PublicationPreview:
	default:
		ve.Addf("cms.publication_state", "must be %q or %q", PublicationLive, PublicationPreview)
	}
	if c.CMS.Limit < 0 {
		ve.Add("cms.limit", "must not be negative")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
