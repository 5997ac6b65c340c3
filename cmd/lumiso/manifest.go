package main

import (
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/legal"
)

var manifestOut string

func init() {
	manifestCmd.Flags().StringVar(&manifestOut, "out", "", "output path (default <public_dir>/<manifest_path>)")
}

// legal-manifest is stricter than the page build: a document may render with
// only an id, but the published version manifest refuses holes.
var manifestCmd = &cobra.Command{
	Use:   "legal-manifest",
	Short: "Validates legal documents and writes the version manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		docs, err := legal.LoadDocuments(cfg.Build.LegalDir)
		if err != nil {
			return err
		}
		if err := legal.ValidateStrict(docs.Documents()); err != nil {
			return err
		}

		out := manifestOut
		if out == "" {
			out = filepath.Join(cfg.Build.PublicDir, cfg.Build.ManifestPath)
		}
		if err := docs.Manifest().Write(out); err != nil {
			return err
		}
		log.Printf("[legal-manifest] wrote %s (%d documents)", out, docs.Len())
		return nil
	},
}
