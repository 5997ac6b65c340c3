package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/build"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/cms"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the static site into the public directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		b := &build.Builder{
			Cfg:       cfg,
			CMS:       cms.New(cfg.CMS),
			IndexPath: ".lumiso/index.db",
		}
		res, err := b.Run(ctx)
		if err != nil {
			return err
		}

		for _, w := range res.Warnings {
			log.Printf("[warn] %s: %s", w.Path, w.Msg)
		}
		log.Printf("[build] %d articles (remote=%v), %d legal documents, build %s",
			res.Posts, res.RemotePosts, res.LegalDocs, short(res.Fingerprint.BuildHash))
		return nil
	},
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
