package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/cms"
	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/serve"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the live-reloading dev server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := serve.New(cfg, cms.New(cfg.CMS), ".lumiso/index.db")
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.ListenAndServe(ctx, serveAddr); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}
