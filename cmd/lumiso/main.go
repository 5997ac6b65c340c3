package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/togay-aytemiz/lumiso-landing-sub000/internal/domain/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "lumiso",
	Short: "Builds and serves the Lumiso landing site",
	Long: `lumiso turns the bundled marketing content (blog articles and versioned
legal documents) plus an optional headless-CMS article feed into the static
Lumiso landing site. It can also run a live-reloading dev server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "site.yaml", "config file")
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(manifestCmd)
}

func loadConfig() (config.Config, error) {
	return config.Load(cfgFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
