package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/indexedakki/vectors-medtech/internal/pipeline"
	"github.com/indexedakki/vectors-medtech/internal/web"
	"github.com/indexedakki/vectors-medtech/pkg/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reconciliation batch and serve the review API",
	Long: `Run the reconciliation batch, then serve the review API over HTTP:
run summary, binders (filterable by status), unlinked amendments and
customers.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	res, err := pipeline.NewRunner(cfg, logger.Get()).Run()
	if err != nil {
		return err
	}

	fmt.Printf("Serving review API on %s\n", cfg.Server.Addr)
	return web.NewServer(res).Run(cfg.Server.Addr)
}
