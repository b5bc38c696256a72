package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/indexedakki/vectors-medtech/internal/qdrant"
)

var purgeYes bool

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every point from the index collection",
	Long: `Delete all points from the configured collection, keeping the
collection and its payload indexes so a fresh ingest can follow.`,
	RunE: runPurge,
}

func init() {
	purgeCmd.Flags().BoolVarP(&purgeYes, "yes", "y", false, "skip confirmation")
}

func runPurge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := qdrant.NewClient(qdrant.Config{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
		VectorSize: cfg.Qdrant.VectorSize,
	})

	ctx := context.Background()
	count, err := client.Count(ctx)
	if err != nil {
		return err
	}

	if !purgeYes {
		fmt.Printf("Delete %d points from %q at %s? [y/N] ", count, cfg.Qdrant.Collection, cfg.Qdrant.URL)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := client.DeleteAll(ctx); err != nil {
		return err
	}
	fmt.Printf("Purged %d points from collection %s\n", count, cfg.Qdrant.Collection)
	return nil
}
