package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/indexedakki/vectors-medtech/internal/binder"
	"github.com/indexedakki/vectors-medtech/internal/qdrant"
	"github.com/indexedakki/vectors-medtech/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pipeline and index status",
	Long: `Display audit-store counts from the last reconciliation run and
the point count of the configured index collection.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("Lexora Status")
	fmt.Println(strings.Repeat("=", 40))

	fmt.Println("\nConfiguration:")
	fmt.Printf("  Audit DB:   %s\n", cfg.Outputs.AuditDB)
	fmt.Printf("  Payload:    %s\n", cfg.Outputs.PayloadFile)
	fmt.Printf("  Qdrant:     %s (%s)\n", cfg.Qdrant.URL, cfg.Qdrant.Collection)
	fmt.Printf("  API key:    %s\n", keyStatus(cfg.Qdrant.APIKey))

	fmt.Println("\nAudit store:")
	store, err := storage.NewAuditStore(cfg.Outputs.AuditDB)
	if err != nil {
		fmt.Printf("  Status:     FAILED (%s)\n", err)
	} else {
		defer store.Close()
		records, binders, unresolved, err := store.Counts()
		if err != nil {
			fmt.Printf("  Status:     error (%s)\n", err)
		} else {
			fmt.Printf("  Records:    %d\n", records)
			fmt.Printf("  Binders:    %d\n", binders)
			fmt.Printf("  Unresolved: %d\n", unresolved)
			if unresolved > 0 {
				if flagged, err := store.ListBinders(binder.StatusUnresolved); err == nil {
					for _, b := range flagged {
						fmt.Printf("    %-24s %s\n", b.TrimNumber, b.Comment)
					}
				}
			}
		}
	}

	fmt.Println("\nIndex:")
	client := qdrant.NewClient(qdrant.Config{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
		VectorSize: cfg.Qdrant.VectorSize,
	})
	count, err := client.Count(context.Background())
	if err != nil {
		fmt.Printf("  Status:     unreachable (%s)\n", err)
		return nil
	}
	fmt.Printf("  Points:     %d\n", count)

	return nil
}

func keyStatus(key string) string {
	if key == "" {
		return "not set"
	}
	if len(key) > 12 {
		return key[:4] + "..." + key[len(key)-4:] + " (set)"
	}
	return "****** (set)"
}
