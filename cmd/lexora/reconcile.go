package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/indexedakki/vectors-medtech/internal/payload"
	"github.com/indexedakki/vectors-medtech/internal/pipeline"
	"github.com/indexedakki/vectors-medtech/pkg/logger"
)

var reconcileOut string

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run the reconciliation batch and write the payload bundle",
	Long: `Run the full reconciliation batch: normalize the record export,
resolve binders, link amendments, extract clauses and metadata, and write
the combined payload bundle for ingestion.

Examples:
  lexora reconcile
  lexora reconcile --out out/payload.json`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVarP(&reconcileOut, "out", "o", "", "payload output file (overrides config)")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if reconcileOut != "" {
		cfg.Outputs.PayloadFile = reconcileOut
	}

	res, err := pipeline.NewRunner(cfg, logger.Get()).Run()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Outputs.PayloadFile), 0755); err != nil {
		return err
	}
	if err := payload.Write(res.Bundle, cfg.Outputs.PayloadFile); err != nil {
		return err
	}

	s := res.Summary
	fmt.Println("Reconciliation Summary")
	fmt.Println(strings.Repeat("=", 40))
	fmt.Printf("  %-22s %d\n", "Records processed:", s.RecordsProcessed)
	fmt.Printf("  %-22s %d\n", "Records skipped:", s.RecordsSkipped)
	fmt.Printf("  %-22s %d\n", "Customers:", s.Customers)
	fmt.Printf("  %-22s %d\n", "Agreements:", s.Agreements)
	fmt.Printf("  %-22s %d\n", "Amendments:", s.Amendments)
	fmt.Printf("  %-22s %d\n", "  unlinked:", s.AmendmentsUnlinked)
	fmt.Printf("  %-22s %d\n", "Binders:", s.Binders)
	fmt.Printf("  %-22s %d\n", "  unresolved:", s.BindersUnresolved)
	fmt.Printf("  %-22s %d\n", "Clauses:", s.Clauses)
	fmt.Printf("  %-22s %d\n", "Metadata facts:", s.MetadataFacts)
	fmt.Printf("  %-22s %d\n", "Envelopes:", s.Envelopes)
	fmt.Printf("\nPayload written to %s\n", cfg.Outputs.PayloadFile)

	return nil
}
