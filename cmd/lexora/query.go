package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/indexedakki/vectors-medtech/internal/qdrant"
)

var (
	queryDocType     string
	queryAgreement   string
	queryClauseTitle string
	queryMetaField   string
	queryCurrent     bool
	querySince       string
	queryUntil       string
	queryText        string
	queryLimit       int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query indexed payloads by filter",
	Long: `Scroll the index with payload filters and print matching points
as JSON.

Examples:
  lexora query --doc-type clause --agreement MA-1001 --current
  lexora query --doc-type metadata --meta-field end_date --since 2030-01-01T00:00:00Z
  lexora query --doc-type clause --text "termination"`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryDocType, "doc-type", "", "filter by document type")
	queryCmd.Flags().StringVar(&queryAgreement, "agreement", "", "filter by agreement id")
	queryCmd.Flags().StringVar(&queryClauseTitle, "clause-title", "", "filter by clause title")
	queryCmd.Flags().StringVar(&queryMetaField, "meta-field", "", "filter by metadata field")
	queryCmd.Flags().BoolVar(&queryCurrent, "current", false, "only current clause/metadata versions")
	queryCmd.Flags().StringVar(&querySince, "since", "", "metadata ISO date lower bound")
	queryCmd.Flags().StringVar(&queryUntil, "until", "", "metadata ISO date upper bound")
	queryCmd.Flags().StringVar(&queryText, "text", "", "full-text match on clause text")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 20, "maximum results")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var conditions []qdrant.Condition
	if queryDocType != "" {
		conditions = append(conditions, qdrant.Condition{Field: "doc_type", Match: queryDocType})
	}
	if queryAgreement != "" {
		conditions = append(conditions, qdrant.Condition{Field: "agreement_id", Match: queryAgreement})
	}
	if queryClauseTitle != "" {
		conditions = append(conditions, qdrant.Condition{Field: "clause_title", Match: queryClauseTitle})
	}
	if queryMetaField != "" {
		conditions = append(conditions, qdrant.Condition{Field: "meta_field", Match: queryMetaField})
	}
	if queryCurrent {
		conditions = append(conditions, qdrant.Condition{Field: "is_current", Match: true})
	}
	if querySince != "" || queryUntil != "" {
		cond := qdrant.Condition{Field: "meta_value_iso"}
		if querySince != "" {
			cond.GTE = querySince
		}
		if queryUntil != "" {
			cond.LTE = queryUntil
		}
		conditions = append(conditions, cond)
	}
	if queryText != "" {
		conditions = append(conditions, qdrant.Condition{Field: "text", MatchText: queryText})
	}

	client := qdrant.NewClient(qdrant.Config{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
		VectorSize: cfg.Qdrant.VectorSize,
	})

	results, err := client.Scroll(context.Background(), conditions, queryLimit)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d results\n", len(results))
	return nil
}
