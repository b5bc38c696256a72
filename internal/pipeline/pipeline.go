// Package pipeline runs the full reconciliation batch: load, normalize,
// classify, resolve binders, link amendments, extract clauses and metadata,
// and assemble the payload bundle.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/indexedakki/vectors-medtech/internal/binder"
	"github.com/indexedakki/vectors-medtech/internal/clause"
	"github.com/indexedakki/vectors-medtech/internal/config"
	"github.com/indexedakki/vectors-medtech/internal/contract"
	"github.com/indexedakki/vectors-medtech/internal/customer"
	"github.com/indexedakki/vectors-medtech/internal/meta"
	"github.com/indexedakki/vectors-medtech/internal/payload"
	"github.com/indexedakki/vectors-medtech/internal/record"
	"github.com/indexedakki/vectors-medtech/internal/storage"
)

// Summary holds the batch counters reported at the end of a run.
type Summary struct {
	RecordsProcessed   int
	RecordsSkipped     int
	Customers          int
	Agreements         int
	Amendments         int
	AmendmentsUnlinked int
	Binders            int
	BindersUnresolved  int
	Clauses            int
	MetadataFacts      int
	Envelopes          int
	EndDatesInherited  int
}

// Result is the output of one pipeline run.
type Result struct {
	Summary Summary
	Bundle  *payload.Bundle
	Binders []binder.Binder
	Catalog *contract.Catalog
}

// Runner executes the reconciliation pipeline.
type Runner struct {
	cfg *config.Config
	log *zap.Logger
}

// NewRunner creates a pipeline runner.
func NewRunner(cfg *config.Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, log: log}
}

// Run executes the full batch and returns the assembled result. When an
// audit database path is configured, records, explosion rows and binders
// are persisted and binder-family end dates propagated before assembly.
func (r *Runner) Run() (*Result, error) {
	rows, err := customer.LoadExplosion(r.cfg.Inputs.CustomerExplosion)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer explosion: %w", err)
	}
	dir := customer.BuildDirectory(rows)

	raws, err := record.LoadExport(r.cfg.Inputs.RecordExport)
	if err != nil {
		return nil, fmt.Errorf("failed to load record export: %w", err)
	}

	var records []record.Record
	skipped := 0
	for _, raw := range raws {
		rec, err := record.Normalize(raw)
		if err != nil {
			skipped++
			r.log.Warn("skipping malformed record",
				zap.String("content_id", raw.ContentID),
				zap.Error(err))
			continue
		}
		records = append(records, rec)
	}

	binders := binder.NewBuilder(dir, r.log).Build(records)
	cat := contract.Build(records, r.log)

	endDatesFixed := 0
	if r.cfg.Outputs.AuditDB != "" {
		endDatesFixed, err = r.audit(records, rows, binders)
		if err != nil {
			return nil, err
		}
	}

	clauses := r.extractClauses(cat)
	facts := meta.BuildFacts(cat, r.log)
	bundle := payload.Assemble(dir.Customers(), cat, clauses, facts, r.cfg.Qdrant.VectorSize)

	res := &Result{
		Bundle:  bundle,
		Binders: binders,
		Catalog: cat,
	}
	res.Summary = Summary{
		RecordsProcessed:   len(records),
		RecordsSkipped:     skipped,
		Customers:          len(bundle.Customers),
		Agreements:         len(cat.Agreements),
		Amendments:         len(cat.Amendments),
		AmendmentsUnlinked: len(cat.UnlinkedAmendments()),
		Binders:            len(binders),
		Clauses:            len(clauses),
		MetadataFacts:      len(facts),
		Envelopes:          bundle.Len(),
		EndDatesInherited:  endDatesFixed,
	}
	for _, b := range binders {
		if b.Status == binder.StatusUnresolved {
			res.Summary.BindersUnresolved++
		}
	}

	r.log.Info("pipeline run complete",
		zap.Int("records", res.Summary.RecordsProcessed),
		zap.Int("skipped", res.Summary.RecordsSkipped),
		zap.Int("binders", res.Summary.Binders),
		zap.Int("binders_unresolved", res.Summary.BindersUnresolved),
		zap.Int("amendments_unlinked", res.Summary.AmendmentsUnlinked),
		zap.Int("envelopes", res.Summary.Envelopes))

	return res, nil
}

func (r *Runner) audit(records []record.Record, rows []customer.ExplosionRow, binders []binder.Binder) (int, error) {
	store, err := storage.NewAuditStore(r.cfg.Outputs.AuditDB)
	if err != nil {
		return 0, fmt.Errorf("failed to open audit store: %w", err)
	}
	defer store.Close()

	for _, rec := range records {
		if err := store.SaveRecord(rec); err != nil {
			return 0, fmt.Errorf("failed to save record %s: %w", rec.ContentID, err)
		}
	}
	if err := store.ReplaceExplosion(rows); err != nil {
		return 0, fmt.Errorf("failed to save explosion rows: %w", err)
	}
	if err := store.SaveBinders(binders); err != nil {
		return 0, fmt.Errorf("failed to save binders: %w", err)
	}
	fixed, err := store.PropagateEndDates()
	if err != nil {
		return 0, fmt.Errorf("failed to propagate end dates: %w", err)
	}
	if fixed > 0 {
		r.log.Info("propagated family end dates", zap.Int("children_updated", fixed))
	}
	return fixed, nil
}

// extractClauses walks every agreement's document chain in chronological
// order: the root agreement document first, then its amendments sorted by
// effective date, article suffix and file name. The ordering decides which
// clause version ends up current, so it must not depend on directory
// iteration.
func (r *Runner) extractClauses(cat *contract.Catalog) []clause.Clause {
	ex := clause.NewExtractor()

	for _, agr := range cat.Agreements {
		if text, ok := r.readMarkdown(agr); ok {
			ex.Extract(agr.AgreementID, "", text)
		}

		amendments := amendmentsOf(cat, agr.AgreementID)
		for _, amd := range amendments {
			if text, ok := r.readMarkdown(amd); ok {
				ex.Extract(agr.AgreementID, amd.AgreementID, text)
			}
		}
	}

	return ex.Finalize()
}

// amendmentsOf returns an agreement's linked amendments in chronological
// order.
func amendmentsOf(cat *contract.Catalog, agreementID string) []contract.Document {
	var out []contract.Document
	for _, amd := range cat.Amendments {
		if amd.ParentAgreementID == agreementID {
			out = append(out, amd)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, errI := meta.ParseDate(out[i].EffectiveDate)
		tj, errJ := meta.ParseDate(out[j].EffectiveDate)
		if errI == nil && errJ == nil && !ti.Equal(tj) {
			return ti.Before(tj)
		}
		if (errI == nil) != (errJ == nil) {
			return errI == nil
		}
		si, sj := suffixOf(out[i]), suffixOf(out[j])
		if si != sj {
			return si < sj
		}
		return out[i].FileName < out[j].FileName
	})
	return out
}

func suffixOf(doc contract.Document) int {
	art, err := record.ParseArticleNumber(doc.RecordNo)
	if err != nil {
		return 0
	}
	return art.SuffixInt()
}

// readMarkdown loads the converted text for a document, looked up by
// content id. Documents without converted text yield no clauses.
func (r *Runner) readMarkdown(doc contract.Document) (string, bool) {
	if r.cfg.Inputs.MarkdownDir == "" || doc.ContentID == "" {
		return "", false
	}
	path := filepath.Join(r.cfg.Inputs.MarkdownDir, doc.ContentID+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}
