package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/indexedakki/vectors-medtech/internal/config"
)

const exportJSON = `[
  {
    "ContentID": "c-1",
    "FileName": "master.pdf",
    "RecordNumber": {"Value": "001018471~00073572.001"},
    "RecordTitle": {"Value": "Master IDN Consignment Agreement"},
    "RecordRecordType": {"RecordTypeName": {"Value": "CONTRACT COMMERCIAL DOCUMENT"}},
    "Contract_Type": "COMMERCIAL",
    "UCN": "100000001",
    "Customer_Name": "Mercy Hospital St. Louis",
    "Policy_Number": "MC687",
    "Effective_Date": "2024-01-01",
    "End_Date": "2027-12-31"
  },
  {
    "ContentID": "c-2",
    "FileName": "extension.pdf",
    "RecordNumber": {"Value": "001018471~00073572.002"},
    "RecordTitle": {"Value": "Extension to 3/31/2030"},
    "RecordRecordType": {"RecordTypeName": {"Value": "CONTRACT COMMERCIAL DOCUMENT"}},
    "Contract_Type": "COMMERCIAL",
    "UCN": "100000001",
    "Effective_Date": "2027-06-01"
  },
  {
    "ContentID": "c-3",
    "FileName": "broken.pdf",
    "RecordNumber": {"Value": "not-an-article"},
    "RecordTitle": {"Value": "Broken Record"},
    "RecordRecordType": {"RecordTypeName": {"Value": "CONTRACT COMMERCIAL DOCUMENT"}}
  }
]`

const explosionJSON = `[
  {
    "M_SUPER_PARNT_UNI_CUST_NO": "300000001",
    "IDN_NAME": "Mercy Health",
    "INDIV_UCN": "100000001",
    "MEMBER_SHIPTO_UCN": "200000001",
    "CUST_LN1_NM": "Mercy Hospital St. Louis"
  }
]`

const masterMarkdown = `# Master IDN Consignment Agreement

## 1. Term and Termination

This agreement runs through 12/31/2027.

## 2. Pricing

Prices per Exhibit A.
`

const extensionMarkdown = `# Extension to 3/31/2030

## 1. Term and Termination

This agreement is extended through 3/31/2030.
`

func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	mdDir := filepath.Join(root, "md")
	if err := os.MkdirAll(mdDir, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	files := map[string]string{
		filepath.Join(root, "export.json"):    exportJSON,
		filepath.Join(root, "explosion.json"): explosionJSON,
		filepath.Join(mdDir, "c-1.md"):        masterMarkdown,
		filepath.Join(mdDir, "c-2.md"):        extensionMarkdown,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s failed: %v", path, err)
		}
	}

	cfg := config.DefaultConfig()
	cfg.Inputs.RecordExport = filepath.Join(root, "export.json")
	cfg.Inputs.CustomerExplosion = filepath.Join(root, "explosion.json")
	cfg.Inputs.MarkdownDir = mdDir
	cfg.Outputs.AuditDB = filepath.Join(root, "audit.db")
	cfg.Qdrant.VectorSize = 8
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	res, err := NewRunner(fixtureConfig(t), nil).Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	s := res.Summary
	if s.RecordsProcessed != 2 || s.RecordsSkipped != 1 {
		t.Errorf("unexpected record counts: %d processed, %d skipped", s.RecordsProcessed, s.RecordsSkipped)
	}
	if s.Agreements != 1 || s.Amendments != 1 || s.AmendmentsUnlinked != 0 {
		t.Errorf("unexpected catalog counts: %+v", s)
	}
	if s.Binders != 1 || s.BindersUnresolved != 0 {
		t.Errorf("unexpected binder counts: %+v", s)
	}
	if s.Clauses != 3 {
		t.Errorf("expected 3 clauses (2 from the root, 1 from the extension), got %d", s.Clauses)
	}
	if s.Envelopes != res.Bundle.Len() {
		t.Errorf("summary envelope count disagrees with bundle: %d vs %d", s.Envelopes, res.Bundle.Len())
	}
}

func TestRunClauseCurrency(t *testing.T) {
	res, err := NewRunner(fixtureConfig(t), nil).Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var current []string
	for _, env := range res.Bundle.Clauses {
		if env.Payload["clause_title"] == "Term and Termination" && env.Payload["is_current"] == true {
			current = append(current, env.Payload["clause_id"].(string))
		}
	}
	if len(current) != 1 || current[0] != "CL-Term-and-Termination-002" {
		t.Errorf("expected only the extension's term clause current, got %v", current)
	}
}

func TestRunMetadataScenario(t *testing.T) {
	res, err := NewRunner(fixtureConfig(t), nil).Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var found bool
	for _, env := range res.Bundle.Metadata {
		if env.Payload["meta_field"] == "end_date" && env.Payload["is_current"] == true {
			found = true
			if env.Payload["meta_value"] != "3/31/2030" {
				t.Errorf("expected the title date as value, got %v", env.Payload["meta_value"])
			}
			if env.Payload["meta_value_iso"] != "2030-03-31T00:00:00Z" {
				t.Errorf("unexpected ISO value %v", env.Payload["meta_value_iso"])
			}
		}
	}
	if !found {
		t.Fatal("expected a current end-date metadata fact")
	}
}

func TestRunBinderUCNAttribution(t *testing.T) {
	res, err := NewRunner(fixtureConfig(t), nil).Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(res.Binders) != 1 {
		t.Fatalf("expected 1 binder, got %d", len(res.Binders))
	}
	b := res.Binders[0]
	if b.ParentUCN != "300000001" {
		t.Errorf("expected the individual UCN resolved to its parent, got %q", b.ParentUCN)
	}
	if b.ParentContentID != "c-1" || len(b.ChildContentIDs) != 1 {
		t.Errorf("unexpected binder shape %+v", b)
	}
}

func TestRunWithoutMarkdownDir(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Inputs.MarkdownDir = ""
	cfg.Outputs.AuditDB = ""

	res, err := NewRunner(cfg, nil).Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Summary.Clauses != 0 {
		t.Errorf("expected no clauses without converted text, got %d", res.Summary.Clauses)
	}
	if res.Summary.MetadataFacts == 0 {
		t.Errorf("expected metadata facts independent of markdown")
	}
}
