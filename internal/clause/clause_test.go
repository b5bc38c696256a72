package clause

import (
	"reflect"
	"testing"
)

const agreementDoc = `# Master IDN Consignment Agreement

## 1. Definitions

Capitalized terms have the meanings set out below.

## 2. Term and Termination

This agreement runs through 12/31/2027.

## 2.1. Renewal

Renews annually unless terminated.
`

const extensionDoc = `# Extension to 3/31/2030

## 1. Term and Termination

This agreement is extended through 3/31/2030.
`

func TestExtractSections(t *testing.T) {
	sections := ExtractSections(agreementDoc)

	want := []Section{
		{Number: "1", Title: "Definitions", Body: "Capitalized terms have the meanings set out below."},
		{Number: "2", Title: "Term and Termination", Body: "This agreement runs through 12/31/2027."},
		{Number: "2.1", Title: "Renewal", Body: "Renews annually unless terminated."},
	}
	if !reflect.DeepEqual(sections, want) {
		t.Errorf("unexpected sections\ngot:  %+v\nwant: %+v", sections, want)
	}
}

func TestExtractSectionsIgnoresUnnumberedHeadings(t *testing.T) {
	text := "# Title\n\n## Appendix\n\nnot a clause\n"
	if sections := ExtractSections(text); len(sections) != 0 {
		t.Errorf("expected no sections for unnumbered headings, got %+v", sections)
	}
}

func TestExtractSectionsEmptyDocument(t *testing.T) {
	if sections := ExtractSections(""); len(sections) != 0 {
		t.Errorf("expected no sections for an empty document, got %+v", sections)
	}
}

func TestExtractorVersionsRepeatedTitles(t *testing.T) {
	ex := NewExtractor()
	ex.Extract("MA-1001", "", agreementDoc)
	ex.Extract("MA-1001", "AM-1001", extensionDoc)
	clauses := ex.Finalize()

	var term []Clause
	for _, c := range clauses {
		if c.Title == "Term and Termination" {
			term = append(term, c)
		}
	}
	if len(term) != 2 {
		t.Fatalf("expected 2 term clauses, got %d", len(term))
	}

	first, second := term[0], term[1]
	if first.ClauseID != "CL-Term-and-Termination-001" || second.ClauseID != "CL-Term-and-Termination-002" {
		t.Errorf("unexpected clause ids %q, %q", first.ClauseID, second.ClauseID)
	}
	if first.IsCurrent {
		t.Errorf("expected the root agreement clause superseded")
	}
	if !second.IsCurrent {
		t.Errorf("expected the extension clause current")
	}
	if second.AmendmentID != "AM-1001" {
		t.Errorf("expected the amendment id carried through, got %q", second.AmendmentID)
	}
}

func TestExtractorScopesVersionsPerAgreement(t *testing.T) {
	ex := NewExtractor()
	ex.Extract("MA-1001", "", agreementDoc)
	ex.Extract("MA-1002", "", agreementDoc)
	clauses := ex.Finalize()

	for _, c := range clauses {
		if c.Version != 1 || !c.IsCurrent {
			t.Errorf("expected independent version 1 per agreement, got %+v", c)
		}
	}
}

func TestExtractReturnsSectionCount(t *testing.T) {
	ex := NewExtractor()
	if n := ex.Extract("MA-1001", "", agreementDoc); n != 3 {
		t.Errorf("expected 3 sections, got %d", n)
	}
	if n := ex.Extract("MA-1001", "", "no headings here"); n != 0 {
		t.Errorf("expected 0 sections, got %d", n)
	}
}
