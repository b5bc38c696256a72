// Package payload assembles customers, agreements, amendments, clauses and
// metadata facts into the envelope artifact consumed by the index loader.
package payload

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/indexedakki/vectors-medtech/internal/clause"
	"github.com/indexedakki/vectors-medtech/internal/contract"
	"github.com/indexedakki/vectors-medtech/internal/customer"
	"github.com/indexedakki/vectors-medtech/internal/meta"
)

// Envelope is one indexable unit: a composite id, a vector sized to the
// index's configured dimension, and the payload fields the index filters
// on. The vector stays a zero placeholder until an embedding step fills
// it.
type Envelope struct {
	ID      string         `json:"id"`
	Vector  []float64      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// Bundle is the combined artifact, grouped by category.
type Bundle struct {
	Customers  []Envelope `json:"customers"`
	Agreements []Envelope `json:"agreement"`
	Amendments []Envelope `json:"amendment"`
	Clauses    []Envelope `json:"clause"`
	Metadata   []Envelope `json:"metadata"`
}

// All returns every envelope in category order, for bulk loading.
func (b *Bundle) All() []Envelope {
	out := make([]Envelope, 0, b.Len())
	out = append(out, b.Customers...)
	out = append(out, b.Agreements...)
	out = append(out, b.Amendments...)
	out = append(out, b.Clauses...)
	return append(out, b.Metadata...)
}

// Len returns the total envelope count.
func (b *Bundle) Len() int {
	return len(b.Customers) + len(b.Agreements) + len(b.Amendments) + len(b.Clauses) + len(b.Metadata)
}

// Assemble builds the combined bundle. vectorSize is the index's configured
// vector dimension; every envelope gets a placeholder vector of that size.
func Assemble(customers []customer.Customer, cat *contract.Catalog, clauses []clause.Clause, facts []meta.Fact, vectorSize int) *Bundle {
	b := &Bundle{}

	for _, c := range customers {
		children := make([]map[string]any, 0, len(c.Children))
		for _, child := range c.Children {
			children = append(children, map[string]any{"id": child.ID, "name": child.Name})
		}
		b.Customers = append(b.Customers, Envelope{
			ID:     fmt.Sprintf("CUST|%s", c.ID),
			Vector: make([]float64, vectorSize),
			Payload: map[string]any{
				"doc_type":      "customer",
				"customer_id":   c.ID,
				"customer_name": c.Name,
				"customer_type": string(c.Type),
				"children":      children,
			},
		})
	}

	for _, agr := range cat.Agreements {
		b.Agreements = append(b.Agreements, Envelope{
			ID:      fmt.Sprintf("AGR|%s", agr.AgreementID),
			Vector:  make([]float64, vectorSize),
			Payload: documentPayload(agr),
		})
	}

	for _, amd := range cat.Amendments {
		p := documentPayload(amd)
		p["amendment_id"] = amd.AgreementID
		p["parent_agreement_id"] = amd.ParentAgreementID
		tags := make([]string, 0, len(amd.Tags))
		for _, tag := range amd.Tags {
			tags = append(tags, string(tag))
		}
		p["type_amendment"] = tags
		b.Amendments = append(b.Amendments, Envelope{
			ID:      fmt.Sprintf("AMD|%s", amd.AgreementID),
			Vector:  make([]float64, vectorSize),
			Payload: p,
		})
	}

	for _, cl := range clauses {
		b.Clauses = append(b.Clauses, Envelope{
			ID:     fmt.Sprintf("CL|%s|%s", cl.AgreementID, cl.ClauseID),
			Vector: make([]float64, vectorSize),
			Payload: map[string]any{
				"doc_type":     "clause",
				"clause_id":    cl.ClauseID,
				"agreement_id": cl.AgreementID,
				"amendment_id": cl.AmendmentID,
				"clause_title": cl.Title,
				"text":         cl.Text,
				"version":      cl.Version,
				"is_current":   cl.IsCurrent,
			},
		})
	}

	for _, f := range facts {
		b.Metadata = append(b.Metadata, Envelope{
			ID:     fmt.Sprintf("META|%s|%s", f.AgreementID, f.MetadataID),
			Vector: make([]float64, vectorSize),
			Payload: map[string]any{
				"doc_type":       "metadata",
				"metadata_id":    f.MetadataID,
				"agreement_id":   f.AgreementID,
				"amendment_id":   f.AmendmentID,
				"meta_field":     f.Field,
				"meta_value":     f.Value,
				"meta_value_iso": f.ValueISO,
				"meta_value_ts":  f.ValueTS,
				"is_current":     f.IsCurrent,
			},
		})
	}

	return b
}

func documentPayload(doc contract.Document) map[string]any {
	return map[string]any{
		"doc_type":              string(doc.DocType),
		"agreement_id":          doc.AgreementID,
		"record_no":             doc.RecordNo,
		"file_name":             doc.FileName,
		"title":                 doc.Title,
		"effective_date":        doc.EffectiveDate,
		"end_date":              doc.EndDate,
		"customer_id":           doc.CustomerID,
		"customer_name":         doc.CustomerName,
		"business_unit":         doc.BusinessUnit,
		"product_lines":         doc.ProductLines,
		"keywords":              doc.Keywords,
		"eligible_participants": doc.EligibleParticipants,
	}
}

// Write serializes the bundle to a JSON file.
func Write(b *Bundle, path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode payload bundle: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write payload bundle: %w", err)
	}
	return nil
}

// Load reads a bundle written by Write.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload bundle: %w", err)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to decode payload bundle: %w", err)
	}
	return &b, nil
}
