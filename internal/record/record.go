package record

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Record type names used by the record-management export.
const (
	RecordTypeCommercial = "CONTRACT COMMERCIAL DOCUMENT"
	RecordTypePA         = "CONTRACT PA DOCUMENT"
)

// Record is one normalized per-document metadata record. All date fields
// carry the raw export strings; normalization to ISO happens at metadata
// extraction time.
type Record struct {
	ContentID      string
	FileName       string
	ArticleNo      string
	Title          string
	RecordType     string
	ContractType   string
	RelatedRecords string

	UCN          string
	ParentUCN    string
	CustomerName string
	PolicyNumber string

	EffectiveDate string
	EndDate       string

	BusinessUnit         string
	ProductLines         []string
	Keywords             []string
	EligibleParticipants []string
}

// Article returns the parsed article number.
func (r Record) Article() (ArticleNumber, error) {
	return ParseArticleNumber(r.ArticleNo)
}

// IsCommercial reports whether the record belongs to the commercial
// contract stream.
func (r Record) IsCommercial() bool {
	return strings.EqualFold(strings.TrimSpace(r.RecordType), RecordTypeCommercial)
}

// IsProduct reports whether the record belongs to the product-agreement
// stream.
func (r Record) IsProduct() bool {
	return strings.EqualFold(strings.TrimSpace(r.RecordType), RecordTypePA)
}

// valueString models the export's nested `{"Value": "..."}` shape.
type valueString struct {
	Value string `json:"Value"`
}

// valueDate models export date fields, which carry both a machine and a
// display rendering.
type valueDate struct {
	DateTime    string `json:"DateTime"`
	StringValue string `json:"StringValue"`
}

func (v valueDate) best() string {
	if s := strings.TrimSpace(v.DateTime); s != "" {
		return s
	}
	return strings.TrimSpace(v.StringValue)
}

// RawRecord is one entry of the raw record-management export.
type RawRecord struct {
	RecordNumber    valueString `json:"RecordNumber"`
	RecordTitle     valueString `json:"RecordTitle"`
	RecordContainer struct {
		RecordNumber valueString `json:"RecordNumber"`
	} `json:"RecordContainer"`
	RecordRecordType struct {
		RecordTypeName valueString `json:"RecordTypeName"`
	} `json:"RecordRecordType"`
	RecordRelatedRecs valueString `json:"RecordRelatedRecs"`
	RecordDateClosed  valueDate   `json:"RecordDateClosed"`

	// Flat enrichment fields carried alongside the nested TRIM shape by the
	// export post-processing step.
	ContentID            string `json:"ContentID"`
	FileName             string `json:"FileName"`
	ContractType         string `json:"Contract_Type"`
	UCN                  string `json:"UCN"`
	ParentUCN            string `json:"Parent_UCN"`
	CustomerName         string `json:"Customer_Name"`
	PolicyNumber         string `json:"Policy_Number"`
	EffectiveDate        string `json:"Effective_Date"`
	EndDate              string `json:"End_Date"`
	BusinessUnit         string `json:"Business_Unit"`
	ProductLines         string `json:"Product_Lines"`
	Keywords             string `json:"Keywords"`
	EligibleParticipants string `json:"Eligible_Participants"`
}

// Normalize flattens a raw export entry into a Record. The article number
// comes from RecordNumber, falling back to the container's record number
// when the record itself has none. An unparseable article number is a
// parse error; the caller logs and skips the record.
func Normalize(raw RawRecord) (Record, error) {
	articleNo := strings.TrimSpace(raw.RecordNumber.Value)
	if articleNo == "" {
		articleNo = strings.TrimSpace(raw.RecordContainer.RecordNumber.Value)
	}
	if _, err := ParseArticleNumber(articleNo); err != nil {
		return Record{}, err
	}

	return Record{
		ContentID:            strings.TrimSpace(raw.ContentID),
		FileName:             strings.TrimSpace(raw.FileName),
		ArticleNo:            articleNo,
		Title:                strings.TrimSpace(raw.RecordTitle.Value),
		RecordType:           strings.TrimSpace(raw.RecordRecordType.RecordTypeName.Value),
		ContractType:         strings.TrimSpace(raw.ContractType),
		RelatedRecords:       raw.RecordRelatedRecs.Value,
		UCN:                  strings.TrimSpace(raw.UCN),
		ParentUCN:            strings.TrimSpace(raw.ParentUCN),
		CustomerName:         strings.TrimSpace(raw.CustomerName),
		PolicyNumber:         strings.TrimSpace(raw.PolicyNumber),
		EffectiveDate:        firstNonEmpty(raw.EffectiveDate, ""),
		EndDate:              firstNonEmpty(raw.EndDate, raw.RecordDateClosed.best()),
		BusinessUnit:         strings.TrimSpace(raw.BusinessUnit),
		ProductLines:         splitList(raw.ProductLines),
		Keywords:             splitList(raw.Keywords),
		EligibleParticipants: splitList(raw.EligibleParticipants),
	}, nil
}

// LoadExport reads a raw export file (a JSON array of records).
func LoadExport(path string) ([]RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	var raws []RawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	return raws, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
