// Package meta extracts date metadata facts from agreements and extension
// amendments, normalizing the export's mixed date formats to UTC ISO-8601.
package meta

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/indexedakki/vectors-medtech/internal/classify"
	"github.com/indexedakki/vectors-medtech/internal/contract"
	"github.com/indexedakki/vectors-medtech/internal/version"
)

// Metadata fields emitted per document.
const (
	FieldEffectiveDate = "effective_date"
	FieldEndDate       = "end_date"
)

// FormatError marks a date string outside the accepted formats. It aborts
// the single fact, never the batch.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported date format: %q", e.Value)
}

// layouts are the accepted input formats, tried in order.
var layouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006",
	"1/2/06",
}

// ParseDate parses a date string in one of the accepted formats as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &FormatError{Value: s}
}

// ToISO normalizes a date string to UTC ISO-8601,
// e.g. "3/31/2030" -> "2030-03-31T00:00:00Z".
func ToISO(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(time.RFC3339), nil
}

// titleDatePattern matches a date embedded in a document title, such as
// "Extension to 3/31/2030".
var titleDatePattern = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)

// DateFromTitle returns the first embedded date in a title. Titles are
// considered authoritative over stale structured end-date fields.
func DateFromTitle(title string) (string, bool) {
	m := titleDatePattern.FindString(title)
	return m, m != ""
}

// Fact is one versioned metadata fact.
type Fact struct {
	MetadataID  string
	AgreementID string
	AmendmentID string
	Field       string
	Value       string
	ValueISO    string
	ValueTS     int64
	Version     int
	IsCurrent   bool
}

// Builder accumulates facts across documents and resolves currency. Feed
// documents in chronological order; the last emitted fact per
// (agreement, field) key becomes the current one.
type Builder struct {
	tracker *version.Tracker
	facts   []Fact
	log     *zap.Logger
}

// NewBuilder creates an empty fact builder.
func NewBuilder(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{tracker: version.NewTracker(), log: log}
}

// AddDocument emits the effective-date and end-date facts for one document.
// agreementID is the fact's owning agreement; amendmentID is empty for
// agreement documents. The version counter advances even when a field is
// empty, so versions record every document pass, but empty fields emit no
// fact. An end date embedded in the title supersedes the structured field.
func (b *Builder) AddDocument(agreementID, amendmentID string, doc contract.Document) {
	endDate := doc.EndDate
	if embedded, ok := DateFromTitle(doc.Title); ok {
		endDate = embedded
	}
	b.add(agreementID, amendmentID, FieldEffectiveDate, doc.EffectiveDate)
	b.add(agreementID, amendmentID, FieldEndDate, endDate)
}

func (b *Builder) add(agreementID, amendmentID, field, value string) {
	v := b.tracker.Next(agreementID, field)
	if strings.TrimSpace(value) == "" {
		return
	}

	iso, err := ToISO(value)
	if err != nil {
		b.log.Warn("skipping metadata fact with unparseable date",
			zap.String("agreement_id", agreementID),
			zap.String("meta_field", field),
			zap.String("meta_value", value),
			zap.Error(err))
		return
	}
	ts, _ := ParseDate(value)

	b.facts = append(b.facts, Fact{
		MetadataID:  fmt.Sprintf("%s-%s", field, version.Label(v)),
		AgreementID: agreementID,
		AmendmentID: amendmentID,
		Field:       field,
		Value:       value,
		ValueISO:    iso,
		ValueTS:     ts.Unix(),
		Version:     v,
	})
}

// Finalize marks the last emitted fact per (agreement, field) key as
// current and returns every fact in emission order. Currency is resolved
// over emitted facts only, so a skipped empty field never leaves a key
// without a current fact.
func (b *Builder) Finalize() []Fact {
	type key struct {
		agreementID string
		field       string
	}
	latest := make(map[key]int)
	for _, f := range b.facts {
		k := key{f.AgreementID, f.Field}
		if f.Version > latest[k] {
			latest[k] = f.Version
		}
	}
	for i := range b.facts {
		f := &b.facts[i]
		f.IsCurrent = f.Version == latest[key{f.AgreementID, f.Field}]
	}
	return b.facts
}

// BuildFacts extracts metadata facts from a contract catalog: every
// agreement first, then every extension amendment linked to an agreement.
// Unlinked extensions have no owning agreement key and are logged and
// skipped.
func BuildFacts(cat *contract.Catalog, log *zap.Logger) []Fact {
	b := NewBuilder(log)
	for _, agr := range cat.Agreements {
		b.AddDocument(agr.AgreementID, "", agr)
	}
	for _, amd := range cat.Amendments {
		if !classify.HasTag(amd.Tags, classify.TagExt) {
			continue
		}
		if amd.ParentAgreementID == "" {
			b.log.Info("skipping metadata for unlinked extension",
				zap.String("amendment_id", amd.AgreementID),
				zap.String("title", amd.Title))
			continue
		}
		b.AddDocument(amd.ParentAgreementID, amd.AgreementID, amd)
	}
	return b.Finalize()
}
