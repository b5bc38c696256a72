// Package clause extracts numbered clause sections from converted document
// markdown and versions them per agreement.
package clause

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/indexedakki/vectors-medtech/internal/version"
)

// headingPattern matches numbered section headings such as
// "## 4.2. Term and Termination". The trailing dot after the number is
// required; unnumbered headings are body text.
var headingPattern = regexp.MustCompile(`^##\s*(\d+(?:\.\d+)*)\.\s+(.+)$`)

// Section is one extracted clause section of a document.
type Section struct {
	Number string
	Title  string
	Body   string
}

// ExtractSections scans markdown text for numbered clause headings. Each
// section's body runs until the next matching heading or end of text. A
// document with no matching headings yields no sections.
func ExtractSections(text string) []Section {
	var sections []Section
	var current *Section
	var body strings.Builder

	flush := func() {
		if current != nil {
			current.Body = strings.TrimSpace(body.String())
			sections = append(sections, *current)
			body.Reset()
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			flush()
			current = &Section{Number: m[1], Title: strings.TrimSpace(m[2])}
			continue
		}
		if current != nil {
			body.WriteString(line)
			body.WriteString("\n")
		}
	}
	flush()
	return sections
}

// Clause is one versioned clause record. Identity for versioning is the
// normalized title, not the section number, because section numbers shift
// between amendment documents.
type Clause struct {
	ClauseID    string
	AgreementID string
	AmendmentID string
	Title       string
	Text        string
	Version     int
	IsCurrent   bool
}

// Extractor accumulates clauses across documents and resolves currency.
// Documents must be fed in a stable chronological order; the last clause
// seen for a (agreement, title) key becomes the current one.
type Extractor struct {
	tracker *version.Tracker
	clauses []Clause
}

// NewExtractor creates an empty extractor.
func NewExtractor() *Extractor {
	return &Extractor{tracker: version.NewTracker()}
}

// Extract parses one document's markdown and appends its clauses under the
// given agreement. amendmentID is empty for the root agreement document.
// It returns the number of clauses found.
func (e *Extractor) Extract(agreementID, amendmentID, text string) int {
	sections := ExtractSections(text)
	for _, sec := range sections {
		v := e.tracker.Next(agreementID, sec.Title)
		e.clauses = append(e.clauses, Clause{
			ClauseID:    clauseIdentifier(sec.Title, v),
			AgreementID: agreementID,
			AmendmentID: amendmentID,
			Title:       sec.Title,
			Text:        sec.Body,
			Version:     v,
		})
	}
	return len(sections)
}

// Finalize marks the highest version per (agreement, title) key as current
// and returns every accumulated clause in extraction order.
func (e *Extractor) Finalize() []Clause {
	for i := range e.clauses {
		c := &e.clauses[i]
		c.IsCurrent = c.Version == e.tracker.Latest(c.AgreementID, c.Title)
	}
	return e.clauses
}

// clauseIdentifier derives the clause id from the title with spaces turned
// into dashes plus the three-digit version, e.g.
// "CL-Term-and-Termination-001".
func clauseIdentifier(title string, v int) string {
	return fmt.Sprintf("CL-%s-%s", strings.Join(strings.Fields(title), "-"), version.Label(v))
}
