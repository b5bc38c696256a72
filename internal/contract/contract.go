// Package contract turns classified records into agreement and amendment
// entities, assigning sequential ids and linking every amendment to its
// governing agreement or product agreement.
package contract

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/indexedakki/vectors-medtech/internal/classify"
	"github.com/indexedakki/vectors-medtech/internal/record"
)

// Document is one agreement, product agreement or amendment entity.
// Immutable once built; currency lives on clauses and metadata facts, not
// on documents.
type Document struct {
	ContentID            string
	RecordNo             string
	FileName             string
	DocType              classify.Kind
	AgreementID          string
	ParentAgreementID    string
	Title                string
	EffectiveDate        string
	EndDate              string
	CustomerID           string
	CustomerName         string
	BusinessUnit         string
	ProductLines         []string
	Keywords             []string
	EligibleParticipants []string
	Tags                 []classify.Tag
}

// IsAmendment reports whether the document is an amendment.
func (d Document) IsAmendment() bool {
	return d.DocType == classify.KindAmendment
}

// productEntry is one product agreement available for title-based amendment
// linkage: its title normalized for substring matching plus its id.
type productEntry struct {
	product string
	paID    string
}

// Catalog holds the built entities and the lookups used to link amendments.
type Catalog struct {
	Agreements []Document
	Amendments []Document

	masterByRoot map[string]string
	products     []productEntry
}

// AgreementByRoot returns the master agreement id registered for a root
// article prefix.
func (c *Catalog) AgreementByRoot(root string) (string, bool) {
	id, ok := c.masterByRoot[root]
	return id, ok
}

// Documents returns agreements followed by amendments.
func (c *Catalog) Documents() []Document {
	out := make([]Document, 0, len(c.Agreements)+len(c.Amendments))
	out = append(out, c.Agreements...)
	return append(out, c.Amendments...)
}

// UnlinkedAmendments returns amendments whose parent agreement could not be
// resolved.
func (c *Catalog) UnlinkedAmendments() []Document {
	var out []Document
	for _, amd := range c.Amendments {
		if amd.ParentAgreementID == "" {
			out = append(out, amd)
		}
	}
	return out
}

// Id counters start at 1001 so every id is four digits wide.
const firstID = 1001

// Build classifies every record and assembles the catalog. Records are
// processed in article-number order and agreements are registered before
// amendments are linked, so linkage does not depend on export file order.
// Records that fail classification are logged and skipped.
func Build(records []record.Record, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}

	sorted := make([]record.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ArticleNo < sorted[j].ArticleNo })

	cat := &Catalog{masterByRoot: make(map[string]string)}
	maCounter, paCounter, amCounter := firstID, firstID, firstID

	type pending struct {
		rec record.Record
		cls classify.Classification
	}
	var amendments []pending

	// First pass: agreements and product agreements, registering lookups.
	for _, rec := range sorted {
		cls, err := classify.Classify(rec)
		if err != nil {
			log.Warn("skipping unclassifiable record",
				zap.String("content_id", rec.ContentID),
				zap.String("article_no", rec.ArticleNo),
				zap.Error(err))
			continue
		}

		switch cls.Kind {
		case classify.KindMasterAgreement:
			doc := newDocument(rec, cls)
			doc.AgreementID = fmt.Sprintf("MA-%d", maCounter)
			maCounter++
			art, _ := rec.Article()
			cat.masterByRoot[art.Root()] = doc.AgreementID
			cat.Agreements = append(cat.Agreements, doc)

		case classify.KindProductAgreement:
			doc := newDocument(rec, cls)
			doc.AgreementID = fmt.Sprintf("PA-%d", paCounter)
			paCounter++
			if product := normalizeProductTitle(rec.Title); product != "" {
				cat.products = append(cat.products, productEntry{product: product, paID: doc.AgreementID})
			}
			cat.Agreements = append(cat.Agreements, doc)

		default:
			amendments = append(amendments, pending{rec: rec, cls: cls})
		}
	}

	// Second pass: amendments, linked against the registered agreements.
	for _, p := range amendments {
		doc := newDocument(p.rec, p.cls)
		doc.AgreementID = fmt.Sprintf("AM-%d", amCounter)
		amCounter++
		doc.ParentAgreementID = cat.linkAmendment(p.rec, p.cls.Tags)
		if doc.ParentAgreementID == "" {
			log.Info("amendment retained unlinked",
				zap.String("amendment_id", doc.AgreementID),
				zap.String("article_no", doc.RecordNo),
				zap.String("title", doc.Title))
		}
		cat.Amendments = append(cat.Amendments, doc)
	}

	return cat
}

// linkAmendment resolves an amendment's governing agreement:
//
//  1. the master agreement sharing the amendment's root article prefix;
//  2. for extension amendments whose title names a product agreement's
//     product, that product agreement, which overrides rule 1;
//  3. otherwise unlinked.
func (c *Catalog) linkAmendment(rec record.Record, tags []classify.Tag) string {
	parent := ""
	if art, err := rec.Article(); err == nil {
		parent = c.masterByRoot[art.Root()]
	}

	if classify.HasTag(tags, classify.TagExt) {
		title := strings.ToLower(rec.Title)
		if strings.Contains(title, "prod agree") {
			for _, entry := range c.products {
				if strings.Contains(title, entry.product) {
					parent = entry.paID
					break
				}
			}
		}
	}
	return parent
}

// normalizeProductTitle strips the boilerplate from a product-agreement
// title, leaving the product name used for amendment title matching.
func normalizeProductTitle(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, "amendment,", "")
	s = strings.ReplaceAll(s, "add prod agree", "")
	return strings.TrimSpace(s)
}

func newDocument(rec record.Record, cls classify.Classification) Document {
	return Document{
		ContentID:            rec.ContentID,
		RecordNo:             rec.ArticleNo,
		FileName:             rec.FileName,
		DocType:              cls.Kind,
		Title:                rec.Title,
		EffectiveDate:        rec.EffectiveDate,
		EndDate:              rec.EndDate,
		CustomerID:           rec.UCN,
		CustomerName:         rec.CustomerName,
		BusinessUnit:         rec.BusinessUnit,
		ProductLines:         rec.ProductLines,
		Keywords:             rec.Keywords,
		EligibleParticipants: rec.EligibleParticipants,
		Tags:                 cls.Tags,
	}
}
