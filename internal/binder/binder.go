// Package binder groups classified documents into binders: one parent
// document plus the children that together make up a contract family.
// Commercial families nest by article-number prefix; product-agreement
// families are stitched together by following record-number references in
// free-text "related records" fields.
package binder

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/indexedakki/vectors-medtech/internal/customer"
	"github.com/indexedakki/vectors-medtech/internal/record"
)

// Binder status values.
const (
	StatusResolved   = 1
	StatusUnresolved = 0
)

// CommentNoParent is the audit comment attached to unresolved binders.
const CommentNoParent = "Unable to find the Parent/Master Contract"

const addProdAgreeUpper = "ADD PROD AGREE"

// Binder is one resolved contract family. It is a transient reconciliation
// structure, rebuilt fully on every run and persisted only for audit.
type Binder struct {
	ParentUCN       string
	UCN             string
	ContractType    string
	PolicyNumber    string
	TrimNumber      string
	BinderID        string
	ParentContentID string
	ParentRecordNo  string
	ChildContentIDs []string
	ChildRecordNos  []string
	Status          int
	Comment         string
}

// Builder resolves binders against the customer directory.
type Builder struct {
	dir *customer.Directory
	log *zap.Logger
}

// NewBuilder creates a binder builder.
func NewBuilder(dir *customer.Directory, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{dir: dir, log: log}
}

// Build resolves all binders: the commercial stream first, then the
// product-agreement stream.
func (b *Builder) Build(records []record.Record) []Binder {
	out := b.BuildCommercial(records)
	return append(out, b.BuildProduct(records)...)
}

// BuildCommercial groups commercial documents by contract type and root
// article prefix. Within a family the .001 document is the parent and all
// others are children; a family without a .001 document is kept with
// status 0 for audit.
func (b *Builder) BuildCommercial(records []record.Record) []Binder {
	type group struct {
		parent   *record.Record
		children []record.Record
	}
	type groupKey struct {
		contractType string
		prefix       string
	}

	groups := make(map[groupKey]*group)
	var keys []groupKey

	for _, rec := range records {
		if !rec.IsCommercial() {
			continue
		}
		art, err := rec.Article()
		if err != nil {
			b.log.Warn("skipping record with bad article number",
				zap.String("content_id", rec.ContentID),
				zap.String("article_no", rec.ArticleNo),
				zap.Error(err))
			continue
		}
		key := groupKey{contractType: rec.ContractType, prefix: art.Root()}
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			keys = append(keys, key)
		}
		if art.IsRoot() {
			r := rec
			g.parent = &r
		} else {
			g.children = append(g.children, rec)
		}
	}

	// Fixed tie-break order so repeated runs over the same unordered input
	// produce identical binders.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].contractType != keys[j].contractType {
			return keys[i].contractType < keys[j].contractType
		}
		return keys[i].prefix < keys[j].prefix
	})

	var binders []Binder
	for _, key := range keys {
		g := groups[key]
		binders = append(binders, b.assemble(key.contractType, key.prefix, g.parent, g.children))
	}
	return binders
}

// assemble builds one binder from a resolved parent and children, including
// UCN attribution back to the parent customer.
func (b *Builder) assemble(contractType, prefix string, parent *record.Record, children []record.Record) Binder {
	bn := Binder{
		ContractType: contractType,
		TrimNumber:   prefix,
		BinderID:     binderIdentifier(prefix),
		Status:       StatusResolved,
	}

	var anchor *record.Record
	if parent != nil {
		anchor = parent
		bn.ParentContentID = parent.ContentID
		bn.ParentRecordNo = parent.ArticleNo
	} else if len(children) > 0 {
		anchor = &children[0]
	}
	if anchor != nil {
		bn.UCN = anchor.UCN
		bn.PolicyNumber = anchor.PolicyNumber
	}

	for _, child := range children {
		bn.ChildContentIDs = append(bn.ChildContentIDs, child.ContentID)
		bn.ChildRecordNos = append(bn.ChildRecordNos, child.ArticleNo)
	}

	if bn.ParentContentID == "" {
		bn.Status = StatusUnresolved
		bn.Comment = CommentNoParent
		b.log.Info("binder left unresolved",
			zap.String("trim_number", bn.TrimNumber),
			zap.String("contract_type", contractType),
			zap.String("reason", CommentNoParent))
	}

	bn.ParentUCN = b.attributeParentUCN(bn.UCN, parent)
	return bn
}

// attributeParentUCN resolves the binder's UCN back to a parent UCN using
// the customer directory. Parent and unknown UCNs keep their own value;
// ambiguous multi-parent matches fall back to the first explosion row and
// are logged.
func (b *Builder) attributeParentUCN(ucn string, parent *record.Record) string {
	if ucn == "" || b.dir == nil {
		return ucn
	}
	var customerName string
	if parent != nil {
		customerName = parent.CustomerName
	}
	resolved, ambiguous := b.dir.ParentOf(ucn, customerName)
	if ambiguous {
		b.log.Warn("ambiguous parent UCN match, using first candidate",
			zap.String("ucn", ucn),
			zap.String("customer_name", customerName),
			zap.String("parent_ucn", resolved))
	}
	if resolved == "" {
		return ucn
	}
	return resolved
}

func binderIdentifier(prefix string) string {
	if i := strings.Index(prefix, "~"); i >= 0 {
		return prefix[i+1:]
	}
	return prefix
}

func hasProdPhrase(title string) bool {
	return strings.Contains(strings.ToUpper(title), addProdAgreeUpper)
}
