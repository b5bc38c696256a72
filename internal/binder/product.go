package binder

import (
	"sort"

	"go.uber.org/zap"

	"github.com/indexedakki/vectors-medtech/internal/record"
)

// BuildProduct resolves product-agreement binders. A product document is a
// parent candidate when it carries an end date or its title says
// "add prod agree"; everything else is a candidate child. Children are
// discovered by following record-number references in the related-records
// text across arbitrary prefixes. Parents claim children in sorted article
// order; a child claimed by an earlier binder is excluded from later ones.
//
// The full record set is taken as the reference index, because a product
// amendment may reference documents outside the product stream.
func (b *Builder) BuildProduct(records []record.Record) []Binder {
	index := make(map[string]record.Record, len(records))
	for _, rec := range records {
		index[rec.ArticleNo] = rec
	}

	var productArts []string
	parents := make(map[string]record.Record)
	children := make(map[string]record.Record)
	for _, rec := range records {
		if !rec.IsProduct() {
			continue
		}
		if _, err := rec.Article(); err != nil {
			b.log.Warn("skipping record with bad article number",
				zap.String("content_id", rec.ContentID),
				zap.String("article_no", rec.ArticleNo),
				zap.Error(err))
			continue
		}
		productArts = append(productArts, rec.ArticleNo)
		if rec.EndDate != "" || hasProdPhrase(rec.Title) {
			parents[rec.ArticleNo] = rec
		} else {
			children[rec.ArticleNo] = rec
		}
	}
	sort.Strings(productArts)

	claimed := make(map[string]bool)
	var binders []Binder

	// Pass 1: binders rooted at clear parent candidates, claiming their
	// reachable children first-come.
	for _, art := range productArts {
		parent, ok := parents[art]
		if !ok {
			continue
		}
		accept := func(artNo string) bool {
			if artNo == parent.ArticleNo || claimed[artNo] {
				return false
			}
			_, isParent := parents[artNo]
			return !isParent
		}
		kids := reach(parent, index, accept)
		for _, kid := range kids {
			claimed[kid.ArticleNo] = true
		}

		art2, _ := parent.Article()
		p := parent
		binders = append(binders, b.assemble(parent.ContractType, art2.Root(), &p, kids))
	}

	// Pass 2: single-reference clusters among the remaining children, where
	// no end-dated parent exists and the parent must be inferred.
	for _, art := range productArts {
		child, ok := children[art]
		if !ok || claimed[art] {
			continue
		}
		if len(record.Tokens(child.RelatedRecords)) != 1 {
			continue
		}

		accept := func(artNo string) bool {
			if claimed[artNo] {
				return false
			}
			_, isParent := parents[artNo]
			return !isParent
		}
		cluster := append([]record.Record{child}, reach(child, index, accept)...)

		parent, ok := pickParent(cluster)
		var parentPtr *record.Record
		var kids []record.Record
		if ok {
			parentPtr = &parent
			for _, member := range cluster {
				if member.ArticleNo != parent.ArticleNo {
					kids = append(kids, member)
				}
			}
		} else {
			kids = cluster
		}
		for _, member := range cluster {
			claimed[member.ArticleNo] = true
		}

		art2, _ := child.Article()
		binders = append(binders, b.assemble(child.ContractType, art2.Root(), parentPtr, kids))
	}

	return binders
}

// pickParent disambiguates the parent among cluster members: a lone
// "add prod agree" title wins outright; among several such titles the
// lowest numeric suffix wins; with none, the lowest suffix overall wins.
func pickParent(cluster []record.Record) (record.Record, bool) {
	if len(cluster) == 0 {
		return record.Record{}, false
	}

	var tagged []record.Record
	for _, rec := range cluster {
		if hasProdPhrase(rec.Title) {
			tagged = append(tagged, rec)
		}
	}
	if len(tagged) == 1 {
		return tagged[0], true
	}

	candidates := cluster
	if len(tagged) > 1 {
		candidates = tagged
	}

	best := candidates[0]
	bestSuffix := suffixOf(best)
	for _, rec := range candidates[1:] {
		if s := suffixOf(rec); s < bestSuffix {
			best, bestSuffix = rec, s
		}
	}
	if bestSuffix <= 0 {
		return record.Record{}, false
	}
	return best, true
}

func suffixOf(rec record.Record) int {
	art, err := rec.Article()
	if err != nil {
		return 0
	}
	return art.SuffixInt()
}
