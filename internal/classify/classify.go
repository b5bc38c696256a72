// Package classify assigns each normalized record its document kind and,
// for amendments, the tag set derived from the title.
package classify

import (
	"strings"

	"github.com/indexedakki/vectors-medtech/internal/record"
)

// Kind is the document kind of a classified record.
type Kind string

const (
	KindMasterAgreement  Kind = "master_agreement"
	KindProductAgreement Kind = "product_agreement"
	KindAmendment        Kind = "amendment"
)

// Tag marks what an amendment does to its governing agreement. A title may
// carry several tags; presence is an independent substring match.
type Tag string

const (
	TagExt          Tag = "ext"
	TagRepl         Tag = "repl"
	TagAdd          Tag = "add"
	TagDel          Tag = "del"
	TagAddProdAgree Tag = "add_prod_agree"
	TagNotice       Tag = "notice"
	TagChg          Tag = "chg"
	TagAddress      Tag = "address"
)

const addProdAgree = "add prod agree"

// tagKeywords maps title keywords to tags, scanned in this order.
var tagKeywords = []struct {
	keyword string
	tag     Tag
}{
	{"ext", TagExt},
	{"repl", TagRepl},
	{"add", TagAdd},
	{"del", TagDel},
	{addProdAgree, TagAddProdAgree},
	{"notice", TagNotice},
	{"chg", TagChg},
	{"address", TagAddress},
}

// Classification is the outcome for one record.
type Classification struct {
	Kind Kind
	Tags []Tag
}

// Classify applies the ordered classification rules:
//
//  1. A .001 article number is a master agreement on the commercial stream,
//     or a product agreement on the PA stream when the title says
//     "add prod agree".
//  2. Any other title containing "add prod agree" is a product agreement.
//  3. Everything else is an amendment, tagged from its title keywords.
//
// A record with an unparseable article number is rejected with the parse
// error; the caller logs and skips it.
func Classify(rec record.Record) (Classification, error) {
	art, err := rec.Article()
	if err != nil {
		return Classification{}, err
	}

	title := strings.ToLower(rec.Title)
	hasProdPhrase := strings.Contains(title, addProdAgree)

	if art.IsRoot() {
		if rec.IsCommercial() {
			return Classification{Kind: KindMasterAgreement}, nil
		}
		if rec.IsProduct() && hasProdPhrase {
			return Classification{Kind: KindProductAgreement}, nil
		}
	}

	if hasProdPhrase {
		return Classification{Kind: KindProductAgreement}, nil
	}

	return Classification{Kind: KindAmendment, Tags: TagsFromTitle(rec.Title)}, nil
}

// TagsFromTitle scans the lower-cased title for each tag keyword. Matches
// are independent: "address" carries both "add" and "address".
func TagsFromTitle(title string) []Tag {
	lower := strings.ToLower(title)
	var tags []Tag
	for _, kw := range tagKeywords {
		if strings.Contains(lower, kw.keyword) {
			tags = append(tags, kw.tag)
		}
	}
	return tags
}

// HasTag reports whether tags contains tag.
func HasTag(tags []Tag, tag Tag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
