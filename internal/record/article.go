package record

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrBadArticleNumber marks a record whose article number cannot be split
// into a root prefix and a numeric suffix.
var ErrBadArticleNumber = errors.New("malformed article number")

// TokenPattern matches record-number-shaped tokens embedded in free text,
// e.g. "001018471~00073572.003" or "001018471~00073572".
var TokenPattern = regexp.MustCompile(`\d{9}~\d{8}(?:\.\d{3})?`)

// ArticleNumber is the composite external identifier
// "<ucn>~<policy>.<suffix>". The ".001" suffix denotes the root document of
// a contract family.
type ArticleNumber struct {
	UCN    string
	Policy string
	Suffix string
}

// ParseArticleNumber splits an article number into its parts. The suffix
// separator is the last ".". A missing separator is a parse error; the
// "~" between UCN and policy is tolerated missing (UCN ends up empty).
func ParseArticleNumber(s string) (ArticleNumber, error) {
	s = strings.TrimSpace(s)
	dot := strings.LastIndex(s, ".")
	if dot < 0 {
		return ArticleNumber{}, fmt.Errorf("%w: %q", ErrBadArticleNumber, s)
	}
	root, suffix := s[:dot], s[dot+1:]
	if root == "" || suffix == "" {
		return ArticleNumber{}, fmt.Errorf("%w: %q", ErrBadArticleNumber, s)
	}
	if _, err := strconv.Atoi(suffix); err != nil {
		return ArticleNumber{}, fmt.Errorf("%w: non-numeric suffix in %q", ErrBadArticleNumber, s)
	}

	a := ArticleNumber{Suffix: suffix}
	if tilde := strings.Index(root, "~"); tilde >= 0 {
		a.UCN = root[:tilde]
		a.Policy = root[tilde+1:]
	} else {
		a.Policy = root
	}
	return a, nil
}

// Root returns the article prefix before the suffix separator, the key that
// groups the documents of one contract family.
func (a ArticleNumber) Root() string {
	if a.UCN == "" {
		return a.Policy
	}
	return a.UCN + "~" + a.Policy
}

// String reassembles the full article number.
func (a ArticleNumber) String() string {
	return a.Root() + "." + a.Suffix
}

// SuffixInt returns the numeric suffix value. Suffix 1 marks the root
// document of a family.
func (a ArticleNumber) SuffixInt() int {
	n, _ := strconv.Atoi(a.Suffix)
	return n
}

// IsRoot reports whether this article number denotes the family's root
// document. Only the exact suffix "001" qualifies; "Amendment .1" style
// suffixes never do, whatever their numeric value.
func (a ArticleNumber) IsRoot() bool {
	return a.Suffix == "001"
}

// Tokens extracts every record-number-shaped token from free text, such as
// the "related records" field of an export row. Order of appearance is
// preserved; duplicates are kept (callers dedupe while traversing).
func Tokens(text string) []string {
	if text == "" {
		return nil
	}
	return TokenPattern.FindAllString(text, -1)
}
