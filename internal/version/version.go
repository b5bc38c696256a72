// Package version assigns sequence numbers to repeated facts. Clauses and
// metadata facts that recur under the same agreement get increasing
// versions, and only the latest assignment counts as current.
package version

import (
	"fmt"
	"strings"
)

type key struct {
	agreementID string
	name        string
}

// Tracker hands out per-(agreement, name) version numbers. Names are
// compared case-insensitively with surrounding whitespace ignored, so
// "Term and Termination" and "term and termination " share a counter.
type Tracker struct {
	counts map[key]int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{counts: make(map[key]int)}
}

func normalize(agreementID, name string) key {
	return key{
		agreementID: agreementID,
		name:        strings.ToLower(strings.TrimSpace(name)),
	}
}

// Next assigns the next version for the given agreement and name, starting
// at 1.
func (t *Tracker) Next(agreementID, name string) int {
	k := normalize(agreementID, name)
	t.counts[k]++
	return t.counts[k]
}

// Latest returns the highest version assigned so far, or 0 when the name
// was never seen. A version equal to Latest is the current one.
func (t *Tracker) Latest(agreementID, name string) int {
	return t.counts[normalize(agreementID, name)]
}

// Label renders a version number in the three-digit form used in ids,
// e.g. 1 -> "001".
func Label(n int) string {
	return fmt.Sprintf("%03d", n)
}
