// Package similarity provides the pure comparison primitives shared by
// search and graph construction. All functions return a score in or near
// [0,1] and return 0 for degenerate inputs rather than failing.
package similarity

import (
	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/text"
)

// Vector scores two fingerprints with a plain dot product truncated to the
// shorter length, treating missing entries as 0. Callers are responsible
// for ensuring inputs are unit-normalized; this is not a full cosine
// formula and relies on that precondition. Returns 0 for empty inputs.
func Vector(a, b core.Fingerprint) float32 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var sum float32
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Tags scores two tag lists with the Dice coefficient:
// 2*|intersection| / (|A|+|B|). Returns 0 if either list is empty.
// Duplicate tags within a list are counted once.
func Tags(a, b []string) float32 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, tag := range a {
		setA[tag] = true
	}
	setB := make(map[string]bool, len(b))
	for _, tag := range b {
		setB[tag] = true
	}

	var intersection int
	for tag := range setA {
		if setB[tag] {
			intersection++
		}
	}

	return 2 * float32(intersection) / float32(len(setA)+len(setB))
}

// Keywords scores two texts with the Jaccard index over their keyword
// sets (keyword profile: stop words removed). Returns 0 if the union is
// empty.
func Keywords(a, b string) float32 {
	setA := text.KeywordSet(a)
	setB := text.KeywordSet(b)

	union := make(map[string]bool, len(setA)+len(setB))
	var intersection int
	for kw := range setA {
		union[kw] = true
		if setB[kw] {
			intersection++
		}
	}
	for kw := range setB {
		union[kw] = true
	}

	if len(union) == 0 {
		return 0
	}

	return float32(intersection) / float32(len(union))
}
