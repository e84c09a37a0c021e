// Package similarity scores how alike two normalized strings are using
// Ratcliff-Obershelp (gestalt) pattern matching: repeatedly find the longest
// contiguous matching block, then match the pieces before and after it.
// The measure favors long shared runs over scattered character overlap,
// which fits clinical column naming ("blood glucose level" vs "blood glucose").
package similarity

// Ratio returns 2*M/(len(a)+len(b)) where M is the total length of all
// matching blocks. The result is symmetric and bounded to [0.0, 1.0].
// Two empty strings are identical (1.0); one empty string matches nothing (0.0).
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}
	// Canonical operand order keeps the score symmetric. The greedy block
	// decomposition can pick different blocks for (a,b) and (b,a) when no
	// longest block is unique; 2M/(la+lb) itself is order-free.
	if len(ra) > len(rb) || (len(ra) == len(rb) && a > b) {
		ra, rb = rb, ra
	}
	m := matchedLen(ra, rb)
	return 2.0 * float64(m) / float64(len(ra)+len(rb))
}

type span struct {
	aLo, aHi, bLo, bHi int
}

// matchedLen sums the lengths of all matching blocks. The recursive
// definition (match the longest block, then recurse on both sides) is
// driven by an explicit work list so pathologically long inputs cannot
// exhaust the stack; the total is identical either way.
func matchedLen(a, b []rune) int {
	total := 0
	work := []span{{0, len(a), 0, len(b)}}
	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]
		i, j, k := longestMatch(a, b, s.aLo, s.aHi, s.bLo, s.bHi)
		if k == 0 {
			continue
		}
		total += k
		work = append(work,
			span{s.aLo, i, s.bLo, j},
			span{i + k, s.aHi, j + k, s.bHi},
		)
	}
	return total
}

// longestMatch finds the longest contiguous block shared by a[aLo:aHi] and
// b[bLo:bHi]. Ties resolve to the earliest block in a, then the earliest
// in b, matching the behavior of the Ratcliff-Obershelp reference
// implementation so scores stay reproducible.
func longestMatch(a, b []rune, aLo, aHi, bLo, bHi int) (bestI, bestJ, bestK int) {
	b2j := make(map[rune][]int, bHi-bLo)
	for j := bLo; j < bHi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}
	bestI, bestJ = aLo, bLo
	// j2len[j] is the length of the match ending at a[i-1], b[j].
	j2len := map[int]int{}
	for i := aLo; i < aHi; i++ {
		next := map[int]int{}
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestK {
				bestI, bestJ, bestK = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return bestI, bestJ, bestK
}
