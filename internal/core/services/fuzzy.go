package services

import (
	"unicode"
)

// Scoring constants for fuzzy alignment.
const (
	scoreMatch       = 16
	bonusBoundary    = 10
	bonusCamel       = 7
	bonusConsecutive = 6
	penaltyGapStart  = 3
	penaltyGapExtend = 1

	// alignmentScale keeps position and length strictly below one
	// alignment point, so they only ever break ties.
	alignmentScale     = 1000
	positionWeight     = 4
	maxPositionPenalty = 100
	maxLengthPenalty   = 1000
	lengthDivisor      = 10
)

const negInf = -1 << 30

type charClass int

const (
	classWhite charClass = iota
	classDelim
	classLower
	classUpper
	classDigit
	classLetter
)

func classOf(r rune) charClass {
	switch {
	case unicode.IsSpace(r):
		return classWhite
	case unicode.IsLower(r):
		return classLower
	case unicode.IsUpper(r):
		return classUpper
	case unicode.IsDigit(r):
		return classDigit
	case unicode.IsLetter(r):
		return classLetter
	default:
		return classDelim
	}
}

// boundaryBonus rewards a match at the start of a word.
func boundaryBonus(prev, cur charClass) int {
	if cur == classWhite || cur == classDelim {
		return 0
	}
	switch {
	case prev == classWhite || prev == classDelim:
		return bonusBoundary
	case prev == classLower && cur == classUpper:
		return bonusCamel
	case prev != classDigit && cur == classDigit:
		return bonusCamel
	}
	return 0
}

// isSubsequence reports whether every rune of pattern occurs in text in order.
func isSubsequence(pattern, text []rune) bool {
	i := 0
	for _, r := range text {
		if i == len(pattern) {
			break
		}
		if r == pattern[i] {
			i++
		}
	}
	return i == len(pattern)
}

// fuzzyScore aligns the case-folded pattern against text and returns the
// best score with the matched rune positions. folded must be the
// case-folded runes of text.
func fuzzyScore(pattern []rune, text string, folded []rune) (int, []int, bool) {
	m, n := len(pattern), len(folded)
	if m == 0 || m > n || !isSubsequence(pattern, folded) {
		return 0, nil, false
	}

	bonus := make([]int, n)
	prev := classWhite
	for j, r := range []rune(text) {
		if j >= n {
			break
		}
		cur := classOf(r)
		bonus[j] = boundaryBonus(prev, cur)
		prev = cur
	}

	score := make([]int, m*n)
	chunk := make([]int, m*n)
	from := make([]int, m*n)

	for j := 0; j < n; j++ {
		if folded[j] == pattern[0] {
			score[j] = scoreMatch + 2*bonus[j]
			chunk[j] = bonus[j]
		} else {
			score[j] = negInf
		}
		from[j] = -1
	}

	for i := 1; i < m; i++ {
		row, up := i*n, (i-1)*n
		gapBest, gapFrom := negInf, -1

		for j := 0; j < n; j++ {
			// gapBest holds the best predecessor k <= j-2, net of the
			// penalty for skipping j-k-1 runes.
			if j >= 2 {
				if gapBest != negInf {
					gapBest -= penaltyGapExtend
				}
				if k := j - 2; score[up+k] != negInf {
					if cand := score[up+k] - penaltyGapStart; cand > gapBest {
						gapBest, gapFrom = cand, k
					}
				}
			}

			score[row+j] = negInf
			from[row+j] = -1
			if folded[j] != pattern[i] {
				continue
			}

			best, src, carry := negInf, -1, bonus[j]
			if gapBest != negInf {
				best, src = gapBest+scoreMatch+bonus[j], gapFrom
			}
			if j >= 1 && score[up+j-1] != negInf {
				cb := max(bonusConsecutive, chunk[up+j-1], bonus[j])
				if s := score[up+j-1] + scoreMatch + cb; s >= best {
					best, src, carry = s, j-1, cb
				}
			}
			if best == negInf {
				continue
			}
			score[row+j] = best
			from[row+j] = src
			chunk[row+j] = carry
		}
	}

	last := (m - 1) * n
	end, align := -1, negInf
	for j := 0; j < n; j++ {
		if score[last+j] > align {
			align, end = score[last+j], j
		}
	}
	if end < 0 {
		return 0, nil, false
	}

	positions := make([]int, m)
	for i, j := m-1, end; i >= 0; i-- {
		positions[i] = j
		j = from[i*n+j]
	}

	total := align*alignmentScale -
		positionWeight*min(positions[0], maxPositionPenalty) -
		min(n, maxLengthPenalty)/lengthDivisor
	return total, positions, true
}

// matchString scores text against an unfolded query.
func matchString(query, text string) (int, []int, bool) {
	return fuzzyScore(foldRunes(query), text, foldRunes(text))
}
