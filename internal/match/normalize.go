package match

import (
	"regexp"
	"strings"
)

var (
	nonWordChars  = regexp.MustCompile(`[^\w\s]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	digitToken    = regexp.MustCompile(`\b\d+\b`)
	zipPattern    = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
)

// NormalizeText lowers the text, strips punctuation to spaces, and collapses
// whitespace runs. Both comparison strategies and the matcher share this
// normalization so scores stay comparable.
func NormalizeText(text string) string {
	text = nonWordChars.ReplaceAllString(strings.ToLower(text), " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// firstLine returns the first line of an address, trimmed and lowercased.
// On a label this is typically the recipient name.
func firstLine(address string) string {
	lines := strings.Split(address, "\n")
	return strings.ToLower(strings.TrimSpace(lines[0]))
}

// streetNumbers returns all standalone digit tokens joined by spaces.
func streetNumbers(address string) string {
	return strings.Join(digitToken.FindAllString(address, -1), " ")
}

// zipCode returns the first 5-or-9-digit ZIP found, or the empty string.
func zipCode(address string) string {
	return zipPattern.FindString(address)
}

// sequenceRatio computes the classic matching-blocks similarity ratio
// 2*M/T, where M is the total size of the longest matching blocks found
// recursively and T is the combined length of both strings. Two empty
// strings are identical by convention. difflib's autojunk heuristic
// (discounting popular elements once a sequence reaches 200 characters) is
// omitted: inputs here are short address blocks, and ratios for longer
// texts may diverge from difflib's.
func sequenceRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingSize(ra, rb)) / float64(total)
}

type matchSpan struct {
	alo, ahi, blo, bhi int
}

// matchingSize sums the sizes of all matching blocks between a and b,
// recursing around each longest common block.
func matchingSize(a, b []rune) int {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	queue := []matchSpan{{0, len(a), 0, len(b)}}
	matched := 0

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, size := longestMatch(a, b2j, s)
		if size == 0 {
			continue
		}
		matched += size
		queue = append(queue,
			matchSpan{s.alo, i, s.blo, j},
			matchSpan{i + size, s.ahi, j + size, s.bhi},
		)
	}

	return matched
}

// longestMatch finds the longest block of runes common to a[alo:ahi] and the
// b index within [blo, bhi), preferring the earliest occurrence on ties.
func longestMatch(a []rune, b2j map[rune][]int, s matchSpan) (besti, bestj, bestsize int) {
	besti, bestj = s.alo, s.blo
	j2len := map[int]int{}

	for i := s.alo; i < s.ahi; i++ {
		newJ2len := map[int]int{}
		for _, j := range b2j[a[i]] {
			if j < s.blo {
				continue
			}
			if j >= s.bhi {
				break
			}
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newJ2len
	}

	return besti, bestj, bestsize
}
