package match

import "strings"

// Per-line containment weights. The first line of an address is usually the
// recipient name and is the strongest evidence a label belongs to an order.
const (
	nameLineWeight    = 0.6
	otherLineWeight   = 0.4
	partialLineWeight = 0.3
)

// AddressInOCR scores how much of a known order address appears inside a
// page's OCR text. The OCR text must already be normalized with
// NormalizeText; address lines are normalized here one at a time.
//
// A full-line substring hit scores 0.6 for the first line and 0.4 for any
// other line. A line not found verbatim earns partial credit proportional to
// how many of its words (length > 2) appear anywhere in the OCR text, scaled
// by 0.3. The sum is divided by the total number of non-empty address lines,
// so missing lines drag the score down. The result is always in [0,1]; an
// address with no usable lines scores 0.
func AddressInOCR(knownAddress, normalizedOCR string) float64 {
	if knownAddress == "" {
		return 0.0
	}

	var lines []string
	for _, line := range strings.Split(knownAddress, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return 0.0
	}

	totalScore := 0.0
	componentsFound := 0

	for i, line := range lines {
		normalized := NormalizeText(line)
		if len(normalized) < 3 {
			continue
		}

		if strings.Contains(normalizedOCR, normalized) {
			componentsFound++
			if i == 0 {
				totalScore += nameLineWeight
			} else {
				totalScore += otherLineWeight
			}
			continue
		}

		// Partial credit: count individual words present anywhere in the
		// OCR text.
		var words []string
		for _, word := range strings.Fields(normalized) {
			if len(word) > 2 {
				words = append(words, word)
			}
		}

		wordsFound := 0
		for _, word := range words {
			if strings.Contains(normalizedOCR, word) {
				wordsFound++
			}
		}
		if wordsFound > 0 {
			totalScore += float64(wordsFound) / float64(len(words)) * partialLineWeight
			componentsFound++
		}
	}

	if componentsFound == 0 {
		return 0.0
	}
	return totalScore / float64(len(lines))
}
