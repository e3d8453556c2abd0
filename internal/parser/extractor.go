package parser

import (
	"regexp"
	"strings"
)

// Extractor recovers a shipping-address text block from raw OCR text using
// the carrier-aware pattern cascades. Extraction is best-effort: malformed
// or empty input degrades to an empty result, never an error.
type Extractor struct {
	patterns *PatternSet
}

// ExtractionResult carries the outcome of a single-page extraction.
type ExtractionResult struct {
	Carrier Carrier
	Address string
	RawText string
}

// NewExtractor creates an extractor with the compiled pattern cascades.
func NewExtractor() *Extractor {
	return &Extractor{patterns: NewPatternSet()}
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	blankLineRun  = regexp.MustCompile(`\n\s*\n`)

	// Trailing label artifacts stripped from a matched block, per carrier.
	fedexArtifacts = regexp.MustCompile(`(?im)(REF|DEPT|PO|TRACKING).*`)
	upsArtifacts   = regexp.MustCompile(`(?im)(UPS GROUND|UPS EXPRESS|TRACKING #|CA \d{3}|1Z).*`)

	hasLetter = regexp.MustCompile(`[A-Za-z]`)
)

// skipTerms marks boilerplate lines ignored by the line-scan fallback.
var skipTerms = []string{
	"USPS", "PRIORITY", "MAIL", "TRACKING", "ATFM", "POSTAGE",
	"FEDEX", "EXPRESS", "REF", "DEPT", "SHIP DATE", "ACT", "CAD",
	"BILL SENDER", "TRK#",
	"UPS", "UPS GROUND", "UPS EXPRESS", "TRACKING #", "1Z Y00", "1Z",
}

// Extract detects the carrier and runs the extraction cascade, returning the
// carrier, the extracted address block (possibly empty), and the raw text.
func (e *Extractor) Extract(text string) ExtractionResult {
	carrier := DetectCarrier(text)
	return ExtractionResult{
		Carrier: carrier,
		Address: e.extractForCarrier(text, carrier),
		RawText: text,
	}
}

// ExtractShippingAddress returns the extracted address block for raw OCR
// text, or the empty string when no rule produces a confident extraction.
func (e *Extractor) ExtractShippingAddress(text string) string {
	return e.extractForCarrier(text, DetectCarrier(text))
}

func (e *Extractor) extractForCarrier(text string, carrier Carrier) string {
	for _, entry := range e.patterns.ForCarrier(carrier) {
		match := entry.Regex.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		address := cleanAddress(strings.TrimSpace(match[1]), carrier)

		// Must have reasonable length, and either span multiple lines or
		// be long enough to carry a full single-line address.
		if len(address) > 10 && (strings.Contains(address, "\n") || len(address) > 30) {
			return address
		}
	}

	return fallbackLineScan(text)
}

// cleanAddress collapses whitespace runs and blank-line runs, then strips
// carrier-specific trailing artifacts.
func cleanAddress(address string, carrier Carrier) string {
	address = whitespaceRun.ReplaceAllString(address, " ")
	address = blankLineRun.ReplaceAllString(address, "\n")

	switch carrier {
	case CarrierFedEx:
		address = fedexArtifacts.ReplaceAllString(address, "")
	case CarrierUPS:
		address = upsArtifacts.ReplaceAllString(address, "")
	}

	return strings.TrimSpace(address)
}

// fallbackLineScan is the last-resort heuristic when no cascade rule
// matches: drop boilerplate lines and keep anything that could plausibly be
// an address component. Recall over precision; the result is display text,
// not matching input.
func fallbackLineScan(text string) string {
	var addressLines []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if containsSkipTerm(line) {
			continue
		}
		if hasLetter.MatchString(line) && len(line) > 3 {
			addressLines = append(addressLines, line)
		}
	}

	if len(addressLines) < 2 {
		return ""
	}
	if len(addressLines) > 4 {
		addressLines = addressLines[:4]
	}
	return strings.Join(addressLines, "\n")
}

func containsSkipTerm(line string) bool {
	upper := strings.ToUpper(line)
	for _, term := range skipTerms {
		if strings.Contains(upper, term) {
			return true
		}
	}
	return false
}
