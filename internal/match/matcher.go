package match

import (
	"strings"

	"label-matcher/internal/parser"
)

// Thresholds holds the minimum containment score per carrier required to
// accept a match. The values differ because carriers differ in label layout
// and typical OCR quality; they are tuned defaults, not derived constants.
type Thresholds struct {
	FedEx float64
	UPS   float64
	USPS  float64
}

// For returns the threshold for a carrier. USPS is the conservative default
// for anything undetected or ambiguous.
func (t Thresholds) For(carrier parser.Carrier) float64 {
	switch carrier {
	case parser.CarrierFedEx:
		return t.FedEx
	case parser.CarrierUPS:
		return t.UPS
	default:
		return t.USPS
	}
}

// Config controls a Matcher.
type Config struct {
	Thresholds Thresholds
	// Workers bounds page-level parallelism in ProcessPages. Values below 1
	// run pages sequentially.
	Workers int
}

// DefaultConfig returns the production matching configuration.
func DefaultConfig() Config {
	return Config{
		Thresholds: Thresholds{FedEx: 0.25, UPS: 0.28, USPS: 0.30},
		Workers:    4,
	}
}

// minOCRLength is the shortest trimmed OCR text worth matching against.
const minOCRLength = 10

// Matcher assigns label pages to candidate orders by containment scoring.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	cfg       Config
	extractor *parser.Extractor
}

// New creates a Matcher.
func New(cfg Config) *Matcher {
	return &Matcher{
		cfg:       cfg,
		extractor: parser.NewExtractor(),
	}
}

// FindBestMatch scores every candidate's address against the raw OCR text
// and returns the id and score of the best one, provided the score clears
// the detected carrier's threshold. All degenerate inputs are graceful
// no-matches: a nil id with a zero score. The score is deliberately
// discarded on rejection so callers never see a misleading low confidence
// for a non-match.
func (m *Matcher) FindBestMatch(ocrText string, candidates []Candidate) (*int64, float64) {
	if len(candidates) == 0 {
		return nil, 0.0
	}
	if len(strings.TrimSpace(ocrText)) < minOCRLength {
		return nil, 0.0
	}

	carrier := parser.DetectCarrier(ocrText)
	normalized := NormalizeText(ocrText)

	var bestID *int64
	bestScore := 0.0

	for _, candidate := range candidates {
		if candidate.ShipTo == "" {
			continue
		}

		// Strictly-greater comparison: earlier candidates win ties.
		if score := AddressInOCR(candidate.ShipTo, normalized); score > bestScore {
			bestScore = score
			id := candidate.ID
			bestID = &id
		}
	}

	if bestID == nil || bestScore < m.cfg.Thresholds.For(carrier) {
		return nil, 0.0
	}
	return bestID, bestScore
}

// MatchPage runs extraction and matching for a single page. The extracted
// address is display text only; matching always uses the full raw OCR text
// because the extraction cascade is lossy and carrier-specific while
// containment scoring tolerates surrounding noise.
func (m *Matcher) MatchPage(page OCRPage, candidates []Candidate) MatchResult {
	extraction := m.extractor.Extract(page.RawText)
	orderID, score := m.FindBestMatch(page.RawText, candidates)

	return MatchResult{
		PageNumber:      page.PageNumber,
		ShippingAddress: extraction.Address,
		OrderID:         orderID,
		Confidence:      score,
		Matched:         orderID != nil,
		LabelType:       extraction.Carrier,
	}
}
