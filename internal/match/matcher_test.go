package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"label-matcher/internal/parser"
)

func TestThresholds_For(t *testing.T) {
	thresholds := DefaultConfig().Thresholds

	assert.Equal(t, 0.25, thresholds.For(parser.CarrierFedEx))
	assert.Equal(t, 0.28, thresholds.For(parser.CarrierUPS))
	assert.Equal(t, 0.30, thresholds.For(parser.CarrierUSPS))
	assert.Equal(t, 0.30, thresholds.For(parser.Carrier("unknown")))
}

func TestFindBestMatch_NoCandidates(t *testing.T) {
	matcher := New(DefaultConfig())

	id, score := matcher.FindBestMatch("FEDEX\nTO JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701", nil)

	assert.Nil(t, id)
	assert.Equal(t, 0.0, score)
}

func TestFindBestMatch_ShortText(t *testing.T) {
	matcher := New(DefaultConfig())
	candidates := []Candidate{{ID: 1, ShipTo: "JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701"}}

	id, score := matcher.FindBestMatch("short", candidates)

	assert.Nil(t, id)
	assert.Equal(t, 0.0, score)
}

func TestFindBestMatch_FedExLabel(t *testing.T) {
	matcher := New(DefaultConfig())
	candidates := []Candidate{{ID: 1, ShipTo: "JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701"}}

	ocr := "FEDEX\nTO JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701\nREF 998\nTRACKING 1234"
	id, score := matcher.FindBestMatch(ocr, candidates)

	require.NotNil(t, id)
	assert.Equal(t, int64(1), *id)
	assert.InDelta(t, 1.4/3.0, score, 1e-9)
	assert.GreaterOrEqual(t, score, 0.25)
}

func TestFindBestMatch_NoAddressInText(t *testing.T) {
	matcher := New(DefaultConfig())
	candidates := []Candidate{{ID: 1, ShipTo: "JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701"}}

	id, score := matcher.FindBestMatch("UNRELATED LABEL TEXT WITH NO ADDRESS", candidates)

	assert.Nil(t, id)
	assert.Equal(t, 0.0, score)
}

func TestFindBestMatch_TieBreakFirstCandidateWins(t *testing.T) {
	matcher := New(DefaultConfig())
	shipTo := "JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701"
	candidates := []Candidate{
		{ID: 7, ShipTo: shipTo},
		{ID: 9, ShipTo: shipTo},
	}

	ocr := "FEDEX\nTO JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701\nREF 998"
	id, _ := matcher.FindBestMatch(ocr, candidates)

	require.NotNil(t, id)
	assert.Equal(t, int64(7), *id)
}

func TestFindBestMatch_SkipsCandidatesWithoutAddress(t *testing.T) {
	matcher := New(DefaultConfig())
	candidates := []Candidate{
		{ID: 1, ShipTo: ""},
		{ID: 2, ShipTo: "JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701"},
	}

	ocr := "FEDEX\nTO JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701\nREF 998"
	id, _ := matcher.FindBestMatch(ocr, candidates)

	require.NotNil(t, id)
	assert.Equal(t, int64(2), *id)
}

func TestFindBestMatch_BelowThresholdDiscardsScore(t *testing.T) {
	matcher := New(DefaultConfig())
	candidates := []Candidate{{ID: 1, ShipTo: "JANE DOE\n456 OAK AVE\nDALLAS TX 75201"}}

	// Only the name line is present: 0.6/3 = 0.2, below the 0.30 USPS
	// default threshold. The sub-threshold score must not leak out.
	id, score := matcher.FindBestMatch("JANE DOE MENTIONED SOMEWHERE HERE TODAY", candidates)

	assert.Nil(t, id)
	assert.Equal(t, 0.0, score)
}

func TestFindBestMatch_TwoLineAddressClearsFedExThreshold(t *testing.T) {
	matcher := New(DefaultConfig())
	candidates := []Candidate{{ID: 3, ShipTo: "JOHN SMITH\n123 MAIN ST"}}

	ocr := "FEDEX GROUND\nJOHN SMITH\n123 MAIN ST\nREF 45\nTRACKING 555"
	id, score := matcher.FindBestMatch(ocr, candidates)

	// Full containment of a 2-line ship-to scores (0.6 + 0.4) / 2.
	require.NotNil(t, id)
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestFindBestMatch_CarrierSpecificThresholds(t *testing.T) {
	cfg := DefaultConfig()
	matcher := New(cfg)

	// A score of 0.6/2 = 0.3 for a two-line address with only the name
	// found: accepted for USPS at exactly the threshold, and for FedEx.
	candidates := []Candidate{{ID: 1, ShipTo: "JANE DOE\n456 OAK AVE"}}

	uspsID, uspsScore := matcher.FindBestMatch("USPS PRIORITY MAIL\nJANE DOE\nNO STREET VISIBLE", candidates)
	require.NotNil(t, uspsID)
	assert.InDelta(t, 0.3, uspsScore, 1e-9)
}

func TestFindBestMatch_CustomThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds = Thresholds{FedEx: 0.99, UPS: 0.99, USPS: 0.99}
	matcher := New(cfg)

	candidates := []Candidate{{ID: 1, ShipTo: "JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701"}}
	ocr := "FEDEX\nTO JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701\nREF 998"

	id, score := matcher.FindBestMatch(ocr, candidates)

	assert.Nil(t, id)
	assert.Equal(t, 0.0, score)
}

func TestMatchPage(t *testing.T) {
	matcher := New(DefaultConfig())
	candidates := []Candidate{{ID: 1, ShipTo: "JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701"}}

	page := OCRPage{
		PageNumber: 3,
		RawText:    "FEDEX\nTO JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701\nREF 998\nTRACKING 1234",
	}

	result := matcher.MatchPage(page, candidates)

	assert.Equal(t, 3, result.PageNumber)
	assert.Equal(t, parser.CarrierFedEx, result.LabelType)
	assert.True(t, result.Matched)
	require.NotNil(t, result.OrderID)
	assert.Equal(t, int64(1), *result.OrderID)
	assert.Equal(t, "JOHN SMITH 123 MAIN ST AUSTIN TX 78701", result.ShippingAddress)
	assert.InDelta(t, 1.4/3.0, result.Confidence, 1e-9)
}

func TestMatchPage_Unmatched(t *testing.T) {
	matcher := New(DefaultConfig())
	candidates := []Candidate{{ID: 1, ShipTo: "JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701"}}

	page := OCRPage{PageNumber: 1, RawText: "UNRELATED LABEL TEXT WITH NO ADDRESS"}
	result := matcher.MatchPage(page, candidates)

	assert.False(t, result.Matched)
	assert.Nil(t, result.OrderID)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Equal(t, parser.CarrierUSPS, result.LabelType)
}
