package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractShippingAddress_USPS(t *testing.T) {
	extractor := NewExtractor()

	text := "SHIP TO:\nJANE DOE\n456 OAK AVE\nDALLAS TX 75201\nUSPS TRACKING# 9400 1234 5678 9012 3456 78\n"
	address := extractor.ExtractShippingAddress(text)

	assert.Equal(t, "JANE DOE 456 OAK AVE DALLAS TX 75201", address)
}

func TestExtractShippingAddress_UPS(t *testing.T) {
	extractor := NewExtractor()

	text := "SHIP TO:\nJOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701\nUPS GROUND\nTRACKING #: 1Z999AA10123456784"
	address := extractor.ExtractShippingAddress(text)

	assert.Equal(t, "JOHN SMITH 123 MAIN ST AUSTIN TX 78701", address)
}

func TestExtractShippingAddress_FedEx(t *testing.T) {
	extractor := NewExtractor()

	text := "FEDEX\nTO JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701\nREF 998\nTRACKING 1234"
	address := extractor.ExtractShippingAddress(text)

	assert.Equal(t, "JOHN SMITH 123 MAIN ST AUSTIN TX 78701", address)
}

func TestExtractShippingAddress_LineScanFallback(t *testing.T) {
	extractor := NewExtractor()

	// No cascade rule matches; boilerplate lines are dropped and the
	// remaining plausible lines are kept.
	text := "FEDEX GROUND\nACME WIDGETS\nSUITE 4"
	address := extractor.ExtractShippingAddress(text)

	assert.Equal(t, "ACME WIDGETS\nSUITE 4", address)
}

func TestExtractShippingAddress_NoAddress(t *testing.T) {
	extractor := NewExtractor()

	tests := []struct {
		name string
		text string
	}{
		{name: "empty text", text: ""},
		{name: "whitespace only", text: "   \n\t\n  "},
		{name: "too short extraction", text: "SHIP TO: AL\nUSPS"},
		{name: "numbers only", text: "123\n456\n789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "", extractor.ExtractShippingAddress(tt.text))
		})
	}
}

func TestExtractShippingAddress_NeverPanics(t *testing.T) {
	extractor := NewExtractor()

	inputs := []string{
		"",
		"\x00\x01\x02",
		"日本語のテキスト\nラベル\n住所なし",
		strings.Repeat("A1 ", 50000),
		strings.Repeat("GARBLED OCR LINE WITH NOISE 12345\n", 2000),
	}

	for _, input := range inputs {
		assert.NotPanics(t, func() {
			_ = extractor.ExtractShippingAddress(input)
		})
	}
}

func TestExtract_CarriesCarrierAndRawText(t *testing.T) {
	extractor := NewExtractor()

	text := "FEDEX\nTO JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701\nREF 998"
	result := extractor.Extract(text)

	assert.Equal(t, CarrierFedEx, result.Carrier)
	assert.Equal(t, text, result.RawText)
	assert.Equal(t, "JOHN SMITH 123 MAIN ST AUSTIN TX 78701", result.Address)
}

func TestCleanAddress_FedExArtifacts(t *testing.T) {
	cleaned := cleanAddress("JOHN SMITH 123 MAIN ST REF 998 DEPT 4", CarrierFedEx)
	assert.Equal(t, "JOHN SMITH 123 MAIN ST", cleaned)
}

func TestCleanAddress_UPSArtifacts(t *testing.T) {
	cleaned := cleanAddress("JOHN SMITH 123 MAIN ST UPS GROUND SECTION", CarrierUPS)
	assert.Equal(t, "JOHN SMITH 123 MAIN ST", cleaned)
}

func TestCleanAddress_CollapsesWhitespace(t *testing.T) {
	cleaned := cleanAddress("JANE  DOE\n\n456   OAK AVE\nDALLAS TX 75201", CarrierUSPS)
	assert.Equal(t, "JANE DOE 456 OAK AVE DALLAS TX 75201", cleaned)
}
