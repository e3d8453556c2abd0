package parser

import "strings"

// Carrier identifies which carrier produced a shipping label.
type Carrier string

const (
	CarrierUSPS  Carrier = "usps"
	CarrierFedEx Carrier = "fedex"
	CarrierUPS   Carrier = "ups"
)

// String returns the display form used in API responses and stored results.
func (c Carrier) String() string {
	return strings.ToUpper(string(c))
}

// Indicator phrases per carrier. UPS is checked first: its indicators (the
// tracking-number prefix in particular) are the most specific and would
// otherwise be shadowed by generic terms on mixed labels.
var (
	upsIndicators = []string{
		"UPS GROUND", "UPS EXPRESS", "UPS NEXT DAY", "UPS 2ND DAY",
		"TRACKING #: 1Z",
	}
	fedexIndicators = []string{
		"FEDEX", "FEDEX EXPRESS", "FEDEX GROUND", "SS LBBA", "TX-US LBB",
	}
	uspsIndicators = []string{
		"USPS", "PRIORITY MAIL", "US POSTAL",
	}
)

// DetectCarrier scans OCR text for carrier indicator phrases, checking
// UPS, then FedEx, then USPS. Matching is case-insensitive and the first
// set with any hit wins. Text with no indicators defaults to USPS.
func DetectCarrier(text string) Carrier {
	upper := strings.ToUpper(text)

	for _, indicator := range upsIndicators {
		if strings.Contains(upper, indicator) {
			return CarrierUPS
		}
	}
	for _, indicator := range fedexIndicators {
		if strings.Contains(upper, indicator) {
			return CarrierFedEx
		}
	}
	for _, indicator := range uspsIndicators {
		if strings.Contains(upper, indicator) {
			return CarrierUSPS
		}
	}

	return CarrierUSPS
}
