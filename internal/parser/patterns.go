package parser

import "regexp"

// PatternSet holds the carrier-specific address extraction cascades plus the
// carrier-agnostic fallbacks. Each cascade is an ordered list evaluated
// first-match-wins; order encodes precision, most specific first.
type PatternSet struct {
	upsPatterns    []*PatternEntry
	fedexPatterns  []*PatternEntry
	uspsPatterns   []*PatternEntry
	commonPatterns []*PatternEntry
}

// PatternEntry represents a single extraction rule with metadata.
type PatternEntry struct {
	Regex       *regexp.Regexp
	Carrier     Carrier
	Description string
}

// NewPatternSet compiles all extraction cascades.
//
// The extraction rules terminate a captured block at the next label section.
// Go's RE2 engine has no lookahead, so the terminators are written as
// consumed non-capturing alternations, which is equivalent for capture
// group 1.
func NewPatternSet() *PatternSet {
	ps := &PatternSet{}
	ps.initUPSPatterns()
	ps.initFedExPatterns()
	ps.initUSPSPatterns()
	ps.initCommonPatterns()
	return ps
}

// initUPSPatterns initializes the UPS address extraction cascade.
func (ps *PatternSet) initUPSPatterns() {
	ps.upsPatterns = []*PatternEntry{
		{
			Regex:       regexp.MustCompile(`(?ims)SHIP\s*TO\s*:?\s*(.*?)(?:\n\s*(?:UPS|TRACKING|CA \d{3}|1Z)|\z)`),
			Carrier:     CarrierUPS,
			Description: "after SHIP TO until next UPS section",
		},
		{
			Regex:       regexp.MustCompile(`(?ims)([A-Z][A-Z\s]{3,}[^\n]*\n\d+[^\n]+\n[^\n]*[A-Z]{2}\s+\d{5}(?:-\d{4})?)`),
			Carrier:     CarrierUPS,
			Description: "name, street, city/state/ZIP block",
		},
		{
			Regex:       regexp.MustCompile(`(?ims)SHIP\s*TO\s*:?\s*([^\n]+\n[^\n]+\n[^\n]+[A-Z]{2}\s+\d{5})`),
			Carrier:     CarrierUPS,
			Description: "three lines between SHIP TO and barcode area",
		},
		{
			Regex:       regexp.MustCompile(`(?ims)(?:^|\n)\s*TO\s*:?\s*(.*?)(?:\n\s*(?:UPS|TRACKING|CA \d{3}))`),
			Carrier:     CarrierUPS,
			Description: "after TO before UPS markers",
		},
	}
}

// initFedExPatterns initializes the FedEx address extraction cascade.
func (ps *PatternSet) initFedExPatterns() {
	ps.fedexPatterns = []*PatternEntry{
		{
			Regex:       regexp.MustCompile(`(?ims)(?:^|\n)\s*TO\s+([A-Z][^\n]+\n[^\n]*\d+[^\n]+\n[^\n]*[A-Z]{2}\s+\d{5})`),
			Carrier:     CarrierFedEx,
			Description: "after leading TO before REF/DEPT/PO",
		},
		{
			Regex:       regexp.MustCompile(`(?ims)(?:^|\n)([A-Z][A-Z\s]{5,}[^\n]*\n\d+[^\n]+\n[^\n]*[A-Z]{2}\s+\d{5})`),
			Carrier:     CarrierFedEx,
			Description: "name line then address components",
		},
		{
			Regex:       regexp.MustCompile(`(?ims)TO\s+(.*?)(?:\n\s*(?:REF|DEPT|PO|TRACKING))`),
			Carrier:     CarrierFedEx,
			Description: "between TO and other label fields",
		},
		{
			Regex:       regexp.MustCompile(`(?ims)([A-Z][A-Z\s]{3,}[^\n]*\n[^\n]*\d+[^\n]*(?:ST|DR|AVE|RD|BLVD|LN)[^\n]*\n[^\n]*[A-Z]{2}\s+\d{5})`),
			Carrier:     CarrierFedEx,
			Description: "street suffix and ZIP block",
		},
		{
			Regex:       regexp.MustCompile(`(?ims)([A-Z][A-Z\s]+[^\n]{5,}\n\d+[^\n]+\n[A-Z\s]+[A-Z]{2}\s+\d{5})`),
			Carrier:     CarrierFedEx,
			Description: "simple name-street-city block",
		},
	}
}

// initUSPSPatterns initializes the USPS address extraction cascade.
func (ps *PatternSet) initUSPSPatterns() {
	ps.uspsPatterns = []*PatternEntry{
		{
			Regex:       regexp.MustCompile(`(?ims)SHIP\s*TO\s*:?\s*(.*?)(?:\n\s*(?:USPS|TRACKING|PRIORITY|FROM|Delivery|Return|Service)|\z)`),
			Carrier:     CarrierUSPS,
			Description: "after SHIP TO until next section",
		},
		{
			Regex:       regexp.MustCompile(`(?ims)(?:^|\n)\s*TO\s*:?\s*(.*?)(?:\n\s*(?:USPS|TRACKING|PRIORITY|FROM|Delivery|Return|Service)|\z)`),
			Carrier:     CarrierUSPS,
			Description: "after TO until next section",
		},
		{
			Regex:       regexp.MustCompile(`(?ims)([A-Za-z][^\n]{8,}\n[^\n]*\d+[^\n]{5,}\n[^\n]*[A-Z]{2}\s+\d{5})`),
			Carrier:     CarrierUSPS,
			Description: "simple three-line address",
		},
		{
			Regex:       regexp.MustCompile(`(?ims)([A-Za-z][A-Za-z\s]{3,}[^\n]*\n.*?\d+.*?\n.*?[A-Z]{2}\s+\d{5}(?:-\d{4})?)`),
			Carrier:     CarrierUSPS,
			Description: "any block with name, street number, ZIP",
		},
	}
}

// initCommonPatterns initializes the carrier-agnostic fallbacks appended to
// every cascade.
func (ps *PatternSet) initCommonPatterns() {
	ps.commonPatterns = []*PatternEntry{
		{
			Regex:       regexp.MustCompile(`(?ims)([^\n]*\n[^\n]*\n[^\n]*[A-Z]{2}\s+\d{5}(?:-\d{4})?)`),
			Carrier:     "",
			Description: "ZIP-terminated block, working back from ZIP",
		},
		{
			Regex:       regexp.MustCompile(`(?ims)([A-Za-z][^\n]{10,}\n[^\n]{10,}\n[^\n]{10,})`),
			Carrier:     "",
			Description: "very loose three non-trivial lines",
		},
	}
}

// ForCarrier returns the full ordered cascade for a carrier: its specific
// rules followed by the shared fallbacks.
func (ps *PatternSet) ForCarrier(carrier Carrier) []*PatternEntry {
	var patterns []*PatternEntry

	switch carrier {
	case CarrierUPS:
		patterns = ps.upsPatterns
	case CarrierFedEx:
		patterns = ps.fedexPatterns
	default:
		patterns = ps.uspsPatterns
	}

	combined := make([]*PatternEntry, 0, len(patterns)+len(ps.commonPatterns))
	combined = append(combined, patterns...)
	combined = append(combined, ps.commonPatterns...)
	return combined
}
