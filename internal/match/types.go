package match

import "label-matcher/internal/parser"

// OCRPage is one rendered label page with the raw text an OCR engine
// recovered from it. Pages are numbered from 1.
type OCRPage struct {
	PageNumber int    `json:"page_number"`
	RawText    string `json:"raw_text"`
}

// Candidate is a previously created order a page may be assigned to. ShipTo
// is the free-text shipping address on record; candidates without one are
// skipped during matching but still counted in the run.
type Candidate struct {
	ID      int64  `json:"id"`
	OrderID string `json:"order_id,omitempty"`
	ShipTo  string `json:"ship_to"`
}

// MatchResult is the per-page outcome of a matching run. ShippingAddress is
// the extracted display block, not the matching input; OrderID is nil when
// no candidate cleared the carrier threshold.
type MatchResult struct {
	PageNumber      int            `json:"page_number"`
	ShippingAddress string         `json:"shipping_address"`
	OrderID         *int64         `json:"order_id"`
	Confidence      float64        `json:"confidence_score"`
	Matched         bool           `json:"matched"`
	LabelType       parser.Carrier `json:"label_type"`
}

// BatchStats aggregates a matching run.
type BatchStats struct {
	TotalPages int `json:"total_pages"`
	Matched    int `json:"matched"`
	Unmatched  int `json:"unmatched"`
}
