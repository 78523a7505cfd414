package model

import "encoding/json"

// DocumentResult is the outcome of OCR plus structured extraction for one
// scanned document image.
//
// ExtractedJSON carries the model output verbatim. Extracted carries the
// parsed object when the output was valid JSON; when the model produced
// something unparsable, Extracted is nil and DocumentType falls back to
// "unknown" while the raw output stays available for display.
type DocumentResult struct {
	DocumentType  string          `json:"document_type"`
	RawText       string          `json:"raw_text"`
	ExtractedJSON string          `json:"extracted_json"`
	Extracted     json.RawMessage `json:"extracted,omitempty"`
}
