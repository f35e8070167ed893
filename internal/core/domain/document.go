package domain

import "strings"

// TargetCountryUnspecified is reported when the filename marks a document as
// overseas but no country or region name could be resolved.
const TargetCountryUnspecified = "未明确（需人工核对）"

// Document is a disclosure document as supplied by a source.
// It is never modified after construction.
type Document struct {
	// Filename is the original file name, including extension.
	Filename string `json:"filename"`

	// Text is the full plain-text content.
	Text string `json:"text"`

	// ParseSuccess is false when the source could not read or decode the file.
	ParseSuccess bool `json:"parse_success"`
}

// HasText returns true if the document carries non-blank text.
func (d Document) HasText() bool {
	return strings.TrimSpace(d.Text) != ""
}

// ClassificationResult is the outbound-investment verdict for one document.
type ClassificationResult struct {
	// IsODI is true when the document describes an outbound investment.
	IsODI bool `json:"is_odi"`

	// Reason is a human-readable explanation of the verdict.
	Reason string `json:"reason"`

	// TargetCountry is the resolved destination. Empty means absent.
	TargetCountry string `json:"target_country,omitempty"`

	// ExclusionReason names the exclusion rule that fired. Empty means
	// the document was not excluded by an explicit rule.
	ExclusionReason string `json:"exclusion_reason,omitempty"`
}

// Excluded returns true if an explicit exclusion rule rejected the document.
func (c ClassificationResult) Excluded() bool {
	return c.ExclusionReason != ""
}

// ExclusionRecord is produced once per rejected document.
type ExclusionRecord struct {
	FileName        string `json:"file_name"`
	Reason          string `json:"reason"`
	ExclusionReason string `json:"exclusion_reason"`
}

// NewExclusionRecord builds the exclusion record for a rejected document.
func NewExclusionRecord(doc Document, result ClassificationResult) ExclusionRecord {
	return ExclusionRecord{
		FileName:        doc.Filename,
		Reason:          result.Reason,
		ExclusionReason: result.ExclusionReason,
	}
}
