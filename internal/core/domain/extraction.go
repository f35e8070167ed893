package domain

// ExtractionOutcome records which path produced a document's record.
type ExtractionOutcome string

// Extraction outcomes. Exactly one applies to each accepted document.
const (
	// OutcomeRuleOnly means no model was attempted.
	OutcomeRuleOnly ExtractionOutcome = "rule_only"

	// OutcomeModelSuccess means the model record was used without substitutions.
	OutcomeModelSuccess ExtractionOutcome = "model_success"

	// OutcomeModelFallback means the model record was used and at least one
	// blank field was filled from the rule record.
	OutcomeModelFallback ExtractionOutcome = "model_success_with_fallback"

	// OutcomeModelFailure means the model returned nothing usable and the
	// rule record was used in full.
	OutcomeModelFailure ExtractionOutcome = "model_failure"
)

// String returns the string representation.
func (o ExtractionOutcome) String() string {
	return string(o)
}

// UsedModel returns true if the record came from a decoded model response.
func (o ExtractionOutcome) UsedModel() bool {
	return o == OutcomeModelSuccess || o == OutcomeModelFallback
}

// ExtractionResult is the output of an extractor for one document.
type ExtractionResult struct {
	Record    ExtractionRecord  `json:"record"`
	Outcome   ExtractionOutcome `json:"outcome"`
	Fallbacks int               `json:"fallbacks"`
}

// ExtractionStats are running counters kept by the hybrid extractor.
type ExtractionStats struct {
	// TotalFields counts fields examined while merging model records.
	TotalFields int `json:"total_fields"`

	// LLMSuccess counts decoded model responses.
	LLMSuccess int `json:"llm_success"`

	// LLMFallback counts blank model fields replaced by rule values.
	LLMFallback int `json:"llm_fallback"`

	// RuleUsed counts documents whose record came entirely from rules.
	RuleUsed int `json:"rule_used"`
}

// Add returns the field-wise sum of s and o.
func (s ExtractionStats) Add(o ExtractionStats) ExtractionStats {
	return ExtractionStats{
		TotalFields: s.TotalFields + o.TotalFields,
		LLMSuccess:  s.LLMSuccess + o.LLMSuccess,
		LLMFallback: s.LLMFallback + o.LLMFallback,
		RuleUsed:    s.RuleUsed + o.RuleUsed,
	}
}

// AcceptedDocument pairs an extraction record with the verdict that admitted it.
type AcceptedDocument struct {
	Classification ClassificationResult `json:"classification"`
	Result         ExtractionResult     `json:"result"`
}

// BatchSummary aggregates the outcome of a pipeline run.
type BatchSummary struct {
	RunID    string                    `json:"run_id"`
	Total    int                       `json:"total"`
	ODI      int                       `json:"odi"`
	Excluded int                       `json:"excluded"`
	Other    int                       `json:"other"`
	Outcomes map[ExtractionOutcome]int `json:"outcomes"`
	Stats    ExtractionStats           `json:"stats"`
}

// BatchResult is everything a pipeline run produces.
type BatchResult struct {
	Accepted   []AcceptedDocument `json:"accepted"`
	Exclusions []ExclusionRecord  `json:"exclusions"`
	Summary    BatchSummary       `json:"summary"`
}
