package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driving"
)

// Ensure HybridExtractor implements the interfaces.
var (
	_ driving.Extractor     = (*HybridExtractor)(nil)
	_ driving.StatsReporter = (*HybridExtractor)(nil)
)

var errNotObject = errors.New("not a JSON object")

// decodeKind tags the result of the model step.
type decodeKind int

const (
	// decodeRuleOnly means the rule record must be used in full.
	decodeRuleOnly decodeKind = iota
	// decodeModelMerged means a model record was decoded and can be merged.
	decodeModelMerged
)

// modelDecode is the outcome of asking the model for a record.
type modelDecode struct {
	kind    decodeKind
	decoded DecodedRecord
}

// DecodedRecord is a model response decoded into a record. Present holds
// the keys of the groups the response supplied as objects; the others are
// left empty in Record.
type DecodedRecord struct {
	Record  domain.ExtractionRecord
	Present map[string]bool
}

// HybridExtractor asks the model first and falls back to rules.
// It is safe for concurrent use.
type HybridExtractor struct {
	rules        *RuleExtractor
	prompts      *PromptBuilder
	model        ModelCaller
	ruleFallback bool
	logger       *zap.Logger

	mu    sync.Mutex
	stats domain.ExtractionStats
}

// NewHybridExtractor creates a hybrid extractor. A nil model makes every
// extraction rule-only.
func NewHybridExtractor(
	rules *RuleExtractor,
	prompts *PromptBuilder,
	model ModelCaller,
	ruleFallback bool,
	logger *zap.Logger,
) *HybridExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HybridExtractor{
		rules:        rules,
		prompts:      prompts,
		model:        model,
		ruleFallback: ruleFallback,
		logger:       logger,
	}
}

// Extract produces the record for an accepted document.
func (h *HybridExtractor) Extract(
	ctx context.Context,
	doc domain.Document,
	cls domain.ClassificationResult,
) domain.ExtractionResult {
	ruleRecord := h.rules.Record(doc, cls)

	decoded := h.decode(ctx, doc, cls)
	if decoded.kind == decodeRuleOnly {
		h.update(func(s *domain.ExtractionStats) { s.RuleUsed++ })

		outcome := domain.OutcomeModelFailure
		if h.model == nil {
			outcome = domain.OutcomeRuleOnly
		}
		return domain.ExtractionResult{Record: ruleRecord, Outcome: outcome}
	}

	record := decoded.decoded.Record
	overwriteFilenameFields(&record, &ruleRecord)

	// The filename overwrite always materialises basic info.
	present := decoded.decoded.Present
	present[domain.GroupBasicInfo] = true

	fallbacks := 0
	if h.ruleFallback {
		fallbacks = fillBlankFields(&record, &ruleRecord, present)
	}

	h.update(func(s *domain.ExtractionStats) {
		s.TotalFields += record.FieldCount()
		s.LLMSuccess++
		s.LLMFallback += fallbacks
	})

	outcome := domain.OutcomeModelSuccess
	if fallbacks > 0 {
		outcome = domain.OutcomeModelFallback
		h.logger.Debug("filled blank model fields from rules",
			zap.String("file", doc.Filename),
			zap.Int("fields", fallbacks),
		)
	}
	return domain.ExtractionResult{Record: record, Outcome: outcome, Fallbacks: fallbacks}
}

// Stats returns a snapshot of the counters.
func (h *HybridExtractor) Stats() domain.ExtractionStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// ResetStats zeroes the counters.
func (h *HybridExtractor) ResetStats() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats = domain.ExtractionStats{}
}

func (h *HybridExtractor) update(fn func(s *domain.ExtractionStats)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(&h.stats)
}

func (h *HybridExtractor) decode(ctx context.Context, doc domain.Document, cls domain.ClassificationResult) modelDecode {
	if h.model == nil {
		return modelDecode{kind: decodeRuleOnly}
	}

	system, err := h.prompts.SystemPrompt()
	if err != nil {
		h.logger.Warn("system prompt unavailable, sending without one", zap.Error(err))
	}

	resp, ok := h.model.Extract(ctx, h.prompts.Build(doc, cls), system)
	if !ok || strings.TrimSpace(resp) == "" {
		h.logger.Warn("model returned no response, using rule extraction", zap.String("file", doc.Filename))
		return modelDecode{kind: decodeRuleOnly}
	}

	decoded, err := DecodeModelRecord(resp)
	if err != nil {
		h.logger.Error("decode model response, using rule extraction",
			zap.String("file", doc.Filename),
			zap.Error(err),
		)
		h.logger.Debug("raw model response", zap.String("response", truncate(resp, 500)))
		return modelDecode{kind: decodeRuleOnly}
	}

	h.logger.Info("model extraction succeeded", zap.String("file", doc.Filename))
	return modelDecode{kind: decodeModelMerged, decoded: decoded}
}

// DecodeModelRecord parses a model response into a record. A surrounding
// Markdown code fence is tolerated. Missing groups and fields decode as
// empty strings; a null group counts as missing.
func DecodeModelRecord(resp string) (DecodedRecord, error) {
	out := DecodedRecord{Present: make(map[string]bool)}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &top); err != nil {
		return DecodedRecord{}, fmt.Errorf("parse response: %w", err)
	}
	if top == nil {
		return DecodedRecord{}, fmt.Errorf("parse response: %w", errNotObject)
	}

	for _, g := range out.Record.Groups() {
		raw, ok := top[g.Key]
		if !ok || isJSONNull(raw) {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return DecodedRecord{}, fmt.Errorf("group %s: %w", g.Key, errNotObject)
		}
		out.Present[g.Key] = true
		for _, f := range g.Fields {
			if v, ok := fields[f.Key]; ok {
				*f.Value = jsonText(v)
			}
		}
	}
	return out, nil
}

// stripCodeFence removes an opening ``` line and a closing ``` line.
func stripCodeFence(resp string) string {
	s := strings.TrimSpace(resp)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	lines = lines[1:]
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "```" {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func isJSONNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// jsonText renders a JSON value as field text: strings unquoted, null as
// empty, anything else as its JSON source.
func jsonText(raw json.RawMessage) string {
	if isJSONNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// overwriteFilenameFields copies the filename-derived fields from src.
func overwriteFilenameFields(dst, src *domain.ExtractionRecord) {
	dstInfo := domain.Group{Fields: dst.BasicInfo.Fields()}
	srcInfo := domain.Group{Fields: src.BasicInfo.Fields()}
	for _, key := range domain.FilenameFieldKeys {
		d, _ := dstInfo.Lookup(key)
		s, _ := srcInfo.Lookup(key)
		*d.Value = *s.Value
	}
}

// fillBlankFields replaces blank fields of dst with non-empty values from
// src, within the groups named in present, and returns the number of
// substitutions.
func fillBlankFields(dst, src *domain.ExtractionRecord, present map[string]bool) int {
	srcGroups := src.Groups()
	n := 0
	for gi, g := range dst.Groups() {
		if !present[g.Key] {
			continue
		}
		for fi, f := range g.Fields {
			if strings.TrimSpace(*f.Value) != "" {
				continue
			}
			if v := *srcGroups[gi].Fields[fi].Value; v != "" {
				*f.Value = v
				n++
			}
		}
	}
	return n
}
