package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
	"github.com/custodia-labs/odiscan/internal/core/ports/driving"
)

// Ensure Pipeline implements the interface.
var _ driving.Pipeline = (*Pipeline)(nil)

// Pipeline classifies documents and extracts the accepted ones.
type Pipeline struct {
	classifier driving.Classifier
	extractor  driving.Extractor
	stats      driving.StatsReporter
	metrics    driven.MetricsRecorder
	logger     *zap.Logger

	newRunID func() string
}

// NewPipeline creates a pipeline.
// stats and metrics are optional. When stats is set, each Run resets the
// counters first and reports them in the summary.
func NewPipeline(
	classifier driving.Classifier,
	extractor driving.Extractor,
	stats driving.StatsReporter,
	metrics driven.MetricsRecorder,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		classifier: classifier,
		extractor:  extractor,
		stats:      stats,
		metrics:    metrics,
		logger:     logger,
		newRunID:   func() string { return uuid.NewString() },
	}
}

// Process classifies one document and extracts it when accepted.
func (p *Pipeline) Process(ctx context.Context, doc domain.Document) driving.Processed {
	cls := p.classifier.Classify(doc)
	out := driving.Processed{Document: doc, Classification: cls}
	if !cls.IsODI {
		return out
	}
	result := p.extractor.Extract(ctx, doc, cls)
	out.Result = &result
	return out
}

// Run processes documents strictly in input order.
func (p *Pipeline) Run(ctx context.Context, docs []domain.Document) (domain.BatchResult, error) {
	if p.stats != nil {
		p.stats.ResetStats()
	}

	batch := domain.BatchResult{
		Summary: domain.BatchSummary{
			RunID:    p.newRunID(),
			Outcomes: make(map[domain.ExtractionOutcome]int),
		},
	}
	log := p.logger.With(zap.String("run_id", batch.Summary.RunID))
	log.Info("processing documents", zap.Int("count", len(docs)))

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return batch, fmt.Errorf("run cancelled after %d of %d documents: %w", i, len(docs), err)
		}

		out := p.Process(ctx, doc)
		batch.Summary.Total++

		switch {
		case out.Accepted():
			batch.Summary.ODI++
			batch.Summary.Outcomes[out.Result.Outcome]++
			batch.Accepted = append(batch.Accepted, domain.AcceptedDocument{
				Classification: out.Classification,
				Result:         *out.Result,
			})
			log.Info("extracted",
				zap.Int("index", i+1),
				zap.String("file", doc.Filename),
				zap.String("country", out.Classification.TargetCountry),
				zap.String("outcome", out.Result.Outcome.String()),
			)
		case out.Classification.Excluded():
			batch.Summary.Excluded++
			batch.Exclusions = append(batch.Exclusions, domain.NewExclusionRecord(doc, out.Classification))
			log.Debug("excluded",
				zap.String("file", doc.Filename),
				zap.String("exclusion", out.Classification.ExclusionReason),
			)
		default:
			batch.Summary.Other++
			log.Debug("not an outbound investment",
				zap.String("file", doc.Filename),
				zap.String("reason", out.Classification.Reason),
			)
		}
	}

	if p.stats != nil {
		batch.Summary.Stats = p.stats.Stats()
	}

	log.Info("batch complete",
		zap.Int("total", batch.Summary.Total),
		zap.Int("odi", batch.Summary.ODI),
		zap.Int("excluded", batch.Summary.Excluded),
		zap.Int("other", batch.Summary.Other),
		zap.Int("llm_success", batch.Summary.Stats.LLMSuccess),
		zap.Int("llm_fallback", batch.Summary.Stats.LLMFallback),
		zap.Int("rule_used", batch.Summary.Stats.RuleUsed),
	)
	return batch, nil
}

// RunSource reads every document from source, runs the batch and writes
// the result to sink.
func (p *Pipeline) RunSource(
	ctx context.Context,
	source driven.DocumentSource,
	sink driven.ResultSink,
) (domain.BatchResult, string, error) {
	docs, err := source.Documents(ctx)
	if err != nil {
		return domain.BatchResult{}, "", fmt.Errorf("read documents: %w", err)
	}

	batch, err := p.Run(ctx, docs)
	if err != nil {
		return batch, "", err
	}

	location, err := sink.Write(ctx, batch)
	if err != nil {
		return batch, "", fmt.Errorf("write results: %w", err)
	}

	if p.metrics != nil {
		if err := p.metrics.RecordBatch(batch.Summary); err != nil {
			p.logger.Warn("record batch metrics", zap.Error(err))
		}
	}
	return batch, location, nil
}
