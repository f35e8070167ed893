package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/odiscan/internal/core/domain"
)

// --- Mock implementations for pipeline testing ---

type mockDocumentSource struct {
	docs []domain.Document
	err  error
}

func (m *mockDocumentSource) Documents(context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocumentSource) Load(_ context.Context, path string) (domain.Document, error) {
	for _, d := range m.docs {
		if d.Filename == path {
			return d, nil
		}
	}
	return domain.Document{}, domain.ErrNotFound
}

type mockResultSink struct {
	written []domain.BatchResult
	err     error
}

func (m *mockResultSink) Write(_ context.Context, batch domain.BatchResult) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.written = append(m.written, batch)
	return "/tmp/out/" + batch.Summary.RunID, nil
}

type mockMetricsRecorder struct {
	summaries []domain.BatchSummary
	err       error
}

func (m *mockMetricsRecorder) RecordBatch(s domain.BatchSummary) error {
	m.summaries = append(m.summaries, s)
	return m.err
}

func pipelineDocs() []domain.Document {
	return []domain.Document{
		{Filename: e2eFilename, Text: e2eText, ParseSuccess: true},
		{Filename: "600001 甲公司 2024-01-02 关于境外生产药品获批的公告.txt", Text: "公司境外生产药品获得美国FDA批准。", ParseSuccess: true},
		{Filename: "broken.txt", Text: "", ParseSuccess: false},
		{Filename: sampleFilename, Text: sampleText, ParseSuccess: true},
	}
}

func newTestPipeline(metrics *mockMetricsRecorder) (*Pipeline, *HybridExtractor) {
	hybrid := newTestHybrid(nil, true)
	p := NewPipeline(newTestClassifier(), hybrid, hybrid, nil, nil)
	if metrics != nil {
		p.metrics = metrics
	}
	p.newRunID = func() string { return "run-1" }
	return p, hybrid
}

func TestPipeline_Process(t *testing.T) {
	p, _ := newTestPipeline(nil)

	accepted := p.Process(context.Background(), pipelineDocs()[0])
	require.True(t, accepted.Accepted())
	assert.Equal(t, "Germany", accepted.Result.Record.BasicInfo.TargetCountry)

	rejected := p.Process(context.Background(), pipelineDocs()[2])
	assert.False(t, rejected.Accepted())
	assert.Nil(t, rejected.Result)
}

func TestPipeline_Run(t *testing.T) {
	p, _ := newTestPipeline(nil)

	batch, err := p.Run(context.Background(), pipelineDocs())
	require.NoError(t, err)

	s := batch.Summary
	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.ODI)
	assert.Equal(t, 1, s.Excluded)
	assert.Equal(t, 1, s.Other)
	assert.Equal(t, s.Total, s.ODI+s.Excluded+s.Other)
	assert.Equal(t, 2, s.Outcomes[domain.OutcomeRuleOnly])
	assert.Equal(t, 2, s.Stats.RuleUsed)

	require.Len(t, batch.Accepted, 2)
	assert.Equal(t, e2eFilename, batch.Accepted[0].Result.Record.BasicInfo.FileName)
	assert.Equal(t, sampleFilename, batch.Accepted[1].Result.Record.BasicInfo.FileName)

	require.Len(t, batch.Exclusions, 1)
	assert.Equal(t, pipelineDocs()[1].Filename, batch.Exclusions[0].FileName)
	assert.Equal(t, ExclusionDrugApproval, batch.Exclusions[0].ExclusionReason)
}

func TestPipeline_RunResetsStats(t *testing.T) {
	p, hybrid := newTestPipeline(nil)

	_, err := p.Run(context.Background(), pipelineDocs())
	require.NoError(t, err)
	batch, err := p.Run(context.Background(), pipelineDocs())
	require.NoError(t, err)

	assert.Equal(t, 2, batch.Summary.Stats.RuleUsed)
	assert.Equal(t, 2, hybrid.Stats().RuleUsed)
}

func TestPipeline_RunEmpty(t *testing.T) {
	p, _ := newTestPipeline(nil)

	batch, err := p.Run(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, batch.Summary.Total)
	assert.Empty(t, batch.Accepted)
	assert.NotNil(t, batch.Summary.Outcomes)
}

func TestPipeline_RunCancelled(t *testing.T) {
	p, _ := newTestPipeline(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, pipelineDocs())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_RunSource(t *testing.T) {
	metrics := &mockMetricsRecorder{}
	p, _ := newTestPipeline(metrics)
	sink := &mockResultSink{}

	batch, location, err := p.RunSource(context.Background(), &mockDocumentSource{docs: pipelineDocs()}, sink)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/out/run-1", location)
	require.Len(t, sink.written, 1)
	assert.Equal(t, batch.Summary, sink.written[0].Summary)
	require.Len(t, metrics.summaries, 1)
	assert.Equal(t, 2, metrics.summaries[0].ODI)
}

func TestPipeline_RunSourceErrors(t *testing.T) {
	p, _ := newTestPipeline(nil)

	_, _, err := p.RunSource(context.Background(), &mockDocumentSource{err: errors.New("no dir")}, &mockResultSink{})
	assert.ErrorContains(t, err, "read documents")

	_, _, err = p.RunSource(context.Background(), &mockDocumentSource{docs: pipelineDocs()}, &mockResultSink{err: errors.New("disk full")})
	assert.ErrorContains(t, err, "write results")
}

func TestPipeline_MetricsErrorDoesNotFail(t *testing.T) {
	metrics := &mockMetricsRecorder{err: errors.New("read-only fs")}
	p, _ := newTestPipeline(metrics)

	_, location, err := p.RunSource(context.Background(), &mockDocumentSource{docs: pipelineDocs()}, &mockResultSink{})

	require.NoError(t, err)
	assert.NotEmpty(t, location)
}

func TestNewPipeline_GeneratesRunIDs(t *testing.T) {
	p := NewPipeline(newTestClassifier(), newTestRuleExtractor(), nil, nil, nil)

	a, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	b, err := p.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Len(t, a.Summary.RunID, 36)
	assert.NotEqual(t, a.Summary.RunID, b.Summary.RunID)
}
