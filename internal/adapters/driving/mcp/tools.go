package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/odiscan/internal/core/domain"
)

// DocumentInput is the input schema for the document tools.
type DocumentInput struct {
	Filename string `json:"filename" jsonschema:"original file name of the announcement, e.g. 600000_公司名称_2024-01-05_关于收购德国公司的公告.txt"`
	Text     string `json:"text,omitempty" jsonschema:"full plain-text content of the announcement"`
}

// ClassificationOutput is the output schema for the classify_document tool.
type ClassificationOutput struct {
	IsODI           bool   `json:"is_odi"`
	Reason          string `json:"reason"`
	TargetCountry   string `json:"target_country,omitempty"`
	ExclusionReason string `json:"exclusion_reason,omitempty"`
}

// ExtractionOutput is the output schema for the extract_document tool.
type ExtractionOutput struct {
	Classification ClassificationOutput     `json:"classification"`
	Accepted       bool                     `json:"accepted"`
	Outcome        string                   `json:"outcome,omitempty"`
	Fallbacks      int                      `json:"fallbacks,omitempty"`
	Record         *domain.ExtractionRecord `json:"record,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_document",
		Description: "Decide whether a listed-company announcement describes an outbound direct investment",
	}, s.handleClassify)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "extract_document",
		Description: "Classify an announcement and, when it describes an outbound direct investment, " +
			"extract the deal fields (basic info, structure, approvals)",
	}, s.handleExtract)
}

// handleClassify handles the classify_document tool invocation.
func (s *Server) handleClassify(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, ClassificationOutput, error) {
	doc, err := input.document()
	if err != nil {
		return nil, ClassificationOutput{}, err
	}
	return nil, classificationOutput(s.ports.Classifier.Classify(doc)), nil
}

// handleExtract handles the extract_document tool invocation.
func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, ExtractionOutput, error) {
	doc, err := input.document()
	if err != nil {
		return nil, ExtractionOutput{}, err
	}

	processed := s.ports.Pipeline.Process(ctx, doc)
	output := ExtractionOutput{
		Classification: classificationOutput(processed.Classification),
		Accepted:       processed.Accepted(),
	}
	if processed.Accepted() {
		record := processed.Result.Record
		output.Outcome = processed.Result.Outcome.String()
		output.Fallbacks = processed.Result.Fallbacks
		output.Record = &record
	}
	return nil, output, nil
}

func (in DocumentInput) document() (domain.Document, error) {
	if strings.TrimSpace(in.Filename) == "" {
		return domain.Document{}, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	doc := domain.Document{Filename: in.Filename, Text: in.Text}
	doc.ParseSuccess = doc.HasText()
	return doc, nil
}

func classificationOutput(r domain.ClassificationResult) ClassificationOutput {
	return ClassificationOutput{
		IsODI:           r.IsODI,
		Reason:          r.Reason,
		TargetCountry:   r.TargetCountry,
		ExclusionReason: r.ExclusionReason,
	}
}
