// Package mcp provides an MCP (Model Context Protocol) server adapter for odiscan.
// It lets AI assistants classify disclosure documents and extract their
// outbound-investment fields.
package mcp

import "errors"

var (
	// ErrMissingClassifier is returned when the classifier is not provided.
	ErrMissingClassifier = errors.New("mcp: classifier is required")

	// ErrMissingPipeline is returned when the pipeline is not provided.
	ErrMissingPipeline = errors.New("mcp: pipeline is required")
)
