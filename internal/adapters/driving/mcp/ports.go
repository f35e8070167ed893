package mcp

import (
	"github.com/custodia-labs/odiscan/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Classifier decides whether a document is an outbound investment.
	Classifier driving.Classifier

	// Pipeline classifies and extracts a single document.
	Pipeline driving.Pipeline
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Classifier == nil {
		return ErrMissingClassifier
	}
	if p.Pipeline == nil {
		return ErrMissingPipeline
	}
	return nil
}
