package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/odiscan/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for odiscan resources.
	uriScheme = "odiscan://"
)

// fieldInfo describes one record field to clients.
type fieldInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// groupInfo describes one record group to clients.
type groupInfo struct {
	Key    string      `json:"key"`
	Label  string      `json:"label"`
	Fields []fieldInfo `json:"fields"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "schema",
		Name:        "record-schema",
		Description: "Groups and fields of an extraction record, in export order",
		MIMEType:    "application/json",
	}, s.handleSchemaResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "schema/{group}",
		Name:        "record-group",
		Description: "Fields of one extraction record group",
		MIMEType:    "application/json",
	}, s.handleGroupResource)
}

// handleSchemaResource returns every group of the record schema.
func (s *Server) handleSchemaResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, recordSchema())
}

// handleGroupResource returns the fields of a single group.
func (s *Server) handleGroupResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	key := extractGroupKey(req.Params.URI)
	for _, g := range recordSchema() {
		if key != "" && g.Key == key {
			return jsonResource(req.Params.URI, g)
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func recordSchema() []groupInfo {
	var rec domain.ExtractionRecord
	groups := rec.Groups()

	infos := make([]groupInfo, len(groups))
	for i, g := range groups {
		fields := make([]fieldInfo, len(g.Fields))
		for j, f := range g.Fields {
			fields[j] = fieldInfo{Key: f.Key, Label: f.Label}
		}
		infos[i] = groupInfo{Key: g.Key, Label: g.Label, Fields: fields}
	}
	return infos
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling schema: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractGroupKey extracts the group key from a URI like odiscan://schema/{group}.
func extractGroupKey(uri string) string {
	const prefix = uriScheme + "schema/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	key := strings.TrimPrefix(uri, prefix)
	if strings.Contains(key, "/") {
		return ""
	}
	return key
}
