// Package resources implements the MCP resources of the specs workflow.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (vibedev://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yinwm/vibedevtools/internal/status"
)

// IndexURI addresses the specs index.
const IndexURI = "vibedev://specs/index"

// Handler manages spec resource endpoints.
type Handler struct {
	manager *status.Manager
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(m *status.Manager) *Handler {
	return &Handler{manager: m}
}

// IndexResource returns the MCP resource definition for the specs index.
func (h *Handler) IndexResource() mcp.Resource {
	return mcp.NewResource(
		IndexURI,
		"Specs Index",
		mcp.WithResourceDescription("All specs in this project, newest first: session id, name, overall status, last update"),
		mcp.WithMIMEType("application/json"),
	)
}

type indexDocument struct {
	Specs []status.Entry `json:"specs"`
	Count int            `json:"count"`
}

// HandleIndex returns the specs index as JSON.
func (h *Handler) HandleIndex(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries, err := h.manager.List("")
	if err != nil {
		return errorResource(req.Params.URI, err), nil
	}

	data, err := json.MarshalIndent(indexDocument{Specs: entries, Count: len(entries)}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling specs index: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
