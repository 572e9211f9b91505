package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yinwm/vibedevtools/internal/status"
)

// ListTool handles the vibedev_specs_list MCP tool.
type ListTool struct {
	manager *status.Manager
}

// NewListTool creates a ListTool.
func NewListTool(m *status.Manager) *ListTool {
	return &ListTool{manager: m}
}

// ListSummary counts listed specs by overall status.
type ListSummary struct {
	Total     int `yaml:"total"`
	Active    int `yaml:"active"`
	Completed int `yaml:"completed"`
	Archived  int `yaml:"archived"`
	Paused    int `yaml:"paused"`
}

// ListData is the payload of a spec_list envelope.
type ListData struct {
	Specs   []status.Entry `yaml:"specs"`
	Filter  string         `yaml:"filter"`
	Count   int            `yaml:"count"`
	Summary ListSummary    `yaml:"summary"`
}

// Definition returns the MCP tool definition for registration.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("vibedev_specs_list",
		mcp.WithDescription(
			"List all specs, newest first, with an optional status filter. "+
				"Returns a structured YAML document (type: spec_list).",
		),
		mcp.WithString("status_filter",
			mcp.Description("Filter by overall status. Defaults to 'all'."),
			mcp.DefaultString("all"),
			mcp.Enum("all", "in_progress", "completed", "archived", "paused"),
		),
	)
}

// Handle processes the vibedev_specs_list tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := req.GetString("status_filter", "all")
	if filter == "" {
		filter = "all"
	}

	query := filter
	if filter == "all" {
		query = ""
	}
	specs, err := t.manager.List(query)
	if err != nil {
		return errorResult(err, "", "Check that the specs directory exists and is readable"), nil
	}

	return envelopeResult(TypeSpecList, ListData{
		Specs:   specs,
		Filter:  filter,
		Count:   len(specs),
		Summary: summarize(specs),
	}, "")
}

func summarize(specs []status.Entry) ListSummary {
	s := ListSummary{Total: len(specs)}
	for _, e := range specs {
		switch e.OverallStatus {
		case status.StatusInProgress:
			s.Active++
		case status.StatusCompleted:
			s.Completed++
		case status.StatusArchived:
			s.Archived++
		case status.StatusPaused:
			s.Paused++
		}
	}
	return s
}
