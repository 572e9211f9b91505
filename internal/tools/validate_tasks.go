package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yinwm/vibedevtools/internal/checklist"
	"github.com/yinwm/vibedevtools/internal/status"
)

// ValidateTasksTool handles the vibedev_specs_validate_tasks MCP tool.
// Findings are advisory: they never change how progress is counted.
type ValidateTasksTool struct {
	manager *status.Manager
}

// NewValidateTasksTool creates a ValidateTasksTool.
func NewValidateTasksTool(m *status.Manager) *ValidateTasksTool {
	return &ValidateTasksTool{manager: m}
}

// ValidationData is the spec_detail payload of a tasks.md check.
type ValidationData struct {
	Feature    string               `yaml:"feature"`
	File       string               `yaml:"file"`
	Total      int                  `yaml:"total"`
	Completed  int                  `yaml:"completed"`
	Validation checklist.Validation `yaml:"validation"`
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("vibedev_specs_validate_tasks",
		mcp.WithDescription(
			"Check a spec's tasks.md for lines that look like checklist items but "+
				"would not be counted, and for odd indentation. Returns a YAML document (type: spec_detail).",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier"),
		),
	)
}

// Handle processes the vibedev_specs_validate_tasks tool call.
func (t *ValidateTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sid, errRes := requireString(req, "session_id", "")
	if errRes != nil {
		return errRes, nil
	}

	name, err := t.manager.Resolve(sid)
	if err != nil {
		return errorResult(err, sid, "Use 'vibedev_specs_list' to see all available specs"), nil
	}
	text, err := t.manager.Store().ReadDeliverable(name, status.TasksFile)
	if err != nil {
		return errorResult(err, sid, "Write tasks.md first"), nil
	}

	res := checklist.Parse(text)
	return envelopeResult(TypeSpecDetail, ValidationData{
		Feature:    name,
		File:       t.manager.Store().DeliverablePath(name, status.TasksFile),
		Total:      res.Total,
		Completed:  res.Completed,
		Validation: checklist.Validate(text),
	}, sid)
}
