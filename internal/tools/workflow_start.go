package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yinwm/vibedevtools/internal/logger"
	"github.com/yinwm/vibedevtools/internal/status"
)

// WorkflowStartTool handles the vibedev_specs_workflow_start MCP tool.
// It opens a new session under a placeholder project at the goal stage.
type WorkflowStartTool struct {
	manager *status.Manager
}

// NewWorkflowStartTool creates a WorkflowStartTool.
func NewWorkflowStartTool(m *status.Manager) *WorkflowStartTool {
	return &WorkflowStartTool{manager: m}
}

// Definition returns the MCP tool definition for registration.
func (t *WorkflowStartTool) Definition() mcp.Tool {
	return mcp.NewTool("vibedev_specs_workflow_start",
		mcp.WithDescription(
			"Start the specs workflow and begin the goal collection phase. "+
				"Returns a new session_id that every later workflow tool needs.",
		),
	)
}

// Handle processes the vibedev_specs_workflow_start tool call.
func (t *WorkflowStartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sid := status.NewSessionID()
	if _, err := t.manager.Create(sid, status.PlaceholderName(sid)); err != nil {
		return errorResult(err, sid, "Check that the specs directory is writable"), nil
	}
	logger.Info("workflow started: session %s", sid)

	response := fmt.Sprintf(
		"# 🚀 Specs Development Workflow Started\n\n"+
			"## Current Stage: %s\n\n"+
			"%s\n"+
			"---\n\n"+
			"Discuss the feature with me until its goal is clear:\n"+
			"- What problem does it solve, and for whom?\n"+
			"- What does success look like?\n"+
			"- What is explicitly out of scope?\n\n"+
			"---\n\n"+
			"%s\n"+
			"**Important**:\n"+
			"- **Only when the user explicitly confirms the goal** call `vibedev_specs_goal_confirmed` "+
			"with a short kebab-case feature_name (e.g. `user-auth`)\n"+
			"- **Never** call a later stage tool before the goal is confirmed",
		stageHeading(status.StageGoal),
		workflowProgress(status.StageGoal, "Current Stage"),
		sessionFooter(sid, ""),
	)
	return mcp.NewToolResultText(response), nil
}
