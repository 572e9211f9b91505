package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yinwm/vibedevtools/internal/status"
)

// GoalConfirmedTool handles the vibedev_specs_goal_confirmed MCP tool.
// It names the feature, moving the placeholder project to its final
// directory, and opens the requirements stage.
type GoalConfirmedTool struct {
	manager *status.Manager
}

// NewGoalConfirmedTool creates a GoalConfirmedTool.
func NewGoalConfirmedTool(m *status.Manager) *GoalConfirmedTool {
	return &GoalConfirmedTool{manager: m}
}

// Definition returns the MCP tool definition for registration.
func (t *GoalConfirmedTool) Definition() mcp.Tool {
	return mcp.NewTool("vibedev_specs_goal_confirmed",
		mcp.WithDescription(
			"Confirm the feature goal, set the feature_name, and proceed to the "+
				"requirements collection phase. Call only after the user explicitly confirms the goal.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier returned by vibedev_specs_workflow_start"),
		),
		mcp.WithString("feature_name",
			mcp.Required(),
			mcp.Description("Feature name generated from the goal (e.g. user-auth). It is normalized to a kebab-case slug."),
		),
		mcp.WithString("goal_summary",
			mcp.Required(),
			mcp.Description("Brief description of the feature goal"),
		),
	)
}

// Handle processes the vibedev_specs_goal_confirmed tool call.
func (t *GoalConfirmedTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sid, errRes := requireString(req, "session_id", "")
	if errRes != nil {
		return errRes, nil
	}
	featureName, errRes := requireString(req, "feature_name", sid)
	if errRes != nil {
		return errRes, nil
	}
	summary, errRes := requireString(req, "goal_summary", sid)
	if errRes != nil {
		return errRes, nil
	}

	rec, err := t.manager.ConfirmGoal(sid, featureName)
	if err != nil {
		return errorResult(err, sid, "Check the session ID and feature name"), nil
	}

	response := fmt.Sprintf(
		"# ✅ Feature Goal Confirmed\n\n"+
			"## Confirmed Feature Goal:\n"+
			"- **Feature Name**: `%s`\n"+
			"- **Feature Description**: %s\n"+
			"- **Project Directory**: `%s/`\n\n"+
			"---\n\n"+
			"## Next Stage: %s\n\n"+
			"%s\n"+
			"Now call `vibedev_specs_requirements_start` to begin detailed requirements gathering.\n\n"+
			"%s",
		rec.Name, summary, t.manager.Store().ProjectDir(rec.Name),
		stageHeading(status.StageRequirements),
		workflowProgress(status.StageRequirements, "Next Stage"),
		sessionFooter(sid, rec.Name),
	)
	return mcp.NewToolResultText(response), nil
}
