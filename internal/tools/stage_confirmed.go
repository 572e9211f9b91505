package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yinwm/vibedevtools/internal/status"
)

// StageConfirmedTool handles vibedev_specs_{requirements,design,tasks}_confirmed.
// It requires the stage's deliverable on disk, marks the stage done and
// opens the next one. Confirming tasks also records the checklist counts.
type StageConfirmedTool struct {
	manager *status.Manager
	stage   status.Stage
}

// NewRequirementsConfirmedTool creates the vibedev_specs_requirements_confirmed tool.
func NewRequirementsConfirmedTool(m *status.Manager) *StageConfirmedTool {
	return &StageConfirmedTool{manager: m, stage: status.StageRequirements}
}

// NewDesignConfirmedTool creates the vibedev_specs_design_confirmed tool.
func NewDesignConfirmedTool(m *status.Manager) *StageConfirmedTool {
	return &StageConfirmedTool{manager: m, stage: status.StageDesign}
}

// NewTasksConfirmedTool creates the vibedev_specs_tasks_confirmed tool.
func NewTasksConfirmedTool(m *status.Manager) *StageConfirmedTool {
	return &StageConfirmedTool{manager: m, stage: status.StageTasks}
}

// Definition returns the MCP tool definition for registration.
func (t *StageConfirmedTool) Definition() mcp.Tool {
	g := stageGuides[t.stage]
	next, _ := t.stage.Next()
	return mcp.NewTool(fmt.Sprintf("vibedev_specs_%s_confirmed", g.tool),
		mcp.WithDescription(fmt.Sprintf(
			"Confirm the completion of %s and proceed to %s. "+
				"The stage document must already be written.",
			g.purpose, stageLabels[next],
		)),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier"),
		),
		mcp.WithString("feature_name",
			mcp.Required(),
			mcp.Description("Feature name"),
		),
	)
}

// Handle processes the stage confirmation tool call.
func (t *StageConfirmedTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sid, errRes := requireString(req, "session_id", "")
	if errRes != nil {
		return errRes, nil
	}
	featureName, errRes := requireString(req, "feature_name", sid)
	if errRes != nil {
		return errRes, nil
	}

	if _, err := t.manager.LoadChecked(sid, featureName); err != nil {
		return errorResult(err, sid, "Check the session ID and feature name"), nil
	}
	rec, err := t.manager.Advance(sid, t.stage)
	if err != nil {
		return errorResult(err, sid, "Write the stage document before confirming it"), nil
	}

	next, _ := t.stage.Next()
	file, _ := t.stage.Deliverable()

	summary := ""
	if t.stage == status.StageTasks {
		tp := rec.StageProgress.Tasks
		summary = fmt.Sprintf("**Tasks recorded**: %d total, %d already completed\n\n",
			tp.TotalTasks, tp.CompletedTasks)
	}

	nextStep := fmt.Sprintf("Now call `vibedev_specs_%s_start` to continue.", stageGuides[next].tool)
	if next == status.StageExecution {
		nextStep = "Now call `vibedev_specs_execute_start` to begin working through the tasks."
	}

	response := fmt.Sprintf(
		"# ✅ %s Confirmed\n\n"+
			"`%s` is saved at `%s`.\n\n"+
			"%s"+
			"## Next Stage: %s\n\n"+
			"%s\n"+
			"%s\n\n"+
			"%s",
		stageLabels[t.stage],
		file, t.manager.Store().DeliverablePath(rec.Name, file),
		summary,
		stageHeading(next),
		workflowProgress(next, "Next Stage"),
		nextStep,
		sessionFooter(sid, rec.Name),
	)
	return mcp.NewToolResultText(response), nil
}
