package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yinwm/vibedevtools/internal/status"
)

// stageGuide is the fixed guidance for one document-producing stage.
type stageGuide struct {
	tool        string // name prefix, e.g. "requirements"
	purpose     string
	description string
	steps       []string
}

var stageGuides = map[status.Stage]stageGuide{
	status.StageRequirements: {
		tool:        "requirements",
		purpose:     "requirements collection",
		description: "Start the requirements collection phase and provide guidance for requirements gathering",
		steps: []string{
			"Write user stories in the form \"As a <role>, I want <capability>, so that <benefit>\"",
			"Give every story acceptance criteria in WHEN/THEN form",
			"Cover edge cases, error handling and non-functional constraints",
			"Ask the user to review; iterate until they approve",
		},
	},
	status.StageDesign: {
		tool:        "design",
		purpose:     "design documentation",
		description: "Start the design documentation phase and provide guidance for creating design documents",
		steps: []string{
			"Describe the architecture and the components it needs",
			"Define data models and interfaces between components",
			"Explain error handling and the testing strategy",
			"Ask the user to review; iterate until they approve",
		},
	},
	status.StageTasks: {
		tool:        "tasks",
		purpose:     "task planning",
		description: "Start the task planning phase and provide guidance for creating the task list",
		steps: []string{
			"Write a markdown checklist: one `- [ ]` item per coding task",
			"Nest subtasks two spaces deeper than their parent",
			"Mark urgent items with `[!]` and optional ones with `[low]`",
			"Reference the requirement each task satisfies",
			"Ask the user to review; iterate until they approve",
		},
	},
}

// StageStartTool handles vibedev_specs_{requirements,design,tasks}_start.
// It checks the session belongs to the feature and returns the writing
// guidance for the stage's deliverable.
type StageStartTool struct {
	manager *status.Manager
	stage   status.Stage
}

// NewRequirementsStartTool creates the vibedev_specs_requirements_start tool.
func NewRequirementsStartTool(m *status.Manager) *StageStartTool {
	return &StageStartTool{manager: m, stage: status.StageRequirements}
}

// NewDesignStartTool creates the vibedev_specs_design_start tool.
func NewDesignStartTool(m *status.Manager) *StageStartTool {
	return &StageStartTool{manager: m, stage: status.StageDesign}
}

// NewTasksStartTool creates the vibedev_specs_tasks_start tool.
func NewTasksStartTool(m *status.Manager) *StageStartTool {
	return &StageStartTool{manager: m, stage: status.StageTasks}
}

// Definition returns the MCP tool definition for registration.
func (t *StageStartTool) Definition() mcp.Tool {
	g := stageGuides[t.stage]
	return mcp.NewTool(fmt.Sprintf("vibedev_specs_%s_start", g.tool),
		mcp.WithDescription(g.description),
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

// Handle processes the stage start tool call.
func (t *StageStartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sid, errRes := requireString(req, "session_id", "")
	if errRes != nil {
		return errRes, nil
	}
	featureName, errRes := requireString(req, "feature_name", sid)
	if errRes != nil {
		return errRes, nil
	}

	rec, err := t.manager.LoadChecked(sid, featureName)
	if err != nil {
		return errorResult(err, sid, "Check the session ID and feature name"), nil
	}

	g := stageGuides[t.stage]
	file, _ := t.stage.Deliverable()
	path := t.manager.Store().DeliverablePath(rec.Name, file)

	var steps string
	for i, s := range g.steps {
		steps += fmt.Sprintf("%d. %s\n", i+1, s)
	}

	response := fmt.Sprintf(
		"# 📋 %s\n\n"+
			"## Feature: %s\n\n"+
			"%s\n"+
			"---\n\n"+
			"Write `%s` to:\n\n`%s`\n\n"+
			"%s\n"+
			"---\n\n"+
			"**Important**:\n"+
			"- **Only when the user explicitly confirms the %s is complete** call `vibedev_specs_%s_confirmed`\n"+
			"- **Never** call the next stage tool before that confirmation\n\n"+
			"%s",
		stageHeading(t.stage),
		rec.Name,
		workflowProgress(t.stage, "Current Stage"),
		file, path,
		steps,
		g.purpose, g.tool,
		sessionFooter(sid, rec.Name),
	)
	return mcp.NewToolResultText(response), nil
}
