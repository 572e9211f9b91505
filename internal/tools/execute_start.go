package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yinwm/vibedevtools/internal/checklist"
	"github.com/yinwm/vibedevtools/internal/status"
)

// ExecuteStartTool handles the vibedev_specs_execute_start MCP tool.
// It reads tasks.md and points the assistant at the task to work on.
type ExecuteStartTool struct {
	manager *status.Manager
}

// NewExecuteStartTool creates an ExecuteStartTool.
func NewExecuteStartTool(m *status.Manager) *ExecuteStartTool {
	return &ExecuteStartTool{manager: m}
}

// Definition returns the MCP tool definition for registration.
func (t *ExecuteStartTool) Definition() mcp.Tool {
	return mcp.NewTool("vibedev_specs_execute_start",
		mcp.WithDescription(
			"Start the task execution phase and provide guidance for task execution. "+
				"Reports the current task and the ones after it from tasks.md.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier"),
		),
		mcp.WithString("feature_name",
			mcp.Required(),
			mcp.Description("Feature name"),
		),
		mcp.WithString("task_id",
			mcp.Description("Optional: 1-based position of the task to execute; if not specified, the next unfinished task is used"),
		),
	)
}

// Handle processes the vibedev_specs_execute_start tool call.
func (t *ExecuteStartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	res, err := t.manager.TaskProgress(rec.Name)
	if err != nil {
		return errorResult(err, sid, "Write tasks.md and confirm it with vibedev_specs_tasks_confirmed"), nil
	}

	target := res.Current
	if raw := strings.TrimSpace(req.GetString("task_id", "")); raw != "" && raw != "next_uncompleted" {
		id, convErr := strconv.Atoi(raw)
		if convErr != nil || res.Item(id) == nil {
			return invalidArgs(
				fmt.Sprintf("Invalid task_id: %s", raw),
				fmt.Sprintf("task_id must be a task position between 1 and %d", res.Total),
				sid,
			), nil
		}
		target = res.Item(id)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# ⚙️ %s\n\n## Feature: %s\n\n", stageHeading(status.StageExecution), rec.Name)
	b.WriteString(workflowProgress(status.StageExecution, "Current Stage"))
	fmt.Fprintf(&b, "\n**Progress**: %d/%d tasks (%d%%)\n\n", res.Completed, res.Total, res.Percentage)

	if target == nil {
		b.WriteString("🎉 All tasks are complete. Update the status with `vibedev_specs_update_status` (status: completed).\n\n")
		b.WriteString(sessionFooter(sid, rec.Name))
		return mcp.NewToolResultText(b.String()), nil
	}

	b.WriteString("## Current Task\n\n")
	writeTask(&b, res, target)

	if len(res.Upcoming) > 0 {
		b.WriteString("\n## Up Next\n\n")
		for _, it := range res.Upcoming {
			if it.ID == target.ID {
				continue
			}
			fmt.Fprintf(&b, "- #%d %s\n", it.ID, it.Text)
		}
	}

	fmt.Fprintf(&b,
		"\n---\n\n"+
			"1. Implement only this task, following requirements.md and design.md\n"+
			"2. Tick its checkbox in `%s`\n"+
			"3. Report progress with `vibedev_specs_update_status` (task_completed)\n"+
			"4. Ask the user before moving to the next task\n\n",
		t.manager.Store().DeliverablePath(rec.Name, status.TasksFile),
	)
	b.WriteString(sessionFooter(sid, rec.Name))
	return mcp.NewToolResultText(b.String()), nil
}

func writeTask(b *strings.Builder, res *checklist.Result, it *checklist.Item) {
	state := "pending"
	if it.Completed {
		state = "done"
	}
	fmt.Fprintf(b, "- **#%d** %s\n- Priority: %s\n- State: %s\n", it.ID, it.Text, it.Priority, state)
	if parent := res.Parent(it); parent != nil {
		fmt.Fprintf(b, "- Part of: #%d %s\n", parent.ID, parent.Text)
	}
	for _, id := range it.Children {
		child := res.Item(id)
		mark := " "
		if child.Completed {
			mark = "x"
		}
		fmt.Fprintf(b, "  - [%s] #%d %s\n", mark, child.ID, child.Text)
	}
}
