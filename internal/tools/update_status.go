package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yinwm/vibedevtools/internal/status"
)

// UpdateStatusTool handles the vibedev_specs_update_status MCP tool.
type UpdateStatusTool struct {
	manager *status.Manager
}

// NewUpdateStatusTool creates an UpdateStatusTool.
func NewUpdateStatusTool(m *status.Manager) *UpdateStatusTool {
	return &UpdateStatusTool{manager: m}
}

// AppliedChange is one field an update wrote.
type AppliedChange struct {
	Field string `yaml:"field"`
	Value string `yaml:"value"`
}

// SpecRef identifies a spec inside a confirmation.
type SpecRef struct {
	Name      string               `yaml:"name"`
	SessionID string               `yaml:"session_id"`
	Status    status.OverallStatus `yaml:"status"`
	Stage     status.Stage         `yaml:"stage"`
	Updated   string               `yaml:"updated"`
}

// UpdateData is the payload of a status_update envelope.
type UpdateData struct {
	Action         string          `yaml:"action"`
	Spec           SpecRef         `yaml:"spec"`
	ChangesApplied []AppliedChange `yaml:"changes_applied"`
	Notes          *string         `yaml:"notes"`
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("vibedev_specs_update_status",
		mcp.WithDescription(
			"Update a spec's overall status, current stage, completed task count or notes. "+
				"At least one field is required. Returns a YAML document (type: status_update).",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier"),
		),
		mcp.WithString("status",
			mcp.Description("New overall status"),
			mcp.Enum("in_progress", "completed", "archived", "paused"),
		),
		mcp.WithString("stage",
			mcp.Description("Move forward to this stage; earlier stages become done. Done stages cannot be reopened: goal, requirements (req), design, tasks, execution (exec)"),
		),
		mcp.WithNumber("task_completed",
			mcp.Description("Number of completed tasks, a whole number between 0 and the recorded task total"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes. An empty string clears them."),
		),
	)
}

// Handle processes the vibedev_specs_update_status tool call.
func (t *UpdateStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sid, errRes := requireString(req, "session_id", "")
	if errRes != nil {
		return errRes, nil
	}

	change := status.Change{
		Status: req.GetString("status", ""),
		Stage:  req.GetString("stage", ""),
	}
	n, errRes := intArg(req, "task_completed", sid)
	if errRes != nil {
		return errRes, nil
	}
	change.TaskCompleted = n
	if notes, ok := stringArg(req, "notes"); ok {
		change.Notes = notes
	}

	rec, err := t.manager.Apply(sid, change)
	if err != nil {
		return errorResult(err, sid, "Check the parameters and try again"), nil
	}

	data := UpdateData{
		Action: "status_updated",
		Spec: SpecRef{
			Name:      rec.Name,
			SessionID: rec.SessionID,
			Status:    rec.OverallStatus,
			Stage:     rec.Stage,
			Updated:   rec.Updated,
		},
		ChangesApplied: appliedChanges(change, rec),
	}
	if rec.Notes != "" {
		data.Notes = &rec.Notes
	}
	return envelopeResult(TypeStatusUpdate, data, sid)
}

func appliedChanges(c status.Change, rec *status.Record) []AppliedChange {
	var out []AppliedChange
	if c.Status != "" {
		out = append(out, AppliedChange{Field: "status", Value: string(rec.OverallStatus)})
	}
	if c.Stage != "" {
		out = append(out, AppliedChange{Field: "stage", Value: string(rec.Stage)})
	}
	if c.TaskCompleted != nil {
		out = append(out, AppliedChange{
			Field: "tasks_completed",
			Value: fmt.Sprintf("%d/%d", *c.TaskCompleted, rec.StageProgress.Tasks.TotalTasks),
		})
	}
	if c.Notes != nil {
		v := *c.Notes
		if v == "" {
			v = "(cleared)"
		}
		out = append(out, AppliedChange{Field: "notes", Value: v})
	}
	return out
}
