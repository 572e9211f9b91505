package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yinwm/vibedevtools/internal/checklist"
	"github.com/yinwm/vibedevtools/internal/logger"
	"github.com/yinwm/vibedevtools/internal/status"
)

// GetStatusTool handles the vibedev_specs_get_status MCP tool.
type GetStatusTool struct {
	manager *status.Manager
}

// NewGetStatusTool creates a GetStatusTool.
func NewGetStatusTool(m *status.Manager) *GetStatusTool {
	return &GetStatusTool{manager: m}
}

// TaskProgress summarizes tasks.md inside a spec_detail envelope.
type TaskProgress struct {
	Total      int                       `yaml:"total"`
	Completed  int                       `yaml:"completed"`
	Percentage int                       `yaml:"percentage"`
	Current    *checklist.Item           `yaml:"current_task,omitempty"`
	Upcoming   []*checklist.Item         `yaml:"next_tasks"`
	Details    checklist.ProgressDetails `yaml:"details"`
}

// DetailData is the payload of a spec_detail envelope.
type DetailData struct {
	Spec         *status.Record   `yaml:"spec"`
	TaskProgress *TaskProgress    `yaml:"task_progress"`
	FileSizes    map[string]int64 `yaml:"file_sizes"`
}

// Definition returns the MCP tool definition for registration.
func (t *GetStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("vibedev_specs_get_status",
		mcp.WithDescription(
			"Show the full status of one spec: stage progress, task progress "+
				"parsed from tasks.md, and document sizes. Returns a YAML document (type: spec_detail).",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier"),
		),
		mcp.WithString("feature_name",
			mcp.Description("Optional: feature name to verify against the session"),
		),
	)
}

// Handle processes the vibedev_specs_get_status tool call.
func (t *GetStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sid, errRes := requireString(req, "session_id", "")
	if errRes != nil {
		return errRes, nil
	}
	featureName := req.GetString("feature_name", "")

	rec, err := t.manager.LoadChecked(sid, featureName)
	if err != nil {
		return errorResult(err, sid, "Use 'vibedev_specs_list' to see all available specs"), nil
	}

	data := DetailData{Spec: rec, FileSizes: map[string]int64{}}

	if rec.Stage == status.StageTasks || rec.Stage == status.StageExecution {
		res, err := t.manager.TaskProgress(rec.Name)
		switch {
		case err == nil:
			data.TaskProgress = &TaskProgress{
				Total:      res.Total,
				Completed:  res.Completed,
				Percentage: res.Percentage,
				Current:    res.Current,
				Upcoming:   res.Upcoming,
				Details:    checklist.Details(res),
			}
		case status.IsKind(err, status.KindNotFound):
			// No tasks.md yet: no progress to report.
		default:
			logger.Warn("task progress for %s: %v", rec.Name, err)
		}
	}

	docs, err := t.manager.Store().Deliverables(rec.Name)
	if err != nil {
		return errorResult(err, sid, "Check the project directory permissions"), nil
	}
	for _, d := range docs {
		data.FileSizes[d.File] = d.Size
	}

	return envelopeResult(TypeSpecDetail, data, sid)
}
