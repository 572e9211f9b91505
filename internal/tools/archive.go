package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yinwm/vibedevtools/internal/status"
)

// ArchiveTool handles the vibedev_specs_archive MCP tool.
type ArchiveTool struct {
	manager *status.Manager
}

// NewArchiveTool creates an ArchiveTool.
func NewArchiveTool(m *status.Manager) *ArchiveTool {
	return &ArchiveTool{manager: m}
}

// ArchiveSpec describes the status transition in an archive_action envelope.
type ArchiveSpec struct {
	Name           string               `yaml:"name"`
	SessionID      string               `yaml:"session_id"`
	PreviousStatus status.OverallStatus `yaml:"previous_status"`
	NewStatus      status.OverallStatus `yaml:"new_status"`
	Stage          status.Stage         `yaml:"stage"`
}

// ArchiveData is the payload of an archive_action envelope.
type ArchiveData struct {
	Action    string      `yaml:"action"`
	Spec      ArchiveSpec `yaml:"spec"`
	Timestamp string      `yaml:"timestamp"`
	Notes     []string    `yaml:"notes"`
}

// Definition returns the MCP tool definition for registration.
func (t *ArchiveTool) Definition() mcp.Tool {
	return mcp.NewTool("vibedev_specs_archive",
		mcp.WithDescription(
			"Archive a spec or restore an archived one. Restoring returns the spec "+
				"to the status it had before archiving. Returns a YAML document (type: archive_action).",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier"),
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("'archive' or 'restore'"),
			mcp.Enum("archive", "restore"),
		),
	)
}

// Handle processes the vibedev_specs_archive tool call.
func (t *ArchiveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sid, errRes := requireString(req, "session_id", "")
	if errRes != nil {
		return errRes, nil
	}
	action, errRes := requireString(req, "action", sid)
	if errRes != nil {
		return errRes, nil
	}
	if action != "archive" && action != "restore" {
		return invalidArgs(
			fmt.Sprintf("Invalid action: %s", action),
			"Use action 'archive' or 'restore'",
			sid,
		), nil
	}

	before, err := t.manager.Load(sid)
	if err != nil {
		return errorResult(err, sid, "Check if the session ID is correct"), nil
	}

	var rec *status.Record
	if action == "archive" {
		rec, err = t.manager.Archive(sid)
	} else {
		rec, err = t.manager.Restore(sid)
	}
	if err != nil {
		return errorResult(err, sid, "Check if the session ID is correct"), nil
	}

	data := ArchiveData{
		Action: action,
		Spec: ArchiveSpec{
			Name:           rec.Name,
			SessionID:      rec.SessionID,
			PreviousStatus: before.OverallStatus,
			NewStatus:      rec.OverallStatus,
			Stage:          rec.Stage,
		},
		Timestamp: rec.Updated,
	}
	if action == "archive" {
		data.Notes = []string{
			"Archived specs are excluded from the in_progress list view",
			"Use status_filter: \"archived\" to see archived specs",
			"All documents and data are preserved",
			"You can restore this spec at any time",
		}
	} else {
		data.Notes = []string{
			fmt.Sprintf("The spec is %s again", rec.OverallStatus),
			"You can continue working from where you left off",
			fmt.Sprintf("Current stage: %s", rec.Stage),
		}
	}
	return envelopeResult(TypeArchiveAction, data, sid)
}
