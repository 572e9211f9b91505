package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yinwm/vibedevtools/internal/journal"
	"github.com/yinwm/vibedevtools/internal/status"
)

// HistoryReader reads recorded status changes.
type HistoryReader interface {
	History(sessionID string, limit int) ([]journal.Entry, error)
}

// HistoryTool handles the vibedev_specs_history MCP tool.
// It is only registered when the journal is enabled.
type HistoryTool struct {
	manager *status.Manager
	journal HistoryReader
}

// NewHistoryTool creates a HistoryTool.
func NewHistoryTool(m *status.Manager, j HistoryReader) *HistoryTool {
	return &HistoryTool{manager: m, journal: j}
}

// HistoryData is the spec_detail payload of a history query.
type HistoryData struct {
	SessionID string          `yaml:"session_id"`
	Name      string          `yaml:"name"`
	Count     int             `yaml:"count"`
	Events    []journal.Entry `yaml:"events"`
}

// Definition returns the MCP tool definition for registration.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("vibedev_specs_history",
		mcp.WithDescription(
			"Show the recorded status changes of a spec, newest first: creation, rename, "+
				"stage confirmations, updates, archive and restore. Returns a YAML document (type: spec_detail).",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier"),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum number of events (default: %d)", journal.DefaultHistoryLimit)),
		),
	)
}

// Handle processes the vibedev_specs_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sid, errRes := requireString(req, "session_id", "")
	if errRes != nil {
		return errRes, nil
	}
	n, errRes := intArg(req, "limit", sid)
	if errRes != nil {
		return errRes, nil
	}
	limit := 0
	if n != nil {
		limit = *n
	}

	name, err := t.manager.Resolve(sid)
	if err != nil {
		return errorResult(err, sid, "Use 'vibedev_specs_list' to see all available specs"), nil
	}

	events, err := t.journal.History(sid, limit)
	if err != nil {
		return errorResult(err, sid, "Check that the journal database is readable"), nil
	}

	return envelopeResult(TypeSpecDetail, HistoryData{
		SessionID: sid,
		Name:      name,
		Count:     len(events),
		Events:    events,
	}, sid)
}
