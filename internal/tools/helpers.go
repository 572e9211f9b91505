// Package tools implements the MCP tool handlers of the specs workflow.
//
// Each tool is a struct that receives its dependencies through its
// constructor and exposes Definition and Handle for registration with
// mcp-go. Status reads and writes go through *status.Manager only.
//
// Guidance tools answer with markdown. List, detail, update and archive
// tools answer with a YAML envelope that hosts can detect and format:
//
//	vibespec_format: v1
//	type: spec_list | spec_detail | status_update | archive_action | error
//	data: ...
//	metadata: {timestamp, session_id}
package tools

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/yinwm/vibedevtools/internal/logger"
	"github.com/yinwm/vibedevtools/internal/status"
)

// ContentType selects how a host should format an envelope.
type ContentType string

const (
	TypeSpecList      ContentType = "spec_list"
	TypeSpecDetail    ContentType = "spec_detail"
	TypeStatusUpdate  ContentType = "status_update"
	TypeArchiveAction ContentType = "archive_action"
	TypeError         ContentType = "error"
)

// FormatVersion identifies the envelope layout.
const FormatVersion = "v1"

// Envelope is the structured response document.
type Envelope struct {
	Format   string      `yaml:"vibespec_format"`
	Type     ContentType `yaml:"type"`
	Data     any         `yaml:"data"`
	Metadata Metadata    `yaml:"metadata"`
}

// Metadata accompanies every envelope.
type Metadata struct {
	Timestamp string `yaml:"timestamp"`
	SessionID string `yaml:"session_id,omitempty"`
}

// ErrorData is the payload of a type: error envelope.
type ErrorData struct {
	Message    string `yaml:"message"`
	Code       string `yaml:"code"`
	Suggestion string `yaml:"suggestion"`
}

const codeInternal = "INTERNAL_ERROR"

// timeNow is swapped in tests.
var timeNow = time.Now

func newEnvelope(typ ContentType, data any, sessionID string) Envelope {
	return Envelope{
		Format: FormatVersion,
		Type:   typ,
		Data:   data,
		Metadata: Metadata{
			Timestamp: timeNow().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			SessionID: sessionID,
		},
	}
}

func renderEnvelope(env Envelope) (string, error) {
	out, err := yaml.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("marshaling %s response: %w", env.Type, err)
	}
	return string(out), nil
}

// envelopeResult renders a success envelope as a text result.
func envelopeResult(typ ContentType, data any, sessionID string) (*mcp.CallToolResult, error) {
	text, err := renderEnvelope(newEnvelope(typ, data, sessionID))
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(text), nil
}

// errorResult renders err as a type: error envelope. Status errors carry
// their own code and hint; anything else gets the fallback suggestion.
func errorResult(err error, sessionID, fallbackHint string) *mcp.CallToolResult {
	data := ErrorData{
		Message:    err.Error(),
		Code:       codeInternal,
		Suggestion: fallbackHint,
	}
	if kind := status.KindOf(err); kind != "" {
		data.Code = string(kind)
		data.Suggestion = status.HintOf(err)
	}
	return errorEnvelope(data, sessionID)
}

// invalidArgs reports a missing or malformed tool argument.
func invalidArgs(message, suggestion, sessionID string) *mcp.CallToolResult {
	return errorEnvelope(ErrorData{
		Message:    message,
		Code:       string(status.KindInvalidParameters),
		Suggestion: suggestion,
	}, sessionID)
}

func errorEnvelope(data ErrorData, sessionID string) *mcp.CallToolResult {
	logger.Debug("tool error %s: %s", data.Code, data.Message)
	text, err := renderEnvelope(newEnvelope(TypeError, data, sessionID))
	if err != nil {
		return mcp.NewToolResultError(data.Message)
	}
	return mcp.NewToolResultError(text)
}

// requireString returns a trimmed, non-empty string argument, or an error
// result naming the argument.
func requireString(req mcp.CallToolRequest, key, sessionID string) (string, *mcp.CallToolResult) {
	v := strings.TrimSpace(req.GetString(key, ""))
	if v == "" {
		return "", invalidArgs(
			fmt.Sprintf("'%s' is required", key),
			fmt.Sprintf("Provide the %s parameter", key),
			sessionID,
		)
	}
	return v, nil
}

// intArg extracts an optional whole-number argument. It returns nil when
// the key is absent, and an error result when the value is not a whole
// number that fits in an int (JSON numbers arrive as float64).
func intArg(req mcp.CallToolRequest, key, sessionID string) (*int, *mcp.CallToolResult) {
	raw, present := req.GetArguments()[key]
	if !present || raw == nil {
		return nil, nil
	}
	v, ok := raw.(float64)
	if !ok || v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return nil, invalidArgs(
			fmt.Sprintf("'%s' must be a whole number, got %v", key, raw),
			fmt.Sprintf("Pass %s as an integer such as 0, 1 or 2", key),
			sessionID,
		)
	}
	n := int(v)
	return &n, nil
}

// stringArg extracts an optional string argument, telling "absent" apart
// from "empty".
func stringArg(req mcp.CallToolRequest, key string) (*string, bool) {
	v, ok := req.GetArguments()[key].(string)
	if !ok {
		return nil, false
	}
	return &v, true
}

var stageLabels = map[status.Stage]string{
	status.StageGoal:         "Goal Collection",
	status.StageRequirements: "Requirements Gathering",
	status.StageDesign:       "Design Documentation",
	status.StageTasks:        "Task Planning",
	status.StageExecution:    "Task Execution",
}

// stageHeading renders "Requirements Gathering (2/5)".
func stageHeading(s status.Stage) string {
	return fmt.Sprintf("%s (%d/%d)", stageLabels[s], s.Index()+1, len(status.Stages))
}

// workflowProgress renders the five-stage checklist with current marked.
// Stages before current are checked.
func workflowProgress(current status.Stage, marker string) string {
	var b strings.Builder
	b.WriteString("### Workflow Progress:\n")
	for i, s := range status.Stages {
		label := stageLabels[s]
		switch {
		case i < current.Index():
			fmt.Fprintf(&b, "- [x] %d. %s ✅\n", i+1, label)
		case s == current:
			fmt.Fprintf(&b, "- [ ] %d. **%s** ← %s\n", i+1, label, marker)
		default:
			fmt.Fprintf(&b, "- [ ] %d. %s\n", i+1, label)
		}
	}
	return b.String()
}

func sessionFooter(sessionID, name string) string {
	s := fmt.Sprintf("**Session Information**:\n- Session ID: `%s`\n", sessionID)
	if name != "" {
		s += fmt.Sprintf("- Feature Name: `%s`\n", name)
	}
	return s
}
