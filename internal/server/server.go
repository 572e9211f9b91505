// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on them.
// No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/yinwm/vibedevtools/internal/config"
	"github.com/yinwm/vibedevtools/internal/fs"
	"github.com/yinwm/vibedevtools/internal/journal"
	"github.com/yinwm/vibedevtools/internal/logger"
	"github.com/yinwm/vibedevtools/internal/prompts"
	"github.com/yinwm/vibedevtools/internal/resources"
	"github.com/yinwm/vibedevtools/internal/status"
	"github.com/yinwm/vibedevtools/internal/tools"
)

// Name is the MCP server name announced to clients.
const Name = "vibedev-specs"

// Version is set at build time via ldflags.
var Version = "dev"

// tool is what every handler in internal/tools exposes.
type tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the journal database and must be
// called on shutdown (typically via defer). It is always non-nil and safe
// to call even if the journal is disabled or failed to open.
func New(cfg *config.Config) (*server.MCPServer, func(), error) {
	if cfg == nil {
		return nil, noop, fmt.Errorf("server: nil config")
	}

	// --- Create shared dependencies ---

	manager := status.NewManager(status.NewFileStore(cfg.SpecsDir, fs.NewReal()))

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register workflow tools ---

	for _, t := range []tool{
		tools.NewWorkflowStartTool(manager),
		tools.NewGoalConfirmedTool(manager),
		tools.NewRequirementsStartTool(manager),
		tools.NewRequirementsConfirmedTool(manager),
		tools.NewDesignStartTool(manager),
		tools.NewDesignConfirmedTool(manager),
		tools.NewTasksStartTool(manager),
		tools.NewTasksConfirmedTool(manager),
		tools.NewExecuteStartTool(manager),
		tools.NewListTool(manager),
		tools.NewGetStatusTool(manager),
		tools.NewUpdateStatusTool(manager),
		tools.NewArchiveTool(manager),
		tools.NewValidateTasksTool(manager),
	} {
		s.AddTool(t.Definition(), t.Handle)
	}

	// --- Journal ---
	//
	// The journal is an independent subsystem: if it fails to open, the
	// workflow keeps working without history. It observes every committed
	// status write; the history tool exists only when it is available.

	cleanup := noop
	if cfg.Journal {
		j, err := journal.Open(cfg.ResolvedJournalPath())
		if err != nil {
			logger.Warn("journal disabled: %v", err)
		} else {
			cleanup = func() {
				if err := j.Close(); err != nil {
					logger.Warn("journal close: %v", err)
				}
			}
			manager.SetObserver(j)
			history := tools.NewHistoryTool(manager, j)
			s.AddTool(history.Definition(), history.Handle)
		}
	}

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(manager)
	s.AddResource(resourceHandler.IndexResource(), resourceHandler.HandleIndex)

	logger.Info("server ready: specs dir %s, journal %t", cfg.SpecsDir, cfg.Journal)
	return s, cleanup, nil
}

// noop is the default cleanup when the journal is disabled.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to drive the workflow.
func serverInstructions() string {
	return `You have access to vibedev-specs, a spec-driven development workflow server.

## When to use it
Suggest the workflow when the user wants to build a new feature or a major
enhancement. Skip it for bug fixes, small patches and questions.

## Workflow
Five sequential stages, each with a start tool and a confirmation tool:
1. GOAL: vibedev_specs_workflow_start, then vibedev_specs_goal_confirmed
2. REQUIREMENTS: vibedev_specs_requirements_start, write requirements.md, vibedev_specs_requirements_confirmed
3. DESIGN: vibedev_specs_design_start, write design.md, vibedev_specs_design_confirmed
4. TASKS: vibedev_specs_tasks_start, write tasks.md, vibedev_specs_tasks_confirmed
5. EXECUTION: vibedev_specs_execute_start, then report progress with vibedev_specs_update_status

## Rules
- Keep the session_id from vibedev_specs_workflow_start and pass it to every later tool.
- YOU write the documents; the tools record progress and tell you where files go.
- Never call a _confirmed tool before the user explicitly approves that stage.
- A confirmation fails until its document exists on disk.
- tasks.md is a markdown checklist ("- [ ] task", "- [x] done"); nest subtasks by two spaces.

## Status tools
vibedev_specs_list, vibedev_specs_get_status, vibedev_specs_update_status,
vibedev_specs_archive, vibedev_specs_validate_tasks and vibedev_specs_history
return YAML documents with vibespec_format: v1. Present their data to the user
in readable form; on type: error, show data.message and follow data.suggestion.`
}
