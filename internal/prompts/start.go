// Package prompts implements the MCP prompts of the specs workflow.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the vibedev-start MCP prompt.
// It guides the AI into a new specs workflow.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("vibedev-start",
		mcp.WithPromptDescription(
			"Start a new specs workflow: goal, requirements, design, tasks, then execution.",
		),
		mcp.WithArgument("idea",
			mcp.ArgumentDescription("Optional one-line description of the feature you want to build"),
		),
	)
}

// Handle processes the vibedev-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	idea := ""
	if args := req.Params.Arguments; args != nil {
		idea = args["idea"]
	}

	opening := "Ask me what feature I want to build."
	if idea != "" {
		opening = fmt.Sprintf("My feature idea: %s", idea)
	}

	return &mcp.GetPromptResult{
		Description: "Start a specs workflow",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"I want to develop a feature with the specs workflow.\n\n" +
						"Please:\n" +
						"1. Run `vibedev_specs_workflow_start` and keep the session_id it returns\n" +
						"2. Discuss the goal with me until I confirm it, then run `vibedev_specs_goal_confirmed`\n" +
						"3. Walk me through requirements, design and tasks; write each document and wait for my approval before its `_confirmed` tool\n" +
						"4. Execute the tasks one at a time with `vibedev_specs_execute_start`\n\n" +
						opening,
				),
			},
		},
	}, nil
}
