package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the vibedev-status MCP prompt.
// It instructs the AI to present the state of the specs.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("vibedev-status",
		mcp.WithPromptDescription(
			"Show the specs in this project, their stages and task progress, and what to do next.",
		),
		mcp.WithArgument("session_id",
			mcp.ArgumentDescription("Optional: focus on one spec"),
		),
	)
}

// Handle processes the vibedev-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	text := "Please run `vibedev_specs_list` to see my specs.\n\n" +
		"Then:\n" +
		"1. Show them in a table: name, status, stage, last update\n" +
		"2. For specs in progress, run `vibedev_specs_get_status` and summarize task progress\n" +
		"3. Tell me exactly what I should do next"

	if args := req.Params.Arguments; args != nil && args["session_id"] != "" {
		text = "Please run `vibedev_specs_get_status` with session_id `" + args["session_id"] + "`.\n\n" +
			"Then:\n" +
			"1. Show the stage progress and the current task\n" +
			"2. Highlight anything blocking, including notes\n" +
			"3. Tell me exactly what I should do next"
	}

	return &mcp.GetPromptResult{
		Description: "Specs Status",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(text),
			},
		},
	}, nil
}
