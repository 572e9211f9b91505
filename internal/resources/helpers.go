package resources

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yinwm/vibedevtools/internal/status"
)

// errorResource returns a resource carrying an error message and, for
// status errors, its remediation hint.
func errorResource(uri string, err error) []mcp.ResourceContents {
	text := fmt.Sprintf("Error: %v", err)
	if hint := status.HintOf(err); hint != "" {
		text += "\nHint: " + hint
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     text,
		},
	}
}
