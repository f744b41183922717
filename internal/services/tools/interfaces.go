package tools

import (
	"context"

	"github.com/investor-agent/investor-mcp/internal/domain"
)

// Tool is one executable capability exposed over the server. Execute
// receives arguments already validated against the tool's parameter
// schema, with declared defaults applied.
type Tool interface {
	// Definition returns the tool contract: name, description, and JSON
	// schemas for parameters and output.
	Definition() domain.ToolDefinition

	// Execute runs the tool and returns its result payload.
	Execute(ctx context.Context, args map[string]any) (any, error)
}
