package domain

import "time"

// ToolDefinition describes an available tool: its stable name, a
// human-readable description used for discovery, and statically declared
// JSON-schema maps for the accepted parameters and the returned payload.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
	Output      map[string]any `json:"output"`
}

// ToolExecutionResult is the uniform envelope returned for every tool
// invocation: either a successful payload or a classified failure. Nothing
// else crosses the dispatch boundary.
type ToolExecutionResult struct {
	ToolName  string        `json:"tool_name"`
	RequestID string        `json:"request_id"`
	Success   bool          `json:"success"`
	Duration  time.Duration `json:"duration"`
	Data      any           `json:"data,omitempty"`
	Error     string        `json:"error,omitempty"`
	ErrorKind ErrorKind     `json:"error_kind,omitempty"`
}
