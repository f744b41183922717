package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/logger"
)

// Registry holds the registered tools and dispatches executions against
// them. Registration order is preserved for listings.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool under its declared name. Registering a second tool
// under an existing name is an error.
func (r *Registry) Register(tool Tool) error {
	def := tool.Definition()
	if def.Name == "" {
		return domain.NewInvalidArgument("tool definition has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[def.Name]; exists {
		return &domain.DuplicateToolError{Name: def.Name}
	}
	r.tools[def.Name] = tool
	r.order = append(r.order, def.Name)
	return nil
}

// MustRegister registers each tool, panicking on conflict. Intended for
// startup wiring where a duplicate name is a programming error.
func (r *Registry) MustRegister(tools ...Tool) {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// ListDefinitions returns every tool contract in registration order.
func (r *Registry) ListDefinitions() []domain.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]domain.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Dispatch validates args against the tool's parameter schema and executes
// it. All failures during validation and execution are reported inside the
// result envelope; the returned error is non-nil only when the tool name
// itself is unknown.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (*domain.ToolExecutionResult, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, &domain.UnknownToolError{Name: name}
	}

	def := tool.Definition()
	result := &domain.ToolExecutionResult{
		ToolName:  name,
		RequestID: uuid.NewString(),
	}
	start := time.Now()

	if args == nil {
		args = map[string]any{}
	}
	merged := applyDefaults(def.Parameters, args)

	if err := validateArgs(name, def.Parameters, merged); err != nil {
		return failed(result, start, err), nil
	}

	log := logger.With("tool", name, "request_id", result.RequestID)
	data, err := executeSafely(ctx, tool, merged)
	if err != nil {
		log.Debug("Tool execution failed", "error", err)
		return failed(result, start, err), nil
	}

	result.Success = true
	result.Data = data
	result.Duration = time.Since(start)
	log.Debug("Tool execution succeeded", "duration", result.Duration)
	return result, nil
}

func failed(result *domain.ToolExecutionResult, start time.Time, err error) *domain.ToolExecutionResult {
	result.Success = false
	result.Error = err.Error()
	result.ErrorKind = domain.ClassifyError(err)
	result.Duration = time.Since(start)
	return result
}

// validateArgs checks the merged arguments against the parameter schema
// and reports every violation, not just the first.
func validateArgs(toolName string, schema map[string]any, args map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	res, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(args),
	)
	if err != nil {
		return fmt.Errorf("schema validation for %s: %w", toolName, err)
	}
	if res.Valid() {
		return nil
	}

	violations := make([]string, 0, len(res.Errors()))
	for _, desc := range res.Errors() {
		violations = append(violations, desc.String())
	}
	return &domain.ValidationError{ToolName: toolName, Violations: violations}
}

// executeSafely runs the tool, converting a panic into an ordinary error
// so one misbehaving tool cannot take the server down.
func executeSafely(ctx context.Context, tool Tool, args map[string]any) (data any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("tool panicked: %v", rec)
		}
	}()
	return tool.Execute(ctx, args)
}
