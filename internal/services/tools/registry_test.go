package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investor-agent/investor-mcp/internal/domain"
)

// fakeTool is a minimal Tool with a canned schema and behavior.
type fakeTool struct {
	name    string
	execute func(ctx context.Context, args map[string]any) (any, error)
}

func (f *fakeTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        f.name,
		Description: "fake tool for tests",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ticker": map[string]any{"type": "string"},
				"count":  map[string]any{"type": "integer", "minimum": 1.0, "default": 5.0},
			},
			"required": []any{"ticker"},
		},
	}
}

func (f *fakeTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	if f.execute != nil {
		return f.execute(ctx, args)
	}
	return "ok", nil
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeTool{name: "alpha"}))

	err := r.Register(&fakeTool{name: "alpha"})
	require.Error(t, err)

	var dup *domain.DuplicateToolError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "alpha", dup.Name)
}

func TestListDefinitionsPreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(&fakeTool{name: name}))
	}

	defs := r.ListDefinitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "zeta", defs[0].Name)
	assert.Equal(t, "alpha", defs[1].Name)
	assert.Equal(t, "mid", defs[2].Name)
}

func TestDispatchUnknownTool(t *testing.T) {
	r := NewRegistry()
	_, err := r.Dispatch(context.Background(), "missing", nil)
	require.Error(t, err)

	var unknown *domain.UnknownToolError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Name)
}

func TestDispatchAppliesSchemaDefaults(t *testing.T) {
	var gotArgs map[string]any
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeTool{
		name: "echo",
		execute: func(ctx context.Context, args map[string]any) (any, error) {
			gotArgs = args
			return args, nil
		},
	}))

	result, err := r.Dispatch(context.Background(), "echo", map[string]any{"ticker": "AAPL"})
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Equal(t, "AAPL", gotArgs["ticker"])
	assert.Equal(t, 5.0, gotArgs["count"], "absent arguments take their schema defaults")
}

func TestDispatchExplicitArgumentBeatsDefault(t *testing.T) {
	var gotArgs map[string]any
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeTool{
		name: "echo",
		execute: func(ctx context.Context, args map[string]any) (any, error) {
			gotArgs = args
			return nil, nil
		},
	}))

	_, err := r.Dispatch(context.Background(), "echo", map[string]any{"ticker": "AAPL", "count": 9.0})
	require.NoError(t, err)
	assert.Equal(t, 9.0, gotArgs["count"])
}

func TestDispatchReportsAllViolations(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeTool{name: "strict"}))

	// Missing required ticker AND count below minimum: both violations
	// surface in one failure.
	result, err := r.Dispatch(context.Background(), "strict", map[string]any{"count": 0.0})
	require.NoError(t, err, "validation failures are envelopes, not errors")

	assert.False(t, result.Success)
	assert.Equal(t, domain.ErrorKindValidation, result.ErrorKind)
	assert.Contains(t, result.Error, "ticker")
	assert.Contains(t, result.Error, "count")
}

func TestDispatchWrapsExecutionFailure(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeTool{
		name: "broken",
		execute: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, &domain.NoDataError{Entity: "AAPL", Query: "whatever"}
		},
	}))

	result, err := r.Dispatch(context.Background(), "broken", map[string]any{"ticker": "AAPL"})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, domain.ErrorKindNoData, result.ErrorKind)
	assert.NotEmpty(t, result.RequestID)
	assert.Equal(t, "broken", result.ToolName)
}

func TestDispatchRecoversFromPanics(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeTool{
		name: "panicky",
		execute: func(ctx context.Context, args map[string]any) (any, error) {
			panic("boom")
		},
	}))

	result, err := r.Dispatch(context.Background(), "panicky", map[string]any{"ticker": "AAPL"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, domain.ErrorKindToolExecution, result.ErrorKind)
	assert.Contains(t, result.Error, "boom")
}

func TestDispatchIsolatesFailures(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeTool{
		name: "flaky",
		execute: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("exploded")
		},
	}))
	require.NoError(t, r.Register(&fakeTool{name: "steady"}))

	bad, err := r.Dispatch(context.Background(), "flaky", map[string]any{"ticker": "AAPL"})
	require.NoError(t, err)
	assert.False(t, bad.Success)

	good, err := r.Dispatch(context.Background(), "steady", map[string]any{"ticker": "AAPL"})
	require.NoError(t, err)
	assert.True(t, good.Success)
	assert.Equal(t, "ok", good.Data)
	assert.NotEqual(t, bad.RequestID, good.RequestID, "every dispatch gets its own request id")
}

func TestDispatchNilArgs(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeTool{name: "strict"}))

	result, err := r.Dispatch(context.Background(), "strict", nil)
	require.NoError(t, err)
	assert.False(t, result.Success, "nil args still fail required-field validation")
	assert.Equal(t, domain.ErrorKindValidation, result.ErrorKind)
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	r := NewRegistry()
	assert.Panics(t, func() {
		r.MustRegister(&fakeTool{name: "dup"}, &fakeTool{name: "dup"})
	})
}
