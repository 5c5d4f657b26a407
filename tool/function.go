package tool

import (
	"context"
	"errors"
)

// FunctionTool exposes a plain Go function as a Tool.
//
// A FunctionTool has no mutable state after construction and is safe for
// concurrent use. Errors returned by fn are normalized to *ToolError: an
// existing *ToolError is forwarded unchanged, anything else becomes
// CodeExecution.
type FunctionTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(ctx context.Context) (any, error)
}

// NewFunctionTool constructs a FunctionTool with a permissive input schema.
//
// Example:
//
//	skills := NewFunctionTool(
//	  "getSkills",
//	  "Show the skills section.",
//	  func(ctx context.Context) (any, error) {
//	    return "You can see all my skills above.", nil
//	  },
//	)
func NewFunctionTool(name, description string, fn func(ctx context.Context) (any, error)) *FunctionTool {
	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  PermissiveSchema(),
		fn:          fn,
	}
}

// NewStaticTool returns a tool that always answers with result.
func NewStaticTool(name, description string, result any) *FunctionTool {
	return NewFunctionTool(name, description, func(context.Context) (any, error) {
		return result, nil
	})
}

// Name returns the unique tool name used in function call declarations and routing.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the JSON schema describing the (ignored) arguments.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Execute invokes the wrapped function.
func (t *FunctionTool) Execute(ctx context.Context) (any, error) {
	result, err := t.fn(ctx)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			return nil, toolErr
		}
		return nil, &ToolError{
			Tool:    t.name,
			Message: err.Error(),
			Code:    CodeExecution,
		}
	}
	return result, nil
}
