// Package tool implements the canned capabilities a chat model may invoke.
// Tools take no arguments, have no side effects and return a short string or a
// one-field object that the model turns into prose for the visitor.
package tool

import (
	"context"
	"fmt"
)

// Tool defines a named capability exposed to the model via function calling.
//
// Implementations must be safe for concurrent use and idempotent: the same
// call always yields the same result. Arguments sent by the model are ignored.
type Tool interface {
	// Name returns the unique identifier the model uses to call this tool.
	Name() string

	// Description returns a human-readable description provided to the LLM to
	// help it decide when to use the tool.
	Description() string

	// Parameters returns the JSON schema advertised for the tool input.
	Parameters() map[string]any

	// Execute runs the tool. The returned value is JSON-serializable.
	Execute(ctx context.Context) (any, error)
}

// Error codes attached to ToolError.
const (
	CodeExecution = "EXECUTION_ERROR"
	CodePanic     = "PANIC"
	CodeNotFound  = "TOOL_NOT_FOUND"
)

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

// PermissiveSchema returns a JSON schema that accepts any object.
func PermissiveSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           map[string]any{},
		"additionalProperties": true,
	}
}
