package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
)

// EventType discriminates the variants of StreamEvent.
type EventType string

const (
	// EventStepStart opens a model step (one upstream completion call).
	EventStepStart EventType = "step_start"
	// EventTextDelta carries an incremental chunk of assistant text.
	EventTextDelta EventType = "text_delta"
	// EventToolCallStart announces a tool call before its arguments are complete.
	EventToolCallStart EventType = "tool_call_start"
	// EventToolCallDelta carries an incremental chunk of tool call arguments.
	EventToolCallDelta EventType = "tool_call_delta"
	// EventToolCall carries a complete tool call.
	EventToolCall EventType = "tool_call"
	// EventToolResult carries the outcome of an executed tool call.
	EventToolResult EventType = "tool_result"
	// EventStepFinish closes a model step.
	EventStepFinish EventType = "step_finish"
	// EventFinish terminates a successful stream.
	EventFinish EventType = "finish"
	// EventError terminates a failed stream.
	EventError EventType = "error"
)

// Usage captures token accounting for a step or a whole response.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
}

// Add returns the element-wise sum of two usages.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		PromptTokens:     u.PromptTokens + o.PromptTokens,
		CompletionTokens: u.CompletionTokens + o.CompletionTokens,
	}
}

// StreamEvent is one element of a streamed chat response. Only the fields
// relevant to Type are populated. Events are delivered in the order the
// upstream provider produced them and must be treated as immutable.
type StreamEvent struct {
	Type         EventType         `json:"type"`
	MessageID    string            `json:"messageId,omitempty"`
	Text         string            `json:"text,omitempty"`
	ToolCall     *FunctionCall     `json:"toolCall,omitempty"`
	ToolResult   *FunctionResponse `json:"toolResult,omitempty"`
	FinishReason string            `json:"finishReason,omitempty"`
	Usage        Usage             `json:"usage"`
	Continued    bool              `json:"isContinued,omitempty"`
	Err          error             `json:"-"`
	Timestamp    time.Time         `json:"timestamp"`
}

// NewStreamEvent creates a bare event of the given type stamped with the current UTC time.
func NewStreamEvent(t EventType) StreamEvent {
	return StreamEvent{Type: t, Timestamp: time.Now().UTC()}
}

// NewTextDeltaEvent wraps an assistant text chunk.
func NewTextDeltaEvent(text string) StreamEvent {
	e := NewStreamEvent(EventTextDelta)
	e.Text = text
	return e
}

// NewToolCallEvent wraps a tool call of the given type (start, delta or complete).
// For EventToolCallDelta the Arguments field holds only the new fragment.
func NewToolCallEvent(t EventType, call FunctionCall) StreamEvent {
	e := NewStreamEvent(t)
	e.ToolCall = &call
	return e
}

// NewToolResultEvent records the completion result (or error) of a tool invocation.
// If err is non-nil its message is copied into the response Error field.
func NewToolResultEvent(id, name string, result any, err error) StreamEvent {
	e := NewStreamEvent(EventToolResult)
	fr := FunctionResponse{ID: id, Name: name, Response: result}
	if err != nil {
		fr.Error = err.Error()
	}
	e.ToolResult = &fr
	return e
}

// NewErrorEvent wraps a terminal failure.
func NewErrorEvent(err error) StreamEvent {
	e := NewStreamEvent(EventError)
	e.Err = err
	return e
}

// IsTerminal reports whether no further events follow this one.
func (e StreamEvent) IsTerminal() bool {
	return e.Type == EventFinish || e.Type == EventError
}

// ErrorMessage returns the message of an error event, or "" for other types.
func (e StreamEvent) ErrorMessage() string {
	if e.Type != EventError || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// NewID generates a new unique identifier for messages and requests.
func NewID() string { return uuid.NewString() }

// NewCallID generates a compact tool call identifier ("call_" + short uuid).
func NewCallID() string { return "call_" + shortuuid.New() }
