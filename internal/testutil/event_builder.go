package testutil

import (
	"github.com/hupe1980/folio/core"
)

// StreamBuilder provides a fluent helper for constructing event streams in tests.
// Example:
//
//	events := NewStreamBuilder().StepStart("msg-1").Text("hi").StepFinish("stop", false).Finish("stop").Channel()
//
// Chain only the events you need; each call appends one event.
type StreamBuilder struct {
	events []core.StreamEvent
	usage  core.Usage
}

// NewStreamBuilder creates an empty builder.
func NewStreamBuilder() *StreamBuilder { return &StreamBuilder{} }

// Usage sets the usage attached to subsequent finish events (chainable).
func (b *StreamBuilder) Usage(prompt, completion int) *StreamBuilder {
	b.usage = core.Usage{PromptTokens: prompt, CompletionTokens: completion}
	return b
}

// StepStart appends a step start carrying messageID (chainable).
func (b *StreamBuilder) StepStart(messageID string) *StreamBuilder {
	ev := core.NewStreamEvent(core.EventStepStart)
	ev.MessageID = messageID
	b.events = append(b.events, ev)
	return b
}

// Text appends a text delta (chainable).
func (b *StreamBuilder) Text(t string) *StreamBuilder {
	b.events = append(b.events, core.NewTextDeltaEvent(t))
	return b
}

// ToolCallStart appends a tool call announcement (chainable).
func (b *StreamBuilder) ToolCallStart(id, name string) *StreamBuilder {
	b.events = append(b.events, core.NewToolCallEvent(core.EventToolCallStart, core.FunctionCall{ID: id, Name: name}))
	return b
}

// ToolCallDelta appends an argument fragment (chainable).
func (b *StreamBuilder) ToolCallDelta(id, name, fragment string) *StreamBuilder {
	b.events = append(b.events, core.NewToolCallEvent(core.EventToolCallDelta, core.FunctionCall{ID: id, Name: name, Arguments: fragment}))
	return b
}

// ToolCall appends a complete tool call (chainable).
func (b *StreamBuilder) ToolCall(id, name, args string) *StreamBuilder {
	b.events = append(b.events, core.NewToolCallEvent(core.EventToolCall, core.FunctionCall{ID: id, Name: name, Arguments: args}))
	return b
}

// ToolResult appends a tool result; a non-nil err marks it failed (chainable).
func (b *StreamBuilder) ToolResult(id, name string, result any, err error) *StreamBuilder {
	b.events = append(b.events, core.NewToolResultEvent(id, name, result, err))
	return b
}

// StepFinish appends a step finish (chainable).
func (b *StreamBuilder) StepFinish(reason string, continued bool) *StreamBuilder {
	ev := core.NewStreamEvent(core.EventStepFinish)
	ev.FinishReason = reason
	ev.Usage = b.usage
	ev.Continued = continued
	b.events = append(b.events, ev)
	return b
}

// Finish appends the terminal finish event (chainable).
func (b *StreamBuilder) Finish(reason string) *StreamBuilder {
	ev := core.NewStreamEvent(core.EventFinish)
	ev.FinishReason = reason
	ev.Usage = b.usage
	b.events = append(b.events, ev)
	return b
}

// Error appends a terminal error event (chainable).
func (b *StreamBuilder) Error(err error) *StreamBuilder {
	b.events = append(b.events, core.NewErrorEvent(err))
	return b
}

// Build returns a copy of the accumulated events.
func (b *StreamBuilder) Build() []core.StreamEvent {
	return append([]core.StreamEvent(nil), b.events...)
}

// Channel returns a closed, buffered channel holding the events.
func (b *StreamBuilder) Channel() <-chan core.StreamEvent {
	ch := make(chan core.StreamEvent, len(b.events))
	for _, ev := range b.events {
		ch <- ev
	}
	close(ch)
	return ch
}
