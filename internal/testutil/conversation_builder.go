package testutil

import (
	"encoding/json"
	"fmt"
)

// ConversationBuilder helps construct chat request bodies with fluent chaining.
// Example:
//
//	body := NewConversationBuilder().User("hi").Assistant("hello").JSON()
type ConversationBuilder struct {
	messages []map[string]any
}

// NewConversationBuilder creates an empty conversation.
func NewConversationBuilder() *ConversationBuilder { return &ConversationBuilder{} }

// User appends a visitor message (chainable).
func (b *ConversationBuilder) User(text string) *ConversationBuilder {
	return b.add("user", text, nil)
}

// Assistant appends an assistant message (chainable).
func (b *ConversationBuilder) Assistant(text string) *ConversationBuilder {
	return b.add("assistant", text, nil)
}

// AssistantTool appends an assistant message carrying one finished tool invocation (chainable).
func (b *ConversationBuilder) AssistantTool(text, toolCallID, toolName string, result any) *ConversationBuilder {
	return b.add("assistant", text, []map[string]any{{
		"toolCallId": toolCallID,
		"toolName":   toolName,
		"args":       map[string]any{},
		"result":     result,
		"state":      "result",
	}})
}

// Users appends n numbered visitor messages "msg-0" .. "msg-(n-1)" (chainable).
func (b *ConversationBuilder) Users(n int) *ConversationBuilder {
	for i := 0; i < n; i++ {
		b.User(fmt.Sprintf("msg-%d", i))
	}
	return b
}

func (b *ConversationBuilder) add(role, text string, invocations []map[string]any) *ConversationBuilder {
	m := map[string]any{"role": role, "content": text}
	if len(invocations) > 0 {
		m["toolInvocations"] = invocations
	}
	b.messages = append(b.messages, m)
	return b
}

// Len returns the number of messages added so far.
func (b *ConversationBuilder) Len() int { return len(b.messages) }

// JSON returns the request body {"messages": [...]}.
func (b *ConversationBuilder) JSON() []byte {
	msgs := b.messages
	if msgs == nil {
		msgs = []map[string]any{}
	}
	data, err := json.Marshal(map[string]any{"messages": msgs})
	if err != nil {
		panic(err)
	}
	return data
}
