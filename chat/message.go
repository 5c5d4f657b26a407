package chat

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/hupe1980/folio/core"
)

// Message is one visitor-supplied conversation entry as sent by the web client.
type Message struct {
	Role            string           `json:"role"`
	Content         string           `json:"content"`
	ToolCallID      string           `json:"toolCallId,omitempty"`
	ToolName        string           `json:"toolName,omitempty"`
	ToolInvocations []ToolInvocation `json:"toolInvocations,omitempty"`
}

// ToolInvocation is a tool call the client observed in an earlier assistant
// message, with its result once available.
type ToolInvocation struct {
	ToolCallID string          `json:"toolCallId"`
	ToolName   string          `json:"toolName"`
	Args       json.RawMessage `json:"args,omitempty"`
	Result     any             `json:"result,omitempty"`
	State      string          `json:"state,omitempty"`
}

// UnmarshalJSON accepts content either as a string or as an array of
// {"type":"text","text":...} parts.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role            string           `json:"role"`
		Content         json.RawMessage  `json:"content"`
		ToolCallID      string           `json:"toolCallId"`
		ToolName        string           `json:"toolName"`
		ToolInvocations []ToolInvocation `json:"toolInvocations"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.Role = raw.Role
	m.ToolCallID = raw.ToolCallID
	m.ToolName = raw.ToolName
	m.ToolInvocations = raw.ToolInvocations
	m.Content = decodeContent(raw.Content)
	return nil
}

func decodeContent(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parts); err == nil {
		var b strings.Builder
		for _, p := range parts {
			if p.Type == "text" || p.Type == "" {
				b.WriteString(p.Text)
			}
		}
		return b.String()
	}

	return ""
}

// ParseMessages extracts the "messages" field from a chat request body.
// Anything that is not a JSON array (missing, null, object, number, broken
// JSON) yields an empty conversation. Array elements that are not objects are
// skipped.
func ParseMessages(body []byte) []Message {
	var envelope struct {
		Messages json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return []Message{}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(envelope.Messages, &entries); err != nil || entries == nil {
		return []Message{}
	}

	msgs := make([]Message, 0, len(entries))
	for _, e := range entries {
		var m Message
		if err := json.Unmarshal(e, &m); err != nil {
			continue
		}
		msgs = append(msgs, m)
	}
	return msgs
}

// Contents converts the entry into conversation turns. Assistant entries with
// completed tool invocations expand into the assistant turn followed by a
// tool turn carrying the results. A tool entry with a call id becomes a
// function response, without one a plain tool text turn. Unknown roles
// produce no turns.
func (m Message) Contents() []core.Content {
	switch m.Role {
	case core.RoleSystem, core.RoleUser:
		return []core.Content{core.NewTextContent(m.Role, m.Content)}
	case core.RoleTool:
		if m.ToolCallID == "" {
			return []core.Content{core.NewTextContent(core.RoleTool, m.Content)}
		}
		return []core.Content{{Role: core.RoleTool, Parts: []core.Part{
			core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{
				ID:       m.ToolCallID,
				Name:     m.ToolName,
				Response: m.Content,
			}},
		}}}
	case core.RoleAssistant:
	default:
		return nil
	}

	assistant := core.Content{Role: core.RoleAssistant}
	if m.Content != "" {
		assistant.Parts = append(assistant.Parts, core.TextPart{Text: m.Content})
	}

	toolTurn := core.Content{Role: core.RoleTool}
	for _, inv := range m.ToolInvocations {
		if inv.ToolCallID == "" || inv.ToolName == "" {
			continue
		}
		// Calls without a result cannot be replayed: providers reject
		// dangling tool calls.
		if inv.State != "" && inv.State != "result" {
			continue
		}
		args := "{}"
		if len(inv.Args) > 0 && !bytes.Equal(bytes.TrimSpace(inv.Args), []byte("null")) {
			args = string(inv.Args)
		}
		assistant.Parts = append(assistant.Parts, core.FunctionCallPart{FunctionCall: core.FunctionCall{
			ID:        inv.ToolCallID,
			Name:      inv.ToolName,
			Arguments: args,
		}})
		toolTurn.Parts = append(toolTurn.Parts, core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{
			ID:       inv.ToolCallID,
			Name:     inv.ToolName,
			Response: inv.Result,
		}})
	}

	out := []core.Content{assistant}
	if len(toolTurn.Parts) > 0 {
		out = append(out, toolTurn)
	}
	return out
}
