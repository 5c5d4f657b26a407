package testutil

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/hupe1980/folio/core"
	"github.com/hupe1980/folio/model"
	"github.com/hupe1980/folio/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamBuilder(t *testing.T) {
	b := NewStreamBuilder().Usage(3, 4).
		StepStart("m1").
		Text("hi").
		ToolCall("c1", "getSkills", "{}").
		ToolResult("c1", "getSkills", "ok", errors.New("boom")).
		StepFinish("tool_calls", true).
		Finish("stop")

	events := b.Build()
	require.Len(t, events, 6)
	assert.Equal(t, core.EventStepStart, events[0].Type)
	assert.Equal(t, "m1", events[0].MessageID)
	assert.Equal(t, "boom", events[3].ToolResult.Error)
	assert.True(t, events[4].Continued)
	assert.Equal(t, core.Usage{PromptTokens: 3, CompletionTokens: 4}, events[5].Usage)

	var n int
	for range b.Channel() {
		n++
	}
	assert.Equal(t, 6, n)
}

func TestConversationBuilder(t *testing.T) {
	body := NewConversationBuilder().Users(2).AssistantTool("", "c1", "getSkills", "ok").JSON()

	var decoded struct {
		Messages []map[string]any `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.Len(t, decoded.Messages, 3)
	assert.Equal(t, "msg-1", decoded.Messages[1]["content"])
	assert.Contains(t, decoded.Messages[2], "toolInvocations")

	assert.JSONEq(t, `{"messages":[]}`, string(NewConversationBuilder().JSON()))
}

func TestFactory(t *testing.T) {
	m := model.NewMockModel("small", "groq")
	f := NewFactory().With("small", m)

	got, err := f.NewModel(provider.KindGroq, "small")
	require.NoError(t, err)
	assert.Same(t, m, got)

	_, err = f.NewModel(provider.KindOpenAI, "missing")
	require.Error(t, err)
	assert.Equal(t, []string{"groq/small", "openai/missing"}, f.Calls())
}
