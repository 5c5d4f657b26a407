package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/folio/core"
	"github.com/hupe1980/folio/model"
	"github.com/hupe1980/folio/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T, extra ...tool.Tool) *tool.Registry {
	t.Helper()
	tools := append([]tool.Tool{
		tool.NewStaticTool("getSkills", "skills", "You can see all my skills above."),
		tool.NewStaticTool("getContact", "contact", "contact me"),
	}, extra...)
	r, err := tool.NewRegistry(tools...)
	require.NoError(t, err)
	return r
}

func collect(ch <-chan core.StreamEvent) []core.StreamEvent {
	var events []core.StreamEvent
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func types(events []core.StreamEvent) []core.EventType {
	out := make([]core.EventType, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

func userTurns(text string) []core.Content {
	return []core.Content{
		core.NewTextContent(core.RoleSystem, "sys"),
		core.NewTextContent(core.RoleUser, text),
	}
}

func TestStepFlow_TextOnly(t *testing.T) {
	m := model.NewMockModel("mock", "mock", model.Turn{Text: "Hi"})
	f := NewStepFlow(m, testRegistry(t))

	events := collect(f.Run(context.Background(), userTurns("hello")))

	assert.Equal(t, []core.EventType{
		core.EventStepStart, core.EventTextDelta, core.EventTextDelta, core.EventStepFinish, core.EventFinish,
	}, types(events))
	assert.Equal(t, "H", events[1].Text)
	assert.Equal(t, "i", events[2].Text)
	assert.False(t, events[3].Continued)
	assert.Equal(t, events[0].MessageID, events[3].MessageID)
	assert.Equal(t, "stop", events[4].FinishReason)

	reqs := m.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, userTurns("hello"), reqs[0].Contents)
	assert.True(t, reqs[0].Stream)
	require.Len(t, reqs[0].Tools, 2)
	assert.Equal(t, "getSkills", reqs[0].Tools[0].Function.Name)
}

func TestStepFlow_ToolCallThenAnswer(t *testing.T) {
	m := model.NewMockModel("mock", "mock",
		model.Turn{ToolCalls: []core.FunctionCall{{ID: "c1", Name: "getSkills"}}},
		model.Turn{Text: "ok"},
	)
	f := NewStepFlow(m, testRegistry(t))

	events := collect(f.Run(context.Background(), userTurns("skills?")))

	assert.Equal(t, []core.EventType{
		core.EventStepStart, core.EventToolCall, core.EventToolResult, core.EventStepFinish,
		core.EventStepStart, core.EventTextDelta, core.EventTextDelta, core.EventStepFinish,
		core.EventFinish,
	}, types(events))

	call := events[1].ToolCall
	require.NotNil(t, call)
	assert.Equal(t, "c1", call.ID)
	assert.Equal(t, "{}", call.Arguments)

	result := events[2].ToolResult
	require.NotNil(t, result)
	assert.Equal(t, "c1", result.ID)
	assert.Equal(t, "You can see all my skills above.", result.Response)
	assert.Empty(t, result.Error)

	assert.True(t, events[3].Continued)
	assert.Equal(t, "tool_calls", events[3].FinishReason)
	assert.NotEqual(t, events[0].MessageID, events[4].MessageID)

	finish := events[len(events)-1]
	assert.Equal(t, "stop", finish.FinishReason)
	assert.Greater(t, finish.Usage.PromptTokens, 0)

	reqs := m.Requests()
	require.Len(t, reqs, 2)
	second := reqs[1].Contents
	require.Len(t, second, 4)
	assert.Equal(t, core.RoleAssistant, second[2].Role)
	assert.Equal(t, []core.FunctionCall{{ID: "c1", Name: "getSkills", Arguments: "{}"}}, second[2].FunctionCalls())
	assert.Equal(t, core.RoleTool, second[3].Role)
	require.Len(t, second[3].FunctionResponses(), 1)
	assert.Equal(t, "c1", second[3].FunctionResponses()[0].ID)
}

func TestStepFlow_StepBudget(t *testing.T) {
	m := model.NewMockModel("mock", "mock",
		model.Turn{ToolCalls: []core.FunctionCall{{ID: "c1", Name: "getSkills"}}},
		model.Turn{ToolCalls: []core.FunctionCall{{ID: "c2", Name: "getContact"}}},
		model.Turn{Text: "never"},
	)
	f := NewStepFlow(m, testRegistry(t), func(o *Options) { o.MaxSteps = 2 })

	events := collect(f.Run(context.Background(), userTurns("go")))

	assert.Equal(t, 2, m.Calls())
	finish := events[len(events)-1]
	assert.Equal(t, core.EventFinish, finish.Type)
	assert.Equal(t, "tool_calls", finish.FinishReason)
}

func TestStepFlow_StepBudgetFromOptions(t *testing.T) {
	cases := []struct {
		maxSteps int
		calls    int
	}{
		{maxSteps: 0, calls: DefaultMaxSteps},
		{maxSteps: 1, calls: 1},
		{maxSteps: 3, calls: 3},
	}
	for _, tc := range cases {
		m := model.NewMockModel("mock", "mock",
			model.Turn{ToolCalls: []core.FunctionCall{{ID: "c1", Name: "getSkills"}}},
			model.Turn{ToolCalls: []core.FunctionCall{{ID: "c2", Name: "getContact"}}},
			model.Turn{ToolCalls: []core.FunctionCall{{ID: "c3", Name: "getSkills"}}},
			model.Turn{Text: "never"},
		)
		f := NewStepFlow(m, testRegistry(t), func(o *Options) { o.MaxSteps = tc.maxSteps })

		events := collect(f.Run(context.Background(), userTurns("go")))

		assert.Equal(t, tc.calls, m.Calls(), "maxSteps=%d", tc.maxSteps)
		assert.Equal(t, core.EventFinish, events[len(events)-1].Type)
	}
}

func TestStepFlow_MissingCallIDIsAssigned(t *testing.T) {
	m := model.NewMockModel("mock", "mock",
		model.Turn{ToolCalls: []core.FunctionCall{{Name: "getContact"}}},
		model.Turn{Text: "."},
	)
	events := collect(NewStepFlow(m, testRegistry(t)).Run(context.Background(), userTurns("x")))

	require.Equal(t, core.EventToolCall, events[1].Type)
	id := events[1].ToolCall.ID
	assert.Regexp(t, `^call_.+`, id)
	assert.Equal(t, id, events[2].ToolResult.ID)
}

func TestStepFlow_ErrorBeforeOutput(t *testing.T) {
	boom := errors.New("boom")
	m := model.NewMockModel("mock", "mock", model.Turn{Err: boom})

	events := collect(NewStepFlow(m, testRegistry(t)).Run(context.Background(), userTurns("x")))

	require.Len(t, events, 1)
	assert.Equal(t, core.EventError, events[0].Type)
	assert.ErrorIs(t, events[0].Err, boom)
}

func TestStepFlow_ErrorInSecondStep(t *testing.T) {
	m := model.NewMockModel("mock", "mock",
		model.Turn{ToolCalls: []core.FunctionCall{{ID: "c1", Name: "getSkills"}}},
		model.Turn{Err: errors.New("upstream died")},
	)

	events := collect(NewStepFlow(m, testRegistry(t)).Run(context.Background(), userTurns("x")))

	last := events[len(events)-1]
	assert.Equal(t, core.EventError, last.Type)
	assert.Equal(t, "upstream died", last.ErrorMessage())
	assert.Equal(t, core.EventStepStart, events[0].Type)
}

func TestStepFlow_ToolFailuresAreResults(t *testing.T) {
	panicky := tool.NewFunctionTool("getCrazy", "", func(context.Context) (any, error) { panic("kaboom") })
	m := model.NewMockModel("mock", "mock",
		model.Turn{ToolCalls: []core.FunctionCall{
			{ID: "c1", Name: "getCrazy"},
			{ID: "c2", Name: "doesNotExist"},
		}},
		model.Turn{Text: "sorry"},
	)

	events := collect(NewStepFlow(m, testRegistry(t, panicky)).Run(context.Background(), userTurns("x")))

	var results []*core.FunctionResponse
	for _, ev := range events {
		if ev.Type == core.EventToolResult {
			results = append(results, ev.ToolResult)
		}
	}
	require.Len(t, results, 2)
	assert.Equal(t, "c1", results[0].ID)
	assert.Contains(t, results[0].Error, "panic recovered: kaboom")
	assert.Equal(t, "c2", results[1].ID)
	assert.Contains(t, results[1].Error, "not found")
	assert.Equal(t, core.EventFinish, events[len(events)-1].Type)
}

func TestStepFlow_NonStreaming(t *testing.T) {
	m := model.NewMockModel("mock", "mock", model.Turn{Text: "whole"})
	f := NewStepFlow(m, testRegistry(t), func(o *Options) { o.Stream = false })

	events := collect(f.Run(context.Background(), userTurns("x")))

	assert.Equal(t, []core.EventType{core.EventStepStart, core.EventTextDelta, core.EventStepFinish, core.EventFinish}, types(events))
	assert.Equal(t, "whole", events[1].Text)
}

func TestStepFlow_CancelledContextHasNoTerminalEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := model.NewMockModel("mock", "mock", model.Turn{Text: "late"})
	for _, ev := range collect(NewStepFlow(m, testRegistry(t)).Run(ctx, userTurns("x"))) {
		assert.False(t, ev.IsTerminal(), ev.Type)
	}
}

// chunkModel replays fixed responses, used to exercise streamed tool call deltas.
type chunkModel struct {
	chunks []model.Response
}

func (c *chunkModel) Generate(context.Context, model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, len(c.chunks))
	errCh := make(chan error, 1)
	for _, ch := range c.chunks {
		out <- ch
	}
	close(out)
	close(errCh)
	return out, errCh
}

func (c *chunkModel) Info() model.Info { return model.Info{Name: "chunks", Provider: "test"} }

func partialCall(args string) model.Response {
	return model.Response{Partial: true, Content: core.Content{Role: core.RoleAssistant, Parts: []core.Part{
		core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: "c1", Name: "getSkills", Arguments: args}},
	}}}
}

func TestStepFlow_StreamedToolCallDeltas(t *testing.T) {
	final := model.Response{
		Content: core.Content{Role: core.RoleAssistant, Parts: []core.Part{
			core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: "c1", Name: "getSkills", Arguments: `{"a":1}`}},
		}},
		FinishReason: "tool_calls",
	}
	m := &chunkModel{chunks: []model.Response{partialCall(""), partialCall(`{"a"`), partialCall(`{"a":1}`), final}}

	events := collect(NewStepFlow(m, testRegistry(t), func(o *Options) { o.MaxSteps = 1 }).Run(context.Background(), userTurns("x")))

	assert.Equal(t, []core.EventType{
		core.EventStepStart, core.EventToolCallStart, core.EventToolCallDelta, core.EventToolCallDelta,
		core.EventToolCall, core.EventToolResult, core.EventStepFinish, core.EventFinish,
	}, types(events))
	assert.Equal(t, "getSkills", events[1].ToolCall.Name)
	assert.Equal(t, `{"a"`, events[2].ToolCall.Arguments)
	assert.Equal(t, `:1}`, events[3].ToolCall.Arguments)
	assert.Equal(t, `{"a":1}`, events[4].ToolCall.Arguments)
}

func TestStepFlow_NoFinalResponse(t *testing.T) {
	m := &chunkModel{chunks: []model.Response{{Partial: true, Content: core.NewTextContent(core.RoleAssistant, "a")}}}

	events := collect(NewStepFlow(m, testRegistry(t)).Run(context.Background(), userTurns("x")))

	last := events[len(events)-1]
	assert.Equal(t, core.EventError, last.Type)
	assert.ErrorIs(t, last.Err, ErrNoFinalResponse)
}
