package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/folio/core"
	"github.com/hupe1980/folio/logging"
	"github.com/hupe1980/folio/model"
	"github.com/hupe1980/folio/tool"
)

// DefaultMaxSteps bounds the model calls of one Run.
const DefaultMaxSteps = 2

// ErrNoFinalResponse is reported when a model stream ends without a final chunk.
var ErrNoFinalResponse = errors.New("model stream ended without a final response")

// Options configures a StepFlow.
type Options struct {
	// MaxSteps is the maximum number of model calls. Values < 1 use DefaultMaxSteps.
	MaxSteps int
	// Stream requests incremental text and tool call chunks from the model.
	Stream bool
	// Executor runs tool calls. Defaults to a parallel executor preserving call order.
	Executor Executor
	Logger   logging.Logger
}

// StepFlow is the default Flow implementation.
type StepFlow struct {
	model model.Model
	tools *tool.Registry
	opts  Options
}

// NewStepFlow creates a flow over m exposing every tool in tools.
func NewStepFlow(m model.Model, tools *tool.Registry, optFns ...func(o *Options)) *StepFlow {
	opts := Options{
		MaxSteps: DefaultMaxSteps,
		Stream:   true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxSteps < 1 {
		opts.MaxSteps = DefaultMaxSteps
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	if opts.Executor == nil {
		opts.Executor = NewParallelExecutor(ExecutorConfig{Logger: opts.Logger})
	}
	return &StepFlow{model: m, tools: tools, opts: opts}
}

// Run implements Flow. contents is copied and never modified.
func (f *StepFlow) Run(ctx context.Context, contents []core.Content) <-chan core.StreamEvent {
	out := make(chan core.StreamEvent, 64)

	go func() {
		defer close(out)

		emit := func(ev core.StreamEvent) bool {
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		history := append([]core.Content(nil), contents...)

		var (
			total  core.Usage
			finish string
		)

		for n := 0; n < f.opts.MaxSteps; n++ {
			res, err := f.step(ctx, history, emit)
			if err != nil {
				if ctx.Err() == nil {
					emit(core.NewErrorEvent(err))
				}
				return
			}
			if ctx.Err() != nil {
				return
			}

			total = total.Add(res.usage)
			finish = res.finishReason
			history = append(history, res.turns...)

			if !res.continued {
				break
			}
		}

		ev := core.NewStreamEvent(core.EventFinish)
		ev.FinishReason = finish
		ev.Usage = total
		emit(ev)
	}()

	return out
}

type stepResult struct {
	turns        []core.Content
	finishReason string
	usage        core.Usage
	continued    bool
}

// step performs one model call including the tool executions it requests.
// The step-start event is emitted lazily with the first model output so that a
// call failing upfront produces nothing but the error.
func (f *StepFlow) step(ctx context.Context, history []core.Content, emit func(core.StreamEvent) bool) (*stepResult, error) {
	info := f.model.Info()
	start := time.Now()

	messageID := core.NewID()
	started := false
	ensureStarted := func() {
		if !started {
			started = true
			ev := core.NewStreamEvent(core.EventStepStart)
			ev.MessageID = messageID
			emit(ev)
		}
	}

	req := model.Request{
		Contents: history,
		Stream:   f.opts.Stream,
	}
	if f.tools != nil && f.tools.Len() > 0 {
		req.Tools = f.tools.Definitions()
	}

	respCh, errCh := f.model.Generate(ctx, req)

	// accumulated argument text already forwarded, per streamed tool call id
	streamed := map[string]string{}
	var final *model.Response

	for resp := range respCh {
		if !resp.Partial {
			r := resp
			final = &r
			continue
		}
		ensureStarted()
		for _, p := range resp.Content.Parts {
			switch part := p.(type) {
			case core.TextPart:
				if part.Text != "" {
					emit(core.NewTextDeltaEvent(part.Text))
				}
			case core.FunctionCallPart:
				emitToolCallDelta(part.FunctionCall, streamed, emit)
			}
		}
	}

	if err := <-errCh; err != nil {
		f.opts.Logger.Warn("llm.call.failed", "provider", info.Provider, "model", info.Name,
			"duration_ms", time.Since(start).Milliseconds(), "error", err.Error())
		return nil, err
	}
	if final == nil {
		return nil, fmt.Errorf("%s/%s: %w", info.Provider, info.Name, ErrNoFinalResponse)
	}

	f.opts.Logger.Debug("llm.call.completed", "provider", info.Provider, "model", info.Name,
		"duration_ms", time.Since(start).Milliseconds(), "finish_reason", final.FinishReason)

	ensureStarted()

	// Non-streaming models deliver text only with the final chunk.
	if !f.opts.Stream {
		if text := final.Content.Text(); text != "" {
			emit(core.NewTextDeltaEvent(text))
		}
	}

	assistant := core.Content{Role: core.RoleAssistant}
	var calls []core.FunctionCall
	for _, p := range final.Content.Parts {
		if fc, ok := p.(core.FunctionCallPart); ok {
			call := fc.FunctionCall
			if call.ID == "" {
				call.ID = core.NewCallID()
			}
			if call.Arguments == "" {
				call.Arguments = "{}"
			}
			calls = append(calls, call)
			assistant.Parts = append(assistant.Parts, core.FunctionCallPart{FunctionCall: call})
			continue
		}
		assistant.Parts = append(assistant.Parts, p)
	}

	res := &stepResult{finishReason: final.FinishReason}
	if final.Usage != nil {
		res.usage = *final.Usage
	}
	res.turns = append(res.turns, assistant)

	for _, call := range calls {
		emit(core.NewToolCallEvent(core.EventToolCall, call))
	}

	if len(calls) > 0 {
		responses := f.opts.Executor.Execute(ctx, f.tools, calls)
		toolTurn := core.Content{Role: core.RoleTool}
		for _, fr := range responses {
			ev := core.NewStreamEvent(core.EventToolResult)
			frCopy := fr
			ev.ToolResult = &frCopy
			emit(ev)
			toolTurn.Parts = append(toolTurn.Parts, core.FunctionResponsePart{FunctionResponse: fr})
		}
		res.turns = append(res.turns, toolTurn)
		res.continued = true
	}

	ev := core.NewStreamEvent(core.EventStepFinish)
	ev.MessageID = messageID
	ev.FinishReason = res.finishReason
	ev.Usage = res.usage
	ev.Continued = res.continued
	emit(ev)

	return res, nil
}

// emitToolCallDelta translates an accumulated partial tool call into start and
// delta events. streamed holds the argument prefix already forwarded per id.
func emitToolCallDelta(call core.FunctionCall, streamed map[string]string, emit func(core.StreamEvent) bool) {
	if call.ID == "" {
		return
	}
	prev, seen := streamed[call.ID]
	if !seen {
		emit(core.NewToolCallEvent(core.EventToolCallStart, core.FunctionCall{ID: call.ID, Name: call.Name}))
	}
	if len(call.Arguments) > len(prev) {
		emit(core.NewToolCallEvent(core.EventToolCallDelta, core.FunctionCall{
			ID:        call.ID,
			Name:      call.Name,
			Arguments: call.Arguments[len(prev):],
		}))
	}
	streamed[call.ID] = call.Arguments
}
