package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/folio/core"
	"github.com/hupe1980/folio/flow"
	"github.com/hupe1980/folio/logging"
	"github.com/hupe1980/folio/model"
	"github.com/hupe1980/folio/provider"
	"github.com/hupe1980/folio/tool"
)

// HistoryWindow is the number of most recent visitor entries sent upstream.
const HistoryWindow = 16

// ErrDemoMode is returned by Stream while the orchestrator runs in demo mode.
var ErrDemoMode = errors.New("chat: demo mode is enabled")

// Options configures an Orchestrator.
type Options struct {
	Logger logging.Logger
	// DemoMode disables all upstream calls.
	DemoMode bool
	// MaxSteps bounds model calls per request (default flow.DefaultMaxSteps).
	MaxSteps int
}

// Orchestrator turns visitor conversations into streamed model responses.
// All fields are fixed at construction; one Orchestrator serves every request.
type Orchestrator struct {
	system    core.Content
	tools     *tool.Registry
	selection provider.Selection
	factory   provider.Factory
	opts      Options
}

// New creates an Orchestrator.
func New(
	system core.Content,
	tools *tool.Registry,
	selection provider.Selection,
	factory provider.Factory,
	optFns ...func(o *Options),
) *Orchestrator {
	opts := Options{MaxSteps: flow.DefaultMaxSteps}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	return &Orchestrator{
		system:    system,
		tools:     tools,
		selection: selection,
		factory:   factory,
		opts:      opts,
	}
}

// DemoMode reports whether upstream calls are disabled.
func (o *Orchestrator) DemoMode() bool { return o.opts.DemoMode }

// Selection returns the provider selection used for every request.
func (o *Orchestrator) Selection() provider.Selection { return o.selection }

// Assemble keeps the last HistoryWindow entries of msgs and prepends the
// system turn. The result never aliases msgs.
func Assemble(system core.Content, msgs []Message) []core.Content {
	if len(msgs) > HistoryWindow {
		msgs = msgs[len(msgs)-HistoryWindow:]
	}

	contents := make([]core.Content, 0, len(msgs)+1)
	contents = append(contents, system)
	for _, m := range msgs {
		contents = append(contents, m.Contents()...)
	}
	return contents
}

// Response is a started chat stream.
type Response struct {
	// Events yields the stream, ending with a finish or error event.
	Events <-chan core.StreamEvent
	// Provider and Model identify the upstream that produced the first event.
	Provider provider.Kind
	Model    string
	// Retried is set when the fallback model serves the response.
	Retried bool
}

// Stream starts a chat completion for msgs.
//
// Failures before the first event are returned as the error; failures after
// that arrive as an error event on Response.Events. A rate-limited first
// attempt on a provider with a fallback tier is retried once on the fallback
// model unless ctx is already done.
func (o *Orchestrator) Stream(ctx context.Context, msgs []Message) (*Response, error) {
	if o.opts.DemoMode {
		return nil, ErrDemoMode
	}

	logger := o.opts.Logger
	contents := Assemble(o.system, msgs)
	sel := o.selection

	logger.Info("chat.request.assembled", "entries", len(msgs), "turns", len(contents))
	logger.Info("chat.provider.selected", "provider", string(sel.Kind), "model", sel.Model)

	resp, err := o.attempt(ctx, contents, sel.Model)
	if err == nil {
		return resp, nil
	}

	logger.Warn("chat.upstream.error", "provider", string(sel.Kind), "model", sel.Model, "error", err.Error())

	if !sel.HasFallback() || !model.IsRateLimited(err) || ctx.Err() != nil {
		logger.Error("chat.failed", "provider", string(sel.Kind), "model", sel.Model, "error", err.Error())
		return nil, err
	}

	logger.Info("chat.retry.fallback", "provider", string(sel.Kind), "model", sel.FallbackModel)

	resp, err = o.attempt(ctx, contents, sel.FallbackModel)
	if err != nil {
		logger.Error("chat.failed", "provider", string(sel.Kind), "model", sel.FallbackModel, "error", err.Error())
		return nil, err
	}
	resp.Retried = true
	return resp, nil
}

// attempt runs one flow and waits for its first event. An error event in
// first position is returned as the error and the stream is discarded.
func (o *Orchestrator) attempt(ctx context.Context, contents []core.Content, modelID string) (*Response, error) {
	m, err := o.factory.NewModel(o.selection.Kind, modelID)
	if err != nil {
		return nil, fmt.Errorf("create %s model %s: %w", o.selection.Kind, modelID, err)
	}

	f := flow.NewStepFlow(m, o.tools, func(fo *flow.Options) {
		fo.MaxSteps = o.opts.MaxSteps
		fo.Stream = true
		fo.Logger = o.opts.Logger
	})

	start := time.Now()
	events := f.Run(ctx, contents)

	first, ok := <-events
	if !ok {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s/%s: empty response stream", o.selection.Kind, modelID)
	}
	if first.Type == core.EventError {
		for range events {
		}
		return nil, first.Err
	}

	o.opts.Logger.Info("chat.stream.started", "provider", string(o.selection.Kind), "model", modelID,
		"first_event_ms", time.Since(start).Milliseconds())

	return &Response{
		Events:   prepend(ctx, first, events),
		Provider: o.selection.Kind,
		Model:    modelID,
	}, nil
}

// prepend yields first followed by everything from rest. Once ctx is done
// the remaining events are drained instead of forwarded.
func prepend(ctx context.Context, first core.StreamEvent, rest <-chan core.StreamEvent) <-chan core.StreamEvent {
	out := make(chan core.StreamEvent, 1)
	go func() {
		defer close(out)
		out <- first
		for ev := range rest {
			select {
			case out <- ev:
			case <-ctx.Done():
				for range rest {
				}
				return
			}
		}
	}()
	return out
}
