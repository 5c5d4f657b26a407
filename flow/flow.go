// Package flow drives the model and tool step loop behind a chat response.
//
// A StepFlow calls the model, streams its text and tool call deltas,
// executes the requested tools, feeds their results back and repeats until
// the model stops calling tools or the step budget is exhausted.
package flow

import (
	"context"

	"github.com/hupe1980/folio/core"
)

// Flow runs a conversation and streams the resulting events. The returned
// channel ends with exactly one terminal event (finish or error) and is then
// closed. If ctx is cancelled the channel is closed without further events.
type Flow interface {
	Run(ctx context.Context, contents []core.Content) <-chan core.StreamEvent
}
