package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/folio/core"
)

// MockModel is a lightweight in‑memory Model useful for tests & examples.
//
// Each call to Generate consumes the next scripted Turn. When the script is
// exhausted it echoes the last user text. Every received Request is recorded
// so tests can assert on what was sent upstream.
type MockModel struct {
	info Info

	mu       sync.Mutex
	script   []Turn
	requests []Request
}

// Turn scripts one Generate call: either an error, or text and/or tool calls.
type Turn struct {
	Text      string
	ToolCalls []core.FunctionCall
	Err       error
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name, provider string, script ...Turn) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      provider,
			SupportsTools: true,
		},
		script: script,
	}
}

// Requests returns a copy of all requests received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

// Calls returns the number of Generate invocations.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *MockModel) next(req Request) (Turn, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if len(m.script) == 0 {
		return Turn{}, false
	}
	t := m.script[0]
	m.script = m.script[1:]
	return t, true
}

// Generate implements Model; emits per-rune text chunks when streaming, then the final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	turn, scripted := m.next(req)

	go func() {
		defer close(respCh)
		defer close(errCh)

		if turn.Err != nil {
			errCh <- turn.Err
			return
		}
		if !scripted {
			if len(req.Contents) == 0 {
				errCh <- fmt.Errorf("no contents provided")
				return
			}
			turn.Text = fmt.Sprintf("Mock response to: %s", req.Contents[len(req.Contents)-1].Text())
		}

		if req.Stream {
			for _, r := range turn.Text {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{
					Partial: true,
					Content: core.NewTextContent(core.RoleAssistant, string(r)),
				}:
				}
			}
		}

		parts := make([]core.Part, 0, len(turn.ToolCalls)+1)
		if turn.Text != "" {
			parts = append(parts, core.TextPart{Text: turn.Text})
		}
		for _, fc := range turn.ToolCalls {
			parts = append(parts, core.FunctionCallPart{FunctionCall: fc})
		}
		finish := "stop"
		if len(turn.ToolCalls) > 0 {
			finish = "tool_calls"
		}

		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case respCh <- Response{
			Partial:      false,
			Content:      core.Content{Role: core.RoleAssistant, Parts: parts},
			FinishReason: finish,
			Usage:        &core.Usage{PromptTokens: len(req.Contents), CompletionTokens: len(turn.Text)},
		}:
		}
	}()
	return respCh, errCh
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
