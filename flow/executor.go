package flow

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/hupe1980/folio/core"
	"github.com/hupe1980/folio/logging"
	"github.com/hupe1980/folio/tool"
)

// Executor runs a batch of tool calls. Implementations must:
//   - Respect ctx cancellation
//   - Never panic (recover internally and report a tool error)
//   - Return exactly one FunctionResponse per call, in call order
type Executor interface {
	Execute(ctx context.Context, tools *tool.Registry, calls []core.FunctionCall) []core.FunctionResponse
}

// ExecutorConfig configures the default parallel executor.
type ExecutorConfig struct {
	MaxParallel int // 0 or <1 => no explicit limit (len(calls))
	Logger      logging.Logger
}

// parallelExecutor is the default implementation.
type parallelExecutor struct {
	cfg    ExecutorConfig
	logger logging.Logger
}

// NewParallelExecutor constructs a new executor with the given config.
func NewParallelExecutor(cfg ExecutorConfig) Executor {
	return &parallelExecutor{cfg: cfg, logger: logging.OrNoOp(cfg.Logger)}
}

func (e *parallelExecutor) Execute(ctx context.Context, tools *tool.Registry, calls []core.FunctionCall) []core.FunctionResponse {
	n := len(calls)
	results := make([]core.FunctionResponse, n)
	if n == 0 {
		return results
	}

	// Fast path: single call, execute inline.
	if n == 1 {
		results[0] = e.executeSingle(ctx, tools, calls[0])
		return results
	}

	maxPar := e.cfg.MaxParallel
	if maxPar <= 0 || maxPar > n {
		maxPar = n
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxPar)

	batchStart := time.Now()
	for i := range calls {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, fc core.FunctionCall) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = e.executeSingle(ctx, tools, fc)
		}(i, calls[i])
	}

	wg.Wait()

	e.logger.Debug(
		"tool.batch.completed",
		"count", n,
		"parallelism", maxPar,
		"duration_ms", time.Since(batchStart).Milliseconds(),
	)

	return results
}

func (e *parallelExecutor) executeSingle(ctx context.Context, tools *tool.Registry, fc core.FunctionCall) core.FunctionResponse {
	start := time.Now()
	var (
		result any
		err    error
	)

	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	} else {
		func() { // panic safety
			defer func() {
				if r := recover(); r != nil {
					err = panicError(fc.Name, r)
					e.logger.Error("tool.call.panic", "tool", fc.Name, "recover", fmt.Sprint(r))
				}
			}()
			result, err = executeTool(ctx, tools, fc.Name)
		}()
	}

	e.logger.Info(
		"tool.call.executed",
		"tool", fc.Name,
		"tool_call_id", fc.ID,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err != nil,
	)

	fr := core.FunctionResponse{ID: fc.ID, Name: fc.Name, Response: result}
	if err != nil {
		fr.Response = nil
		fr.Error = err.Error()
	}
	return fr
}

// panicError converts a recovered panic value to a tool error carrying the stack.
func panicError(name string, r any) error {
	return &tool.ToolError{
		Tool:    name,
		Message: fmt.Sprintf("panic recovered: %v", r),
		Code:    tool.CodePanic,
		Details: string(debug.Stack()),
	}
}

// executeTool centralizes tool lookup & execution. Model supplied arguments
// are never parsed: every tool is zero-argument.
func executeTool(ctx context.Context, tools *tool.Registry, name string) (any, error) {
	if tools == nil {
		return nil, tool.NewToolError(name, "no tools registered", tool.CodeNotFound)
	}
	impl, ok := tools.Get(name)
	if !ok {
		return nil, tool.NewToolError(name, fmt.Sprintf("tool %s not found", name), tool.CodeNotFound)
	}
	return impl.Execute(ctx)
}
