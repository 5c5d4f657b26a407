package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/hupe1980/folio/core"
)

// Data stream protocol frame prefixes understood by the web client.
const (
	frameText          = "0"
	frameError         = "3"
	frameToolCall      = "9"
	frameToolResult    = "a"
	frameToolCallStart = "b"
	frameToolCallDelta = "c"
	frameFinishMessage = "d"
	frameFinishStep    = "e"
	frameStartStep     = "f"
)

// DataStreamHeader marks responses using the data stream protocol.
const DataStreamHeader = "X-Vercel-AI-Data-Stream"

type usageFrame struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
}

func usageOf(u core.Usage) usageFrame {
	return usageFrame{PromptTokens: u.PromptTokens, CompletionTokens: u.CompletionTokens}
}

func finishReason(r string) string {
	if r == "" {
		return "unknown"
	}
	return r
}

// toolArgs returns the call arguments as raw JSON, or {} when they are not valid JSON.
func toolArgs(args string) json.RawMessage {
	if args == "" || !json.Valid([]byte(args)) {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(args)
}

// EncodeFrame renders one event as a data stream line without the trailing
// newline. errorMessage renders error events. ok is false for events that
// have no wire representation.
func EncodeFrame(ev core.StreamEvent, errorMessage func(any) string) (line string, ok bool, err error) {
	var (
		prefix  string
		payload any
	)

	switch ev.Type {
	case core.EventStepStart:
		prefix, payload = frameStartStep, map[string]string{"messageId": ev.MessageID}
	case core.EventTextDelta:
		prefix, payload = frameText, ev.Text
	case core.EventToolCallStart:
		if ev.ToolCall == nil {
			return "", false, nil
		}
		prefix, payload = frameToolCallStart, map[string]string{
			"toolCallId": ev.ToolCall.ID,
			"toolName":   ev.ToolCall.Name,
		}
	case core.EventToolCallDelta:
		if ev.ToolCall == nil {
			return "", false, nil
		}
		prefix, payload = frameToolCallDelta, map[string]string{
			"toolCallId":    ev.ToolCall.ID,
			"argsTextDelta": ev.ToolCall.Arguments,
		}
	case core.EventToolCall:
		if ev.ToolCall == nil {
			return "", false, nil
		}
		prefix, payload = frameToolCall, struct {
			ToolCallID string          `json:"toolCallId"`
			ToolName   string          `json:"toolName"`
			Args       json.RawMessage `json:"args"`
		}{ev.ToolCall.ID, ev.ToolCall.Name, toolArgs(ev.ToolCall.Arguments)}
	case core.EventToolResult:
		if ev.ToolResult == nil {
			return "", false, nil
		}
		var result any = ev.ToolResult.Response
		if ev.ToolResult.Error != "" {
			result = map[string]string{"error": ev.ToolResult.Error}
		}
		prefix, payload = frameToolResult, struct {
			ToolCallID string `json:"toolCallId"`
			Result     any    `json:"result"`
		}{ev.ToolResult.ID, result}
	case core.EventStepFinish:
		prefix, payload = frameFinishStep, struct {
			FinishReason string     `json:"finishReason"`
			Usage        usageFrame `json:"usage"`
			IsContinued  bool       `json:"isContinued"`
		}{finishReason(ev.FinishReason), usageOf(ev.Usage), ev.Continued}
	case core.EventFinish:
		prefix, payload = frameFinishMessage, struct {
			FinishReason string     `json:"finishReason"`
			Usage        usageFrame `json:"usage"`
		}{finishReason(ev.FinishReason), usageOf(ev.Usage)}
	case core.EventError:
		prefix, payload = frameError, errorMessage(ev.Err)
	default:
		return "", false, nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", false, fmt.Errorf("encode %s frame: %w", ev.Type, err)
	}
	return prefix + ":" + string(b), true, nil
}

// DataStreamWriter writes stream events as data stream protocol frames,
// flushing after every frame.
type DataStreamWriter struct {
	mu           sync.Mutex
	w            http.ResponseWriter
	bw           *bufio.Writer
	errorMessage func(any) string
	started      bool
}

// NewDataStreamWriter creates a writer over w. errorMessage renders error frames.
func NewDataStreamWriter(w http.ResponseWriter, errorMessage func(any) string) *DataStreamWriter {
	return &DataStreamWriter{
		w:            w,
		bw:           bufio.NewWriterSize(w, 4096),
		errorMessage: errorMessage,
	}
}

func (d *DataStreamWriter) start() {
	if d.started {
		return
	}
	d.started = true
	h := d.w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set(DataStreamHeader, "v1")
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Accel-Buffering", "no")
	d.w.WriteHeader(http.StatusOK)
}

// Write encodes and flushes a single event.
func (d *DataStreamWriter) Write(ev core.StreamEvent) error {
	line, ok, err := EncodeFrame(ev, d.errorMessage)
	if err != nil || !ok {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.start()
	if _, err := d.bw.WriteString(line); err != nil {
		return err
	}
	if err := d.bw.WriteByte('\n'); err != nil {
		return err
	}
	return d.flush()
}

func (d *DataStreamWriter) flush() error {
	if err := d.bw.Flush(); err != nil {
		return err
	}
	if f, ok := d.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// WriteAll writes every event until events is closed. A write failure (the
// client went away) stops writing; the remaining events are drained.
func (d *DataStreamWriter) WriteAll(events <-chan core.StreamEvent) error {
	d.mu.Lock()
	d.start()
	d.mu.Unlock()

	var writeErr error
	for ev := range events {
		if writeErr != nil {
			continue
		}
		writeErr = d.Write(ev)
	}
	return writeErr
}
