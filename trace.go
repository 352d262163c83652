package jwtlens

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// TraceEvent is one record in the session's trace stream: a reconciliation
// cycle, a settled verdict, a resolution outcome, or a persistence failure.
type TraceEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	SessionID string            `json:"session_id,omitempty"`
	Surface   string            `json:"surface,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// TraceSink consumes trace events. Emit is called from the session's
// dispatcher goroutine, never from a reconciliation cycle.
type TraceSink interface {
	Emit(ctx context.Context, event TraceEvent)
}

// NoOpSink discards every event.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, TraceEvent) {}

// ChannelSink forwards events to a buffered channel for test or host-UI
// consumption.
type ChannelSink struct {
	events chan TraceEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan TraceEvent, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event TraceEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan TraceEvent {
	return s.events
}

// JSONWriterSink writes one JSON line per event.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event TraceEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
