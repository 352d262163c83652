package jwtlens

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

func collectEvents(t *testing.T, sink *ChannelSink, want int) []TraceEvent {
	t.Helper()
	var events []TraceEvent
	deadline := time.After(2 * time.Second)
	for len(events) < want {
		select {
		case e := <-sink.Events():
			events = append(events, e)
		case <-deadline:
			t.Fatalf("got %d trace events, want at least %d", len(events), want)
		}
	}
	return events
}

func TestTraceStreamCoversBootstrap(t *testing.T) {
	sink := NewChannelSink(64)
	s := newTestSession(t, func(b *Builder) { b.WithTraceSink(sink) })

	// Bootstrap produces at least a decode cycle, a verify, and the
	// bootstrap event itself.
	events := collectEvents(t, sink, 3)

	seen := map[string]bool{}
	for _, e := range events {
		seen[e.EventType] = true
		if e.SessionID != s.ID() {
			t.Fatalf("event %q carries session %q, want %q", e.EventType, e.SessionID, s.ID())
		}
	}
	for _, want := range []string{traceEventDecode, traceEventVerify, traceEventBootstrap} {
		if !seen[want] {
			t.Fatalf("missing %q in trace stream: %v", want, seen)
		}
	}
}

func TestTraceRecordsFailedCycles(t *testing.T) {
	sink := NewChannelSink(64)
	s := newTestSession(t, func(b *Builder) { b.WithTraceSink(sink) })

	s.Surfaces().Header.SetValue("{ broken")

	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-sink.Events():
			if e.EventType == traceEventEncode && !e.Success {
				if e.Surface != SurfaceHeader.String() {
					t.Fatalf("failure blamed on %q, want header", e.Surface)
				}
				return
			}
		case <-deadline:
			t.Fatal("no failed encode event in trace stream")
		}
	}
}

func TestJSONWriterSinkWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), TraceEvent{EventType: "a", Success: true})
	sink.Emit(context.Background(), TraceEvent{EventType: "b"})

	scanner := bufio.NewScanner(&buf)
	var got []string
	for scanner.Scan() {
		var e TraceEvent
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("line is not JSON: %v", err)
		}
		got = append(got, e.EventType)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("events = %v", got)
	}
}

type blockingSink struct {
	release chan struct{}
}

func (s *blockingSink) Emit(ctx context.Context, event TraceEvent) {
	<-s.release
}

func TestDispatcherDropsWhenBufferFull(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	d := newTraceDispatcher(TraceConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// One event may be in the sink, one in the buffer; the rest must drop.
	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), TraceEvent{EventType: "burst"})
	}
	if d.Dropped() == 0 {
		t.Fatal("no events dropped with a full buffer")
	}
	close(sink.release)
	d.Close()
}

func TestDisabledTraceIsNil(t *testing.T) {
	if d := newTraceDispatcher(TraceConfig{}, nil); d != nil {
		t.Fatal("disabled trace must not allocate a dispatcher")
	}
	// And the nil dispatcher is safe to use.
	var d *traceDispatcher
	d.Emit(context.Background(), TraceEvent{})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reports drops")
	}
}
