package outbox

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/md-rashed-zaman/pharmacare/libs/kafkax"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestToMessageCarriesMetaAndTrace(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	traceparent := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	msg := toMessage(context.Background(), Record{
		ID:          7,
		EventID:     "0b6f5f0e-0000-4000-8000-000000000001",
		AggregateID: "42",
		EventType:   TopicAppointmentBooked,
		Payload:     []byte(`{"appointment_id":42}`),
		Traceparent: traceparent,
	})

	if msg.Topic != TopicAppointmentBooked || string(msg.Key) != "42" {
		t.Fatalf("unexpected topic/key %s/%s", msg.Topic, msg.Key)
	}
	if kafkax.HeaderValue(msg.Headers, kafkax.HeaderEventID) != "0b6f5f0e-0000-4000-8000-000000000001" {
		t.Fatal("missing event id header")
	}
	if got := kafkax.HeaderValue(msg.Headers, "traceparent"); got != traceparent {
		t.Fatalf("expected traceparent %s, got %q", traceparent, got)
	}
}

type recordingWriter struct {
	closed bool
}

func (w *recordingWriter) WriteMessages(context.Context, ...kafka.Message) error { return nil }
func (w *recordingWriter) Close() error                                        { w.closed = true; return nil }

func TestRunWithoutBrokersReturns(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	p := NewPublisher(nil, NewRepository(), logger, PublisherConfig{})
	w := &recordingWriter{}
	p.newWriter = func([]string) Writer { return w }

	p.Run(context.Background())
	if w.closed {
		t.Fatal("writer must not be created without brokers")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	p := NewPublisher(nil, NewRepository(), logger, PublisherConfig{Brokers: []string{"localhost:9092"}})
	w := &recordingWriter{}
	p.newWriter = func([]string) Writer { return w }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Run(ctx)
	if !w.closed {
		t.Fatal("expected writer to be closed on shutdown")
	}
}
