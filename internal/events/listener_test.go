package events

import (
	"context"
	"io"
	"log/slog"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate() { c.calls++ }

func TestDisabledListenerIsNil(t *testing.T) {
	listener, err := NewListener(false, "amqp://ignored", "queue", &countingInvalidator{}, nil)
	if err != nil {
		t.Fatalf("NewListener: %v", err)
	}
	if listener != nil {
		t.Fatal("expected nil listener when disabled")
	}
	if err := listener.Start(context.Background()); err != nil {
		t.Fatalf("Start on nil listener: %v", err)
	}
	if err := listener.Stop(); err != nil {
		t.Fatalf("Stop on nil listener: %v", err)
	}
}

func TestHandleInvalidatesOnKnownActions(t *testing.T) {
	invalidator := &countingInvalidator{}
	listener := &Listener{invalidator: invalidator, logger: discardLogger()}

	listener.handle(context.Background(), amqp.Delivery{RoutingKey: "console.bookings.store"})
	listener.handle(context.Background(), amqp.Delivery{RoutingKey: "console.bookings.invalidate"})
	listener.handle(context.Background(), amqp.Delivery{RoutingKey: "console.bookings.heartbeat"})

	if invalidator.calls != 2 {
		t.Fatalf("invalidations = %d, want 2", invalidator.calls)
	}
}

func TestRoutingKeyAction(t *testing.T) {
	cases := map[string]string{
		"console.bookings.store":      "store",
		"console.bookings.invalidate": "invalidate",
		"invalidate":                  "invalidate",
		"":                            "",
	}
	for key, want := range cases {
		if got := routingKeyAction(key); got != want {
			t.Errorf("routingKeyAction(%q) = %q, want %q", key, got, want)
		}
	}
}
