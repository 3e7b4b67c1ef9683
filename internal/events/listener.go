// Package events consumes broker notifications emitted by sibling services
// whenever booking data changes outside this process. Messages only carry a
// hint, so the listener reacts by dropping the aggregate cache.
package events

import (
	"context"
	"log/slog"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Invalidator is the cache surface the listener drives.
type Invalidator interface {
	Invalidate()
}

// Listener consumes change notifications from an AMQP queue and invalidates
// the calendar cache on every relevant delivery.
type Listener struct {
	conn        *amqp.Connection
	channel     *amqp.Channel
	queue       string
	invalidator Invalidator
	logger      *slog.Logger
}

// NewListener dials the broker and opens a channel. A disabled configuration
// returns a nil listener, which every method tolerates.
func NewListener(enabled bool, url, queue string, invalidator Invalidator, logger *slog.Logger) (*Listener, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !enabled {
		logger.Info("amqp listener disabled")
		return nil, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		logger.Error("amqp connect failed", "error", err)
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("amqp channel failed", "error", err)
		return nil, err
	}

	return &Listener{
		conn:        conn,
		channel:     channel,
		queue:       queue,
		invalidator: invalidator,
		logger:      logger,
	}, nil
}

// Start declares the queue and consumes it until ctx is cancelled.
func (l *Listener) Start(ctx context.Context) error {
	if l == nil {
		return nil
	}

	queue, err := l.channel.QueueDeclare(
		l.queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	deliveries, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	l.logger.Info("amqp listener started", "queue", queue.Name)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-deliveries:
				if !ok {
					return
				}
				l.handle(ctx, msg)
				if err := msg.Ack(false); err != nil {
					l.logger.ErrorContext(ctx, "amqp ack failed", "error", err)
				}
			}
		}
	}()

	return nil
}

func (l *Listener) handle(ctx context.Context, msg amqp.Delivery) {
	action := routingKeyAction(msg.RoutingKey)
	if action != "store" && action != "invalidate" {
		l.logger.WarnContext(ctx, "amqp delivery ignored", "routing_key", msg.RoutingKey)
		return
	}

	l.invalidator.Invalidate()
	l.logger.InfoContext(ctx, "calendar cache invalidated", "routing_key", msg.RoutingKey)
}

// Stop closes the channel before the connection so in-flight consumers drain.
func (l *Listener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}

// Routing keys end in the action, e.g. console.bookings.store or
// console.bookings.invalidate.
func routingKeyAction(routingKey string) string {
	parts := strings.Split(routingKey, ".")
	return parts[len(parts)-1]
}
