package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"parq-core/internal/pkg/errs"
	"parq-core/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher delivers one outbox event to the outside world.
type Publisher interface {
	Publish(ctx context.Context, e shared.OutboxEvent) error
	Close() error
}

// AMQPPublisher sends events to RabbitMQ. With no exchange configured each
// topic is a durable queue on the default exchange, named after the topic.
type AMQPPublisher struct {
	url      string
	exchange string
	logger   *slog.Logger

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool
}

func NewAMQPPublisher(url, exchange string, logger *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{url: url, exchange: exchange, logger: logger, declared: make(map[string]bool)}
}

func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.resetLocked()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, errs.Wrap(err, "rabbitmq: dial failed")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "rabbitmq: channel open failed")
	}
	if p.exchange != "" {
		if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, errs.Wrap(err, "rabbitmq: exchange declare failed")
		}
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil && !p.conn.IsClosed() {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
	p.declared = make(map[string]bool)
}

func (p *AMQPPublisher) Publish(ctx context.Context, e shared.OutboxEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	if p.exchange == "" && !p.declared[e.Topic] {
		// Durable so messages survive broker restarts.
		if _, err := ch.QueueDeclare(e.Topic, true, false, false, false, nil); err != nil {
			p.resetLocked()
			return errs.Wrap(err, "rabbitmq: queue declare failed")
		}
		p.declared[e.Topic] = true
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID.String(),
		Type:         e.Topic,
		Timestamp:    e.CreatedAt.UTC(),
		Body:         e.Payload,
	}
	if err := ch.PublishWithContext(ctx, p.exchange, e.Topic, false, false, pub); err != nil {
		p.resetLocked()
		return errs.Wrap(err, "rabbitmq: publish failed")
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	return nil
}

// LogPublisher stands in for a broker when none is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, e shared.OutboxEvent) error {
	p.logger.Debug("event published",
		slog.String("topic", e.Topic),
		slog.String("event_id", e.ID.String()),
		slog.String("aggregate_id", e.AggregateID.String()),
		slog.Time("created_at", e.CreatedAt.Truncate(time.Millisecond)))
	return nil
}

func (p *LogPublisher) Close() error { return nil }
