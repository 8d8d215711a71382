package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"electrostore/internal/domain"
)

const EventsExchange = "ecommerce.events"

// Publisher announces committed orders to the rest of the system.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, o *domain.Order) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) PublishOrderCreated(context.Context, *domain.Order) error { return nil }

// AMQPPublisher publishes JSON events to a durable topic exchange.
type AMQPPublisher struct {
	mu sync.Mutex // amqp channels are not safe for concurrent publishes
	ch *amqp.Channel
}

func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	return conn, nil
}

func NewAMQPPublisher(conn *amqp.Connection) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", EventsExchange, err)
	}
	return &AMQPPublisher{ch: ch}, nil
}

func (p *AMQPPublisher) Close() error { return p.ch.Close() }

func (p *AMQPPublisher) PublishOrderCreated(ctx context.Context, o *domain.Order) error {
	body, err := json.Marshal(NewOrderCreated(o))
	if err != nil {
		return fmt.Errorf("marshal OrderCreated: %w", err)
	}
	return p.publishJSON(ctx, OrderCreatedRoutingKey, o.ID, body)
}

func (p *AMQPPublisher) publishJSON(ctx context.Context, routingKey, correlationID string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := p.ch.PublishWithContext(ctx, EventsExchange, routingKey, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     uuid.NewString(),
		CorrelationId: correlationID,
		Timestamp:     time.Now().UTC(),
		Body:          body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}
