package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/baechuer/task-manager/internal/application/auth"
)

const (
	DefaultExchange = "task.events"

	RoutingUserRegistered = "user.registered"
	RoutingUserDeleted    = "user.deleted"

	// upper bound on waiting for the broker's confirm
	confirmWait = 2 * time.Second
)

// Publisher sends profile lifecycle events to a durable topic exchange with
// publisher confirms. It reconnects lazily after a channel failure.
type Publisher struct {
	url      string
	exchange string
	log      zerolog.Logger

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
	returnCh  <-chan amqp.Return
}

func NewPublisher(url, exchange string, log zerolog.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{
		url:      url,
		exchange: exchange,
		log:      log,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetConn()
	return nil
}

// ---- auth.EventPublisher ----

func (p *Publisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	return p.publishJSON(ctx, RoutingUserRegistered, evt)
}

func (p *Publisher) PublishUserDeleted(ctx context.Context, evt auth.UserDeletedEvent) error {
	return p.publishJSON(ctx, RoutingUserDeleted, evt)
}

// ---- internal ----

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		p.exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("exchange declare: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("confirm mode: %w", err)
	}

	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.returnCh = ch.NotifyReturn(make(chan amqp.Return, 1))

	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) ensureConnected() error {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil {
		return nil
	}
	return p.connect()
}

func newPublishing(payload any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal payload: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Body:         body,
	}, nil
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, payload any) error {
	msg, err := newPublishing(payload, time.Now())
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, confirmWait)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnected(); err != nil {
		return err
	}

	// drop stale confirms/returns from an earlier timed-out publish
drain:
	for {
		select {
		case <-p.confirmCh:
		case <-p.returnCh:
		default:
			break drain
		}
	}

	// not mandatory: nobody may be listening yet and that is fine
	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		p.resetConn()
		return fmt.Errorf("publish failed: %w", err)
	}

	select {
	case conf := <-p.confirmCh:
		if !conf.Ack {
			return fmt.Errorf("rabbitmq nack: key=%s deliveryTag=%d", routingKey, conf.DeliveryTag)
		}
		p.log.Debug().Str("routing_key", routingKey).Uint64("tag", conf.DeliveryTag).Msg("event published")
		return nil

	case <-ctx.Done():
		return fmt.Errorf("rabbitmq publish %s: %w", routingKey, ctx.Err())
	}
}

func (p *Publisher) resetConn() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
