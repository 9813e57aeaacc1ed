package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	zlog "github.com/rs/zerolog/log"

	"github.com/carhive/interaction-service/internal/domain"
	"github.com/carhive/interaction-service/internal/queue"
)

const (
	DefaultExchange = "car.interactions"
	RoutingKey      = "interaction.recorded"

	// Wait window for Return / Confirm
	publishWait = 150 * time.Millisecond
)

// Publisher is the external-broker variant of the publish contract. Each
// message is sent individually with the event id as the broker MessageId;
// any transport failure surfaces as a publish_failed AppError so the write
// path can answer service-unavailable instead of dropping events.
type Publisher struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
	returnCh  <-chan amqp.Return
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	p := &Publisher{
		url:      url,
		exchange: exchange,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}

	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	// enable publisher confirms
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	p.conn = conn
	p.ch = ch

	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.returnCh = ch.NotifyReturn(make(chan amqp.Return, 1))

	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	return nil
}

// PublishEvents publishes each message in input order and returns the ids in
// the same order. The first transport failure aborts the batch.
func (p *Publisher) PublishEvents(ctx context.Context, msgs []queue.Message) ([]string, error) {
	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if err := p.publishOne(ctx, m); err != nil {
			return nil, domain.ErrPublishFailed("failed to publish event "+m.ID, err)
		}
		zlog.Info().
			Str("event_id", m.ID).
			Str("user_id", m.UserID).
			Str("type", m.Type).
			Msg("event published")
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func (p *Publisher) publishOne(ctx context.Context, m queue.Message) error {
	body, err := json.Marshal(m)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return errors.New("publisher channel not ready")
	}

	err = p.ch.PublishWithContext(
		ctx,
		p.exchange,
		RoutingKey,
		true,  // mandatory
		false, // immediate
		amqp.Publishing{
			MessageId:   m.ID,
			ContentType: "application/json",
			Timestamp:   time.Now().UTC(),
			Body:        body,
		},
	)
	if err != nil {
		return err
	}

	// Wait for either Return (NO_ROUTE) or Confirm
	select {
	case ret := <-p.returnCh:
		return errors.New("NO_ROUTE: " + ret.RoutingKey)
	case conf := <-p.confirmCh:
		if !conf.Ack {
			return errors.New("publish nack")
		}
		return nil
	case <-time.After(publishWait):
		// best-effort window; if neither arrives, treat as accepted
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
