package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/carhive/interaction-service/internal/consumer"
	"github.com/carhive/interaction-service/internal/queue"
)

// Consumer is the broker-triggered variant: it binds a durable queue to the
// interaction exchange and drives each delivery through the shared retry
// loop. Malformed messages and retry-exhausted messages are Nack'd without
// requeue, which the DLX routes to the dead-letter queue.
type Consumer struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
	persister consumer.Persister

	maxAttempts int
	backoffBase time.Duration
}

func NewConsumer(rabbitURL, exchange string, p consumer.Persister, maxAttempts int, backoffBase time.Duration) (*Consumer, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if maxAttempts < 1 {
		maxAttempts = consumer.DefaultMaxAttempts
	}
	if backoffBase <= 0 {
		backoffBase = consumer.DefaultBackoffBase
	}

	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	dlxName := "car.interactions.dlx"
	err = ch.ExchangeDeclare(dlxName, "fanout", true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to declare dlx: %w", err)
	}

	dlqName := "interaction-recorder.dlq"
	_, err = ch.QueueDeclare(dlqName, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to declare dlq: %w", err)
	}
	err = ch.QueueBind(dlqName, "", dlxName, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to bind dlq: %w", err)
	}

	queueName := "interaction-recorder"
	q, err := ch.QueueDeclare(queueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange": dlxName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare main queue: %w", err)
	}

	err = ch.QueueBind(q.Name, RoutingKey, exchange, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	return &Consumer{
		conn:        conn,
		channel:     ch,
		queueName:   q.Name,
		persister:   p,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
	}, nil
}

// Start begins consuming messages.
func (c *Consumer) Start(ctx context.Context) {
	go c.consume(ctx)
	log.Info().
		Str("queue", c.queueName).
		Msg("interaction consumer started")
}

func (c *Consumer) consume(ctx context.Context) {
	msgs, err := c.channel.Consume(
		c.queueName, "", false, false, false, false, nil,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to start consuming")
		return
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("consumer shutting down")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Warn().Msg("consumer channel closed")
				return
			}
			c.handleMessage(ctx, msg)
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	log.Debug().
		Str("message_id", msg.MessageId).
		Msg("received interaction message")

	var m queue.Message
	if err := json.Unmarshal(msg.Body, &m); err != nil {
		log.Error().Err(err).Str("message_id", msg.MessageId).Msg("failed to unmarshal message")
		msg.Nack(false, false) // Poison message -> DLQ
		return
	}

	if err := consumer.PersistWithRetry(ctx, c.persister, m, c.maxAttempts, c.backoffBase); err != nil {
		if ctx.Err() != nil {
			// shutdown mid-processing; requeue for the next consumer
			msg.Nack(false, true)
			return
		}
		log.Error().
			Err(err).
			Str("event_id", m.ID).
			Msg("retries exhausted, sending to DLQ")
		msg.Nack(false, false)
		return
	}

	msg.Ack(false)
}

// Close closes the consumer connection.
func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
