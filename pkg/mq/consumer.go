package mq

import (
	"context"
	"errors"
	"fmt"

	"go-recruitment-crm/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

type ConsumerConfig struct {
	URL      string
	Exchange string
	Queue    string
	Bindings []string
	Prefetch int
	// DLXName enables a dead-letter exchange and "<queue>.dlq" when set.
	DLXName string
	Tag     string
}

type Consumer struct {
	cfg  ConsumerConfig
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewConsumer declares the exchange, queue, bindings and optional DLX.
func NewConsumer(cfg ConsumerConfig) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	c := &Consumer{cfg: cfg, conn: conn, ch: ch}
	if err := c.declare(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Consumer) declare() error {
	if err := c.ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	args := amqp.Table{}
	if c.cfg.DLXName != "" {
		args["x-dead-letter-exchange"] = c.cfg.DLXName
		if err := c.ch.ExchangeDeclare(c.cfg.DLXName, "topic", true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare dlx: %w", err)
		}
		dlq := c.cfg.Queue + ".dlq"
		if _, err := c.ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare dlq: %w", err)
		}
		if err := c.ch.QueueBind(dlq, "#", c.cfg.DLXName, false, nil); err != nil {
			return fmt.Errorf("bind dlq: %w", err)
		}
	}

	q, err := c.ch.QueueDeclare(c.cfg.Queue, true, false, false, false, args)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	for _, key := range c.cfg.Bindings {
		if err := c.ch.QueueBind(q.Name, key, c.cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}

	prefetch := c.cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 8
	}
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	return nil
}

// HandlerFunc processes one message. Returning an error nacks it; permanent
// errors are not requeued.
type HandlerFunc func(ctx context.Context, routingKey string, body []byte) error

// PermanentError marks a message that will never succeed (bad payload).
type PermanentError struct{ Err error }

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Run consumes until ctx is cancelled or the channel closes.
func (c *Consumer) Run(ctx context.Context, handle HandlerFunc) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.cfg.Queue, c.cfg.Tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			Dispatch(ctx, d, handle)
		}
	}
}

// Acknowledger is the part of amqp.Delivery that settling needs.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Dispatch runs handle for d and acks or nacks it.
func Dispatch(ctx context.Context, d amqp.Delivery, handle HandlerFunc) {
	Settle(ctx, &d, d.RoutingKey, d.Body, d.Redelivered, handle)
}

// Settle acks on success. Failures are requeued once; permanent failures and
// failed redeliveries go to the dead-letter exchange.
func Settle(ctx context.Context, ack Acknowledger, key string, body []byte, redelivered bool, handle HandlerFunc) {
	err := handle(ctx, key, body)
	if err == nil {
		_ = ack.Ack(false)
		return
	}

	var perm *PermanentError
	requeue := !redelivered && !errors.As(err, &perm)
	logger.Log.Error("message handling failed", "routing_key", key, "requeue", requeue, "error", err)
	_ = ack.Nack(false, requeue)
}

func (c *Consumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
