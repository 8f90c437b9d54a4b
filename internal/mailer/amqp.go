package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPClient publishes and consumes confirmation email jobs through a durable
// RabbitMQ queue.
type AMQPClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

func NewAMQPClient(url, queueName string) (*AMQPClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	// Declaring the queue is idempotent; durable so jobs survive a broker
	// restart.
	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring queue %q: %w", queueName, err)
	}

	return &AMQPClient{conn: conn, channel: ch, queue: q}, nil
}

func (c *AMQPClient) PublishConfirmation(ctx context.Context, msg ConfirmationEmail) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	err = c.channel.PublishWithContext(ctx, "", c.queue.Name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publishing to queue %q: %w", c.queue.Name, err)
	}
	return nil
}

// Consume delivers each queued job to handler until ctx is cancelled. A
// failed job is requeued once; a second failure drops it.
func (c *AMQPClient) Consume(ctx context.Context, handler func(context.Context, ConfirmationEmail) error) error {
	deliveries, err := c.channel.Consume(c.queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("starting consumer on queue %q: %w", c.queue.Name, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			handleDelivery(ctx, d, handler)
		}
	}
}

func handleDelivery(ctx context.Context, d amqp.Delivery, handler func(context.Context, ConfirmationEmail) error) {
	var msg ConfirmationEmail
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		// Unparseable jobs can never succeed; drop them.
		_ = d.Nack(false, false)
		return
	}

	if err := handler(ctx, msg); err != nil {
		// One retry per job: the redelivered flag marks the second attempt,
		// after which the job is dropped so a permanently failing recipient
		// cannot keep the consumer in a redelivery loop.
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
}

func (c *AMQPClient) Close() error {
	if err := c.channel.Close(); err != nil {
		return err
	}
	return c.conn.Close()
}
