// Package queue wraps the RabbitMQ plumbing for order events. Downstream
// consumers (kitchen displays, notification senders, analytics) bind their own
// queues to the topic exchange.
package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	EventsExchange = "dineqr.events"

	RoutingOrderCreated       = "order.created"
	RoutingOrderItemsAppended = "order.items.appended"
	RoutingOrderStatusUpdated = "order.status.updated"
)

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger
}

func Connect(url string, logger *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Client{conn: conn, channel: channel, logger: logger}, nil
}

func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Client) EnsureExchange(name string) error {
	return c.channel.ExchangeDeclare(name, "topic", true, false, false, false, nil)
}

func (c *Client) EnsureQueue(name string) (amqp.Queue, error) {
	return c.channel.QueueDeclare(name, true, false, false, false, nil)
}

func (c *Client) BindQueue(queueName, exchange, routingKey string) error {
	return c.channel.QueueBind(queueName, routingKey, exchange, false, nil)
}

func (c *Client) PublishJSON(ctx context.Context, exchange, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.channel.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

// ConsumeWithRetry delivers messages to handle, requeueing failures up to
// maxRetries via the x-retry-count header before dropping them.
func (c *Client) ConsumeWithRetry(ctx context.Context, queueName string, maxRetries int, handle func(ctx context.Context, body []byte) error) error {
	deliveries, err := c.channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return amqp.ErrClosed
			}
			if err := handle(ctx, delivery.Body); err != nil {
				retries := retryCount(delivery.Headers)
				if retries >= maxRetries {
					c.logger.Error("dropping message after retries",
						zap.String("queue", queueName),
						zap.Int("retries", retries),
						zap.Error(err),
					)
					_ = delivery.Nack(false, false)
					continue
				}
				c.logger.Warn("message handling failed, republishing",
					zap.String("queue", queueName),
					zap.Int("retries", retries),
					zap.Error(err),
				)
				_ = c.republishWithRetryCount(ctx, queueName, delivery, retries+1)
				_ = delivery.Ack(false)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

func (c *Client) republishWithRetryCount(ctx context.Context, queueName string, delivery amqp.Delivery, retries int) error {
	headers := amqp.Table{}
	for k, v := range delivery.Headers {
		headers[k] = v
	}
	headers["x-retry-count"] = int32(retries)
	return c.channel.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		ContentType:  delivery.ContentType,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers:      headers,
		Body:         delivery.Body,
	})
}

func retryCount(headers amqp.Table) int {
	switch v := headers["x-retry-count"].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
