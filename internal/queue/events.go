package queue

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type OrderEvent struct {
	HotelID    int64     `json:"hotelId"`
	OrderID    int64     `json:"orderId"`
	Table      string    `json:"table"`
	Status     string    `json:"status"`
	Total      float64   `json:"total"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher emits order events to the topic exchange. A nil Publisher is a
// valid no-op so the service runs without a broker in development. Publish
// failures are logged and swallowed: an order must never fail because the
// broker is down.
type Publisher struct {
	client *Client
	logger *zap.Logger
}

func NewPublisher(client *Client, logger *zap.Logger) *Publisher {
	if client == nil {
		return nil
	}
	return &Publisher{client: client, logger: logger}
}

func (p *Publisher) OrderCreated(ctx context.Context, event OrderEvent) {
	p.publish(ctx, RoutingOrderCreated, event)
}

func (p *Publisher) OrderItemsAppended(ctx context.Context, event OrderEvent) {
	p.publish(ctx, RoutingOrderItemsAppended, event)
}

func (p *Publisher) OrderStatusUpdated(ctx context.Context, event OrderEvent) {
	p.publish(ctx, RoutingOrderStatusUpdated, event)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, event OrderEvent) {
	if p == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := p.client.PublishJSON(ctx, EventsExchange, routingKey, event); err != nil {
		p.logger.Error("publish order event failed",
			zap.String("routingKey", routingKey),
			zap.Int64("orderId", event.OrderID),
			zap.Error(err),
		)
	}
}
