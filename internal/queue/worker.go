package queue

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

const (
	orderEventsQueue = "dineqr.order-events"
	maxEventRetries  = 3
)

// SetupTopology declares the exchange and the default worker queue. Safe to
// call on every boot.
func SetupTopology(client *Client) error {
	if err := client.EnsureExchange(EventsExchange); err != nil {
		return err
	}
	if _, err := client.EnsureQueue(orderEventsQueue); err != nil {
		return err
	}
	return client.BindQueue(orderEventsQueue, EventsExchange, "order.#")
}

// RunOrderEventsWorker consumes order events until the context is cancelled.
// The built-in worker just records the event stream; heavier consumers run as
// separate processes with their own queues.
func RunOrderEventsWorker(ctx context.Context, client *Client, logger *zap.Logger) error {
	return client.ConsumeWithRetry(ctx, orderEventsQueue, maxEventRetries, func(ctx context.Context, body []byte) error {
		var event OrderEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return err
		}
		logger.Info("order event",
			zap.Int64("hotelId", event.HotelID),
			zap.Int64("orderId", event.OrderID),
			zap.String("table", event.Table),
			zap.String("status", event.Status),
			zap.Float64("total", event.Total),
		)
		return nil
	})
}
