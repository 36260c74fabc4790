package ordering

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Advance moves an order one step along the lifecycle. Advancing a paid order
// is a no-op that returns the order unchanged.
func Advance(ctx context.Context, pool *pgxpool.Pool, hotelID, orderID int64) (*Order, error) {
	return updateStatus(ctx, pool, hotelID, orderID, nil, func(current Status) Status {
		return current.Next()
	})
}

// MarkPaid settles an order from any state. Settlement may arrive while the
// kitchen is mid-flow, so it does not walk the intermediate steps. The payment
// reference lands in the same transaction as the status flip so an order can
// never be paid without its reference or vice versa.
func MarkPaid(ctx context.Context, pool *pgxpool.Pool, hotelID, orderID int64, paymentRef *string) (*Order, error) {
	return updateStatus(ctx, pool, hotelID, orderID, paymentRef, func(Status) Status {
		return StatusPaid
	})
}

func updateStatus(ctx context.Context, pool *pgxpool.Pool, hotelID, orderID int64, paymentRef *string, next func(Status) Status) (*Order, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, NewPersistenceError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current Status
	err = tx.QueryRow(ctx, `
		select status from orders where id = $1 and hotel_id = $2 for update
	`, orderID, hotelID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NewOrderNotFoundError()
		}
		return nil, NewPersistenceError(err)
	}

	target := next(current)
	if target != current {
		if _, err := tx.Exec(ctx, `
			update orders set status = $1, updated_at = now() where id = $2
		`, target, orderID); err != nil {
			return nil, NewPersistenceError(err)
		}
		if err := notifyOrderChanged(ctx, tx, hotelID, orderID); err != nil {
			return nil, err
		}
	}
	if paymentRef != nil {
		if _, err := tx.Exec(ctx, `
			update orders set payment_ref = $1, updated_at = now() where id = $2
		`, *paymentRef, orderID); err != nil {
			return nil, NewPersistenceError(err)
		}
	}

	order, err := GetOrder(ctx, tx, hotelID, orderID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, NewPersistenceError(err)
	}
	return order, nil
}
