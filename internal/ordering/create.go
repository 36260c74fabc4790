package ordering

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"dineqr-order-service/internal/utils"
)

const uniqueViolationCode = "23505"

// CreateOrAppend is the single entry point for guest orders. If the device
// already has a non-terminal order at this hotel the new items are appended to
// it, otherwise a fresh order is created subject to the per-table cap.
//
// Two devices racing to create can both miss the existing-order lookup; the
// partial unique index rejects the second insert and we retry once, which then
// takes the append path against the winner's row.
func CreateOrAppend(ctx context.Context, pool *pgxpool.Pool, params CreateParams) (*Order, bool, error) {
	if verr := params.validate(); verr != nil {
		return nil, false, verr
	}

	order, appended, err := createOrAppendOnce(ctx, pool, params)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return createOrAppendOnce(ctx, pool, params)
		}
		return nil, false, err
	}
	return order, appended, nil
}

func createOrAppendOnce(ctx context.Context, pool *pgxpool.Pool, params CreateParams) (*Order, bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, false, NewPersistenceError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var maxOrdersPerTable int
	err = tx.QueryRow(ctx, `
		select max_orders_per_table from hotels where id = $1
	`, params.HotelID).Scan(&maxOrdersPerTable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, NewHotelNotFoundError()
		}
		return nil, false, NewPersistenceError(err)
	}

	var orderID int64
	err = tx.QueryRow(ctx, `
		select id from orders
		where hotel_id = $1 and device_id = $2 and status in `+activeStatusesSQL+`
		for update
	`, params.HotelID, params.DeviceID).Scan(&orderID)
	appended := err == nil
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, NewPersistenceError(err)
	}

	if !appended {
		// Opening a new order locks the hotel row first. Without it, two
		// creates from different devices both count the table before either
		// insert commits and the cap is breached.
		err = tx.QueryRow(ctx, `
			select max_orders_per_table from hotels where id = $1 for update
		`, params.HotelID).Scan(&maxOrdersPerTable)
		if err != nil {
			return nil, false, NewPersistenceError(err)
		}

		var activeAtTable int
		err = tx.QueryRow(ctx, `
			select count(*) from orders
			where hotel_id = $1 and table_number = $2 and status in `+activeStatusesSQL+`
		`, params.HotelID, params.TableNumber).Scan(&activeAtTable)
		if err != nil {
			return nil, false, NewPersistenceError(err)
		}
		if activeAtTable >= maxOrdersPerTable {
			return nil, false, NewTableCapacityExceededError(params.TableNumber)
		}

		err = tx.QueryRow(ctx, `
			insert into orders (hotel_id, table_number, device_id)
			values ($1, $2, $3)
			returning id
		`, params.HotelID, params.TableNumber, params.DeviceID).Scan(&orderID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
				return nil, false, err
			}
			return nil, false, NewPersistenceError(err)
		}
	}

	if err := appendItems(ctx, tx, params.HotelID, orderID, params.Items); err != nil {
		return nil, false, err
	}
	if err := recomputeTotal(ctx, tx, orderID); err != nil {
		return nil, false, err
	}
	if err := notifyOrderChanged(ctx, tx, params.HotelID, orderID); err != nil {
		return nil, false, err
	}

	order, err := GetOrder(ctx, tx, params.HotelID, orderID)
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, NewPersistenceError(err)
	}
	return order, appended, nil
}

// appendItems snapshots name and price at order time so later menu edits never
// reprice a placed order. Each append inserts fresh rows for the same reason.
//
// The menu row is read with a share lock. The delete guard takes the same row
// for update, so a delete and an order referencing the item serialize against
// each other: whichever commits second sees the other's write instead of
// racing past the conflict check.
func appendItems(ctx context.Context, tx pgx.Tx, hotelID, orderID int64, items []ItemInput) error {
	for _, item := range items {
		var (
			name      string
			price     pgtype.Numeric
			available bool
		)
		err := tx.QueryRow(ctx, `
			select name, price, available from menus
			where id = $1 and hotel_id = $2 and deleted_at is null
			for share
		`, item.MenuItemID, hotelID).Scan(&name, &price, &available)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return NewItemNotFoundError("menu item " + strconv.FormatInt(item.MenuItemID, 10) + " not found")
			}
			return NewPersistenceError(err)
		}
		if !available {
			return NewValidationError(name + " is currently unavailable")
		}

		_, err = tx.Exec(ctx, `
			insert into order_items (order_id, menu_item_id, name, price, quantity, customization)
			values ($1, $2, $3, $4, $5, $6)
		`, orderID, item.MenuItemID, name, utils.NumericToFloat64(price), item.Quantity, item.Customization)
		if err != nil {
			return NewPersistenceError(err)
		}
	}
	return nil
}

func recomputeTotal(ctx context.Context, tx pgx.Tx, orderID int64) error {
	_, err := tx.Exec(ctx, `
		update orders
		set total = (
			select coalesce(sum(price * quantity), 0)
			from order_items
			where order_id = $1
		), updated_at = now()
		where id = $1
	`, orderID)
	if err != nil {
		return NewPersistenceError(err)
	}
	return nil
}

func notifyOrderChanged(ctx context.Context, conn dbConn, hotelID, orderID int64) error {
	_, err := conn.Exec(ctx, `select pg_notify('orders_updates', $1)`,
		strconv.FormatInt(hotelID, 10)+":"+strconv.FormatInt(orderID, 10))
	if err != nil {
		return NewPersistenceError(err)
	}
	return nil
}
