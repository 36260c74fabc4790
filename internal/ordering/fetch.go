package ordering

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"dineqr-order-service/internal/utils"
)

func GetOrder(ctx context.Context, conn dbConn, hotelID, orderID int64) (*Order, error) {
	var (
		order Order
		total pgtype.Numeric
	)
	err := conn.QueryRow(ctx, `
		select id, hotel_id, table_number, device_id, total, status, payment_ref, created_at, updated_at
		from orders
		where id = $1 and hotel_id = $2
	`, orderID, hotelID).Scan(
		&order.ID, &order.HotelID, &order.TableNumber, &order.DeviceID,
		&total, &order.Status, &order.PaymentRef, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NewOrderNotFoundError()
		}
		return nil, NewPersistenceError(err)
	}
	order.Total = utils.NumericToFloat64(total)

	order.Items, err = loadItems(ctx, conn, order.ID)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns a hotel's orders newest first, optionally filtered by
// status. Staff dashboards page through this.
func ListOrders(ctx context.Context, conn dbConn, hotelID int64, status *Status, limit int) ([]Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		select id, hotel_id, table_number, device_id, total, status, payment_ref, created_at, updated_at
		from orders
		where hotel_id = $1`
	args := []any{hotelID}
	if status != nil {
		query += ` and status = $2`
		args = append(args, *status)
	}
	query += ` order by created_at desc limit ` + strconv.Itoa(limit)

	return scanOrders(ctx, conn, query, args)
}

// ListByDevice powers the guest's "my orders" view.
func ListByDevice(ctx context.Context, conn dbConn, hotelID int64, deviceID string, limit int) ([]Order, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	query := `
		select id, hotel_id, table_number, device_id, total, status, payment_ref, created_at, updated_at
		from orders
		where hotel_id = $1 and device_id = $2
		order by created_at desc limit ` + strconv.Itoa(limit)
	return scanOrders(ctx, conn, query, []any{hotelID, deviceID})
}

func scanOrders(ctx context.Context, conn dbConn, query string, args []any) ([]Order, error) {
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, NewPersistenceError(err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var (
			order Order
			total pgtype.Numeric
		)
		if err := rows.Scan(
			&order.ID, &order.HotelID, &order.TableNumber, &order.DeviceID,
			&total, &order.Status, &order.PaymentRef, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, NewPersistenceError(err)
		}
		order.Total = utils.NumericToFloat64(total)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, NewPersistenceError(err)
	}

	for i := range orders {
		orders[i].Items, err = loadItems(ctx, conn, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func loadItems(ctx context.Context, conn dbConn, orderID int64) ([]OrderItem, error) {
	rows, err := conn.Query(ctx, `
		select id, menu_item_id, name, price, quantity, customization
		from order_items
		where order_id = $1
		order by id
	`, orderID)
	if err != nil {
		return nil, NewPersistenceError(err)
	}
	defer rows.Close()

	items := make([]OrderItem, 0)
	for rows.Next() {
		var (
			item  OrderItem
			price pgtype.Numeric
		)
		if err := rows.Scan(&item.ID, &item.MenuItemID, &item.Name, &price, &item.Quantity, &item.Customization); err != nil {
			return nil, NewPersistenceError(err)
		}
		item.Price = utils.NumericToFloat64(price)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, NewPersistenceError(err)
	}
	return items, nil
}
