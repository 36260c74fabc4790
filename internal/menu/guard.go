// Package menu holds the operations on menu items that must stay consistent
// with the order lifecycle. Plain CRUD reads live in the HTTP layer; anything
// that has to look at order state goes through here.
package menu

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dineqr-order-service/internal/ordering"
)

// Delete soft-deletes a menu item, refusing while any unsettled order still
// references it. Deleting the row outright would break the item snapshots on
// order history, so deletion is always a deleted_at stamp.
func Delete(ctx context.Context, pool *pgxpool.Pool, hotelID, itemID int64) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return ordering.NewPersistenceError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var name string
	err = tx.QueryRow(ctx, `
		select name from menus
		where id = $1 and hotel_id = $2 and deleted_at is null
		for update
	`, itemID, hotelID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ordering.NewItemNotFoundError("menu item not found")
		}
		return ordering.NewPersistenceError(err)
	}

	var referenced bool
	err = tx.QueryRow(ctx, `
		select exists (
			select 1
			from order_items oi
			join orders o on o.id = oi.order_id
			where oi.menu_item_id = $1
			and o.hotel_id = $2
			and o.status in ('pending', 'cooking', 'served')
		)
	`, itemID, hotelID).Scan(&referenced)
	if err != nil {
		return ordering.NewPersistenceError(err)
	}
	if referenced {
		return ordering.NewActiveOrderConflictError(name + " is part of an order that has not been settled yet")
	}

	if _, err := tx.Exec(ctx, `
		update menus set deleted_at = now(), updated_at = now() where id = $1
	`, itemID); err != nil {
		return ordering.NewPersistenceError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return ordering.NewPersistenceError(err)
	}
	return nil
}

// SetAvailable toggles the 86 flag. Unlike Delete it never consults orders:
// existing order lines keep their snapshots and only new orders are blocked.
func SetAvailable(ctx context.Context, pool *pgxpool.Pool, hotelID, itemID int64, available bool) error {
	tag, err := pool.Exec(ctx, `
		update menus set available = $1, updated_at = now()
		where id = $2 and hotel_id = $3 and deleted_at is null
	`, available, itemID, hotelID)
	if err != nil {
		return ordering.NewPersistenceError(err)
	}
	if tag.RowsAffected() == 0 {
		return ordering.NewItemNotFoundError("menu item not found")
	}
	return nil
}
