package db

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Schema bootstrap is idempotent and runs at process start. The unique partial
// index on orders is load-bearing: it is what makes "at most one non-terminal
// order per (hotel, device)" hold under concurrent creates.
var schemaStatements = []string{
	`create table if not exists hotels (
		id bigint generated always as identity primary key,
		name text not null,
		address text not null default '',
		upi_id text not null default '',
		verified boolean not null default false,
		plan text not null default 'free',
		plan_expiry timestamptz,
		max_tables int not null default 10,
		max_orders_per_table int not null default 5,
		legacy_menu jsonb,
		legacy_menu_imported_at timestamptz,
		created_at timestamptz not null default now(),
		updated_at timestamptz not null default now()
	)`,
	`create table if not exists users (
		id bigint generated always as identity primary key,
		hotel_id bigint references hotels (id),
		email text not null unique,
		password_hash text not null,
		role text not null default 'HOTEL_OWNER',
		created_at timestamptz not null default now()
	)`,
	`create table if not exists categories (
		id bigint generated always as identity primary key,
		hotel_id bigint not null references hotels (id),
		name text not null,
		created_at timestamptz not null default now()
	)`,
	`create table if not exists menus (
		id bigint generated always as identity primary key,
		hotel_id bigint not null references hotels (id),
		category_id bigint references categories (id),
		name text not null,
		description text not null default '',
		price numeric(12,2) not null check (price >= 0),
		image_url text,
		available boolean not null default true,
		deleted_at timestamptz,
		created_at timestamptz not null default now(),
		updated_at timestamptz not null default now()
	)`,
	`create table if not exists orders (
		id bigint generated always as identity primary key,
		hotel_id bigint not null references hotels (id),
		table_number text not null,
		device_id text not null,
		total numeric(12,2) not null default 0,
		status text not null default 'pending'
			check (status in ('pending', 'cooking', 'served', 'paid')),
		payment_ref text,
		created_at timestamptz not null default now(),
		updated_at timestamptz not null default now()
	)`,
	`create table if not exists order_items (
		id bigint generated always as identity primary key,
		order_id bigint not null references orders (id) on delete cascade,
		menu_item_id bigint not null,
		name text not null,
		price numeric(12,2) not null check (price >= 0),
		quantity int not null check (quantity >= 1),
		customization text not null default '',
		created_at timestamptz not null default now()
	)`,
	`create index if not exists menus_hotel_idx on menus (hotel_id)`,
	`create index if not exists categories_hotel_idx on categories (hotel_id)`,
	`create index if not exists orders_hotel_device_status_idx on orders (hotel_id, device_id, status)`,
	`create index if not exists orders_hotel_table_status_idx on orders (hotel_id, table_number, status)`,
	`create index if not exists order_items_menu_item_idx on order_items (menu_item_id)`,
	`create unique index if not exists orders_one_active_per_device_idx
		on orders (hotel_id, device_id)
		where status in ('pending', 'cooking', 'served')`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

type legacyMenuItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Available   *bool   `json:"available"`
	Image       string  `json:"image"`
}

// ImportLegacyMenus flattens hotel-embedded menu arrays into the normalized
// menus table. The embedded form is a migration source only: once a hotel is
// imported it is stamped and never re-read, so there is no steady-state
// dual-write.
func ImportLegacyMenus(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	rows, err := pool.Query(ctx, `
		select id, legacy_menu
		from hotels
		where legacy_menu is not null and legacy_menu_imported_at is null
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	type pendingImport struct {
		hotelID int64
		raw     []byte
	}
	pending := make([]pendingImport, 0)
	for rows.Next() {
		var p pendingImport
		if err := rows.Scan(&p.hotelID, &p.raw); err != nil {
			return err
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range pending {
		if err := importHotelLegacyMenu(ctx, pool, p.hotelID, p.raw); err != nil {
			return err
		}
		log.Info("legacy embedded menu imported", zap.Int64("hotelId", p.hotelID))
	}

	return nil
}

func importHotelLegacyMenu(ctx context.Context, pool *pgxpool.Pool, hotelID int64, raw []byte) error {
	var items []legacyMenuItem
	if err := json.Unmarshal(raw, &items); err != nil {
		// Malformed legacy payloads are stamped rather than retried forever;
		// the raw document stays in place for manual inspection.
		_, markErr := pool.Exec(ctx, `update hotels set legacy_menu_imported_at = now() where id = $1`, hotelID)
		return markErr
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	categoryIDs := make(map[string]int64)
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" || item.Price < 0 {
			continue
		}

		var categoryID *int64
		categoryName := strings.TrimSpace(item.Category)
		if categoryName != "" {
			id, ok := categoryIDs[categoryName]
			if !ok {
				if err := tx.QueryRow(ctx, `
					select id from categories where hotel_id = $1 and name = $2
				`, hotelID, categoryName).Scan(&id); err != nil {
					if err := tx.QueryRow(ctx, `
						insert into categories (hotel_id, name) values ($1, $2) returning id
					`, hotelID, categoryName).Scan(&id); err != nil {
						return err
					}
				}
				categoryIDs[categoryName] = id
			}
			categoryID = &id
		}

		available := item.Available == nil || *item.Available
		var imageURL *string
		if strings.TrimSpace(item.Image) != "" {
			imageURL = &item.Image
		}

		if _, err := tx.Exec(ctx, `
			insert into menus (hotel_id, category_id, name, description, price, image_url, available)
			values ($1, $2, $3, $4, $5, $6, $7)
		`, hotelID, categoryID, name, item.Description, item.Price, imageURL, available); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `update hotels set legacy_menu_imported_at = now() where id = $1`, hotelID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
