package ordering

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DefaultTable is used when a guest orders without scanning a table QR, e.g.
// walk-up counter orders.
const DefaultTable = "Counter"

// dbConn is satisfied by both *pgxpool.Pool and pgx.Tx so queries can run
// inside or outside a transaction.
type dbConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type OrderItem struct {
	ID            int64   `json:"id"`
	MenuItemID    int64   `json:"menuItemId"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	Customization string  `json:"customization,omitempty"`
}

type Order struct {
	ID          int64       `json:"id"`
	HotelID     int64       `json:"hotelId"`
	TableNumber string      `json:"table"`
	DeviceID    string      `json:"deviceId"`
	Items       []OrderItem `json:"items"`
	Total       float64     `json:"total"`
	Status      Status      `json:"status"`
	PaymentRef  *string     `json:"paymentRef,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type ItemInput struct {
	MenuItemID    int64
	Quantity      int
	Customization string
}

type CreateParams struct {
	HotelID     int64
	TableNumber string
	DeviceID    string
	Items       []ItemInput
}

func (p *CreateParams) validate() *Error {
	if p.HotelID <= 0 {
		return NewValidationError("hotelId is required")
	}
	if strings.TrimSpace(p.DeviceID) == "" {
		return NewValidationError("deviceId is required")
	}
	if len(p.Items) == 0 {
		return NewValidationError("order must contain at least one item")
	}
	for _, item := range p.Items {
		if item.MenuItemID <= 0 {
			return NewValidationError("menuItemId is required for every item")
		}
		if item.Quantity < 1 {
			return NewValidationError("item quantity must be at least 1")
		}
	}
	if strings.TrimSpace(p.TableNumber) == "" {
		p.TableNumber = DefaultTable
	}
	return nil
}
