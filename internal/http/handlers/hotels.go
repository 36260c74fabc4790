package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"dineqr-order-service/internal/middleware"
	"dineqr-order-service/internal/ordering"
	"dineqr-order-service/pkg/response"
)

type hotelProfile struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	UPIID             string    `json:"upiId"`
	Verified          bool      `json:"verified"`
	Plan              string    `json:"plan"`
	MaxTables         int       `json:"maxTables"`
	MaxOrdersPerTable int       `json:"maxOrdersPerTable"`
	CreatedAt         time.Time `json:"createdAt"`
}

// publicHotel is the guest-facing subset; plan and limits stay private.
type publicHotel struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (h *Handler) GetMyHotel(w http.ResponseWriter, r *http.Request) {
	hotelID, _ := middleware.HotelIDFrom(r.Context())

	var hotel hotelProfile
	err := h.DB.QueryRow(r.Context(), `
		select id, name, address, upi_id, verified, plan, max_tables, max_orders_per_table, created_at
		from hotels where id = $1
	`, hotelID).Scan(
		&hotel.ID, &hotel.Name, &hotel.Address, &hotel.UPIID, &hotel.Verified,
		&hotel.Plan, &hotel.MaxTables, &hotel.MaxOrdersPerTable, &hotel.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			h.writeDomainError(w, r, ordering.NewHotelNotFoundError())
			return
		}
		h.writeDomainError(w, r, err)
		return
	}
	response.Success(w, hotel)
}

type updateHotelRequest struct {
	Name              *string `json:"name"`
	Address           *string `json:"address"`
	UPIID             *string `json:"upiId"`
	MaxTables         *int    `json:"maxTables"`
	MaxOrdersPerTable *int    `json:"maxOrdersPerTable"`
}

func (h *Handler) UpdateMyHotel(w http.ResponseWriter, r *http.Request) {
	hotelID, _ := middleware.HotelIDFrom(r.Context())

	var req updateHotelRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "name cannot be empty")
		return
	}
	if req.MaxTables != nil && *req.MaxTables < 1 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "maxTables must be at least 1")
		return
	}
	if req.MaxOrdersPerTable != nil && *req.MaxOrdersPerTable < 1 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "maxOrdersPerTable must be at least 1")
		return
	}

	tag, err := h.DB.Exec(r.Context(), `
		update hotels set
			name = coalesce($1, name),
			address = coalesce($2, address),
			upi_id = coalesce($3, upi_id),
			max_tables = coalesce($4, max_tables),
			max_orders_per_table = coalesce($5, max_orders_per_table),
			updated_at = now()
		where id = $6
	`, req.Name, req.Address, req.UPIID, req.MaxTables, req.MaxOrdersPerTable, hotelID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if tag.RowsAffected() == 0 {
		h.writeDomainError(w, r, ordering.NewHotelNotFoundError())
		return
	}

	h.GetMyHotel(w, r)
}

// GetPublicHotel serves the landing data behind the table QR code.
func (h *Handler) GetPublicHotel(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := urlParamInt64(r, "hotelID")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid hotel id")
		return
	}

	var hotel publicHotel
	err := h.DB.QueryRow(r.Context(), `
		select id, name, address from hotels where id = $1
	`, hotelID).Scan(&hotel.ID, &hotel.Name, &hotel.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			h.writeDomainError(w, r, ordering.NewHotelNotFoundError())
			return
		}
		h.writeDomainError(w, r, err)
		return
	}
	response.Success(w, hotel)
}
