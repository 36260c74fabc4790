package handlers

import (
	"net/http"
	"strings"
	"time"

	"dineqr-order-service/internal/middleware"
	"dineqr-order-service/pkg/response"
)

type category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	hotelID, _ := middleware.HotelIDFrom(r.Context())

	rows, err := h.DB.Query(r.Context(), `
		select id, name, created_at from categories where hotel_id = $1 order by name
	`, hotelID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	defer rows.Close()

	categories := make([]category, 0)
	for rows.Next() {
		var c category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	response.Success(w, categories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	hotelID, _ := middleware.HotelIDFrom(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}

	var c category
	err := h.DB.QueryRow(r.Context(), `
		insert into categories (hotel_id, name) values ($1, $2)
		returning id, name, created_at
	`, hotelID, strings.TrimSpace(req.Name)).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	response.Created(w, c)
}

// DeleteCategory detaches the category from its items rather than cascading;
// the items survive uncategorized.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	hotelID, _ := middleware.HotelIDFrom(r.Context())
	categoryID, ok := urlParamInt64(r, "categoryID")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid category id")
		return
	}

	ctx := r.Context()
	tx, err := h.DB.Begin(ctx)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		update menus set category_id = null, updated_at = now()
		where category_id = $1 and hotel_id = $2
	`, categoryID, hotelID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	tag, err := tx.Exec(ctx, `
		delete from categories where id = $1 and hotel_id = $2
	`, categoryID, hotelID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "category not found")
		return
	}

	if err := tx.Commit(ctx); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	response.Success(w, map[string]bool{"deleted": true})
}
