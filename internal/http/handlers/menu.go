package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"dineqr-order-service/internal/menu"
	"dineqr-order-service/internal/middleware"
	"dineqr-order-service/internal/ordering"
	"dineqr-order-service/internal/utils"
	"dineqr-order-service/pkg/response"
)

type menuItem struct {
	ID           int64     `json:"id"`
	CategoryID   *int64    `json:"categoryId,omitempty"`
	CategoryName *string   `json:"categoryName,omitempty"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	ImageURL     *string   `json:"imageUrl,omitempty"`
	Available    bool      `json:"available"`
	CreatedAt    time.Time `json:"createdAt"`
}

const menuItemColumns = `
	m.id, m.category_id, c.name, m.name, m.description, m.price,
	m.image_url, m.available, m.created_at
`

func scanMenuItem(row pgx.Row) (menuItem, error) {
	var (
		item  menuItem
		price pgtype.Numeric
	)
	err := row.Scan(
		&item.ID, &item.CategoryID, &item.CategoryName, &item.Name, &item.Description,
		&price, &item.ImageURL, &item.Available, &item.CreatedAt,
	)
	if err != nil {
		return menuItem{}, err
	}
	item.Price = utils.NumericToFloat64(price)
	return item, nil
}

func (h *Handler) queryMenuItems(r *http.Request, hotelID int64, onlyAvailable bool) ([]menuItem, error) {
	query := `
		select ` + menuItemColumns + `
		from menus m
		left join categories c on c.id = m.category_id
		where m.hotel_id = $1 and m.deleted_at is null`
	if onlyAvailable {
		query += ` and m.available`
	}
	query += ` order by c.name nulls last, m.name`

	rows, err := h.DB.Query(r.Context(), query, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]menuItem, 0)
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	hotelID, _ := middleware.HotelIDFrom(r.Context())
	items, err := h.queryMenuItems(r, hotelID, false)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	response.Success(w, items)
}

// GetPublicMenu serves the guest menu: available items only, grouped by
// category.
func (h *Handler) GetPublicMenu(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := urlParamInt64(r, "hotelID")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid hotel id")
		return
	}

	var exists bool
	if err := h.DB.QueryRow(r.Context(), `select exists (select 1 from hotels where id = $1)`, hotelID).Scan(&exists); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if !exists {
		h.writeDomainError(w, r, ordering.NewHotelNotFoundError())
		return
	}

	items, err := h.queryMenuItems(r, hotelID, true)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	type menuSection struct {
		Category string     `json:"category"`
		Items    []menuItem `json:"items"`
	}
	sections := make([]menuSection, 0)
	index := make(map[string]int)
	for _, item := range items {
		name := "Other"
		if item.CategoryName != nil {
			name = *item.CategoryName
		}
		i, ok := index[name]
		if !ok {
			i = len(sections)
			index[name] = i
			sections = append(sections, menuSection{Category: name, Items: make([]menuItem, 0, 4)})
		}
		sections[i].Items = append(sections[i].Items, item)
	}
	response.Success(w, sections)
}

type menuItemRequest struct {
	CategoryID  *int64  `json:"categoryId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    *string `json:"imageUrl"`
	Available   *bool   `json:"available"`
}

func (req *menuItemRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.Price < 0 {
		return "price cannot be negative"
	}
	return ""
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	hotelID, _ := middleware.HotelIDFrom(r.Context())

	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}
	if req.CategoryID != nil && !h.categoryBelongsToHotel(r, hotelID, *req.CategoryID) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown category")
		return
	}

	available := req.Available == nil || *req.Available
	var itemID int64
	err := h.DB.QueryRow(r.Context(), `
		insert into menus (hotel_id, category_id, name, description, price, image_url, available)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning id
	`, hotelID, req.CategoryID, req.Name, req.Description, req.Price, req.ImageURL, available).Scan(&itemID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	item, err := h.getMenuItem(r, hotelID, itemID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	response.Created(w, item)
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	hotelID, _ := middleware.HotelIDFrom(r.Context())
	itemID, ok := urlParamInt64(r, "itemID")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid item id")
		return
	}

	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}
	if req.CategoryID != nil && !h.categoryBelongsToHotel(r, hotelID, *req.CategoryID) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown category")
		return
	}

	// Price edits only affect future orders; placed orders keep snapshots.
	tag, err := h.DB.Exec(r.Context(), `
		update menus set
			category_id = $1, name = $2, description = $3, price = $4,
			image_url = $5, updated_at = now()
		where id = $6 and hotel_id = $7 and deleted_at is null
	`, req.CategoryID, req.Name, req.Description, req.Price, req.ImageURL, itemID, hotelID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if tag.RowsAffected() == 0 {
		h.writeDomainError(w, r, ordering.NewItemNotFoundError("menu item not found"))
		return
	}

	item, err := h.getMenuItem(r, hotelID, itemID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	response.Success(w, item)
}

func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	hotelID, _ := middleware.HotelIDFrom(r.Context())
	itemID, ok := urlParamInt64(r, "itemID")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid item id")
		return
	}

	if err := menu.Delete(r.Context(), h.DB, hotelID, itemID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	response.Success(w, map[string]bool{"deleted": true})
}

func (h *Handler) SetMenuItemAvailability(w http.ResponseWriter, r *http.Request) {
	hotelID, _ := middleware.HotelIDFrom(r.Context())
	itemID, ok := urlParamInt64(r, "itemID")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid item id")
		return
	}

	var req struct {
		Available *bool `json:"available"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Available == nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "available is required")
		return
	}

	if err := menu.SetAvailable(r.Context(), h.DB, hotelID, itemID, *req.Available); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	item, err := h.getMenuItem(r, hotelID, itemID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	response.Success(w, item)
}

func (h *Handler) getMenuItem(r *http.Request, hotelID, itemID int64) (menuItem, error) {
	item, err := scanMenuItem(h.DB.QueryRow(r.Context(), `
		select `+menuItemColumns+`
		from menus m
		left join categories c on c.id = m.category_id
		where m.id = $1 and m.hotel_id = $2 and m.deleted_at is null
	`, itemID, hotelID))
	if errors.Is(err, pgx.ErrNoRows) {
		return menuItem{}, ordering.NewItemNotFoundError("menu item not found")
	}
	return item, err
}

func (h *Handler) categoryBelongsToHotel(r *http.Request, hotelID, categoryID int64) bool {
	var ok bool
	err := h.DB.QueryRow(r.Context(), `
		select exists (select 1 from categories where id = $1 and hotel_id = $2)
	`, categoryID, hotelID).Scan(&ok)
	return err == nil && ok
}
