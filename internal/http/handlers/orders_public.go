package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"dineqr-order-service/internal/ordering"
	"dineqr-order-service/internal/queue"
	"dineqr-order-service/internal/utils"
	"dineqr-order-service/pkg/response"
)

type createOrderRequest struct {
	HotelID int64  `json:"hotelId"`
	Table   string `json:"table"`
	Device  string `json:"deviceId"`
	Items   []struct {
		MenuItemID    int64  `json:"menuItemId"`
		Quantity      int    `json:"quantity"`
		Customization string `json:"customization"`
	} `json:"items"`
}

type orderResponse struct {
	Order         *ordering.Order `json:"order"`
	Appended      bool            `json:"appended"`
	TrackingToken string          `json:"trackingToken"`
}

// CreateOrder is the guest ordering endpoint. A device with an unsettled order
// at this hotel gets its new items folded into that order; otherwise a new one
// opens, subject to the table's active order cap.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	params := ordering.CreateParams{
		HotelID:     req.HotelID,
		TableNumber: req.Table,
		DeviceID:    req.Device,
		Items:       make([]ordering.ItemInput, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		params.Items = append(params.Items, ordering.ItemInput{
			MenuItemID:    item.MenuItemID,
			Quantity:      item.Quantity,
			Customization: strings.TrimSpace(item.Customization),
		})
	}

	order, appended, err := ordering.CreateOrAppend(r.Context(), h.DB, params)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	event := queue.OrderEvent{
		HotelID: order.HotelID,
		OrderID: order.ID,
		Table:   order.TableNumber,
		Status:  string(order.Status),
		Total:   order.Total,
	}
	if appended {
		h.Events.OrderItemsAppended(r.Context(), event)
	} else {
		h.Events.OrderCreated(r.Context(), event)
	}

	payload := orderResponse{
		Order:         order,
		Appended:      appended,
		TrackingToken: utils.SignTrackingToken(h.Config.TrackingTokenSecret, order.HotelID, order.ID),
	}
	if appended {
		response.Success(w, payload)
		return
	}
	response.Created(w, payload)
}

// TrackOrder returns the order behind a tracking token.
func (h *Handler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	hotelID, orderID, ok := utils.VerifyTrackingToken(h.Config.TrackingTokenSecret, r.URL.Query().Get("token"))
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid tracking token")
		return
	}

	order, err := ordering.GetOrder(r.Context(), h.DB, hotelID, orderID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	response.Success(w, order)
}

// MyOrders lists a device's recent orders at a hotel, newest first.
func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := urlParamInt64(r, "hotelID")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid hotel id")
		return
	}
	deviceID := strings.TrimSpace(r.URL.Query().Get("deviceId"))
	if deviceID == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "deviceId is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	orders, err := ordering.ListByDevice(r.Context(), h.DB, hotelID, deviceID, limit)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	response.Success(w, orders)
}
