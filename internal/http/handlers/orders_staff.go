package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"dineqr-order-service/internal/middleware"
	"dineqr-order-service/internal/ordering"
	"dineqr-order-service/internal/queue"
	"dineqr-order-service/pkg/response"
)

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	hotelID, _ := middleware.HotelIDFrom(r.Context())

	var statusFilter *ordering.Status
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, ok := ordering.ParseStatus(raw)
		if !ok {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown status "+strconv.Quote(raw))
			return
		}
		statusFilter = &status
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	orders, err := ordering.ListOrders(r.Context(), h.DB, hotelID, statusFilter, limit)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	response.Success(w, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	hotelID, _ := middleware.HotelIDFrom(r.Context())
	orderID, ok := urlParamInt64(r, "orderID")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid order id")
		return
	}

	order, err := ordering.GetOrder(r.Context(), h.DB, hotelID, orderID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	response.Success(w, order)
}

// AdvanceOrder moves an order one step along the kitchen flow. There is no
// way to pick an arbitrary target state; settling out of band goes through
// MarkOrderPaid.
func (h *Handler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	hotelID, _ := middleware.HotelIDFrom(r.Context())
	orderID, ok := urlParamInt64(r, "orderID")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid order id")
		return
	}

	order, err := ordering.Advance(r.Context(), h.DB, hotelID, orderID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.Events.OrderStatusUpdated(r.Context(), queue.OrderEvent{
		HotelID: order.HotelID,
		OrderID: order.ID,
		Table:   order.TableNumber,
		Status:  string(order.Status),
		Total:   order.Total,
	})
	response.Success(w, order)
}

type markPaidRequest struct {
	PaymentRef string `json:"paymentRef"`
}

// MarkOrderPaid settles an order regardless of where it is in the kitchen
// flow. A payment reference can come from the payment app; otherwise one is
// generated so the settlement is still traceable.
func (h *Handler) MarkOrderPaid(w http.ResponseWriter, r *http.Request) {
	hotelID, _ := middleware.HotelIDFrom(r.Context())
	orderID, ok := urlParamInt64(r, "orderID")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid order id")
		return
	}

	var req markPaidRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
			return
		}
	}
	ref := strings.TrimSpace(req.PaymentRef)
	if ref == "" {
		ref = "manual-" + uuid.NewString()
	}

	order, err := ordering.MarkPaid(r.Context(), h.DB, hotelID, orderID, &ref)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.Events.OrderStatusUpdated(r.Context(), queue.OrderEvent{
		HotelID: order.HotelID,
		OrderID: order.ID,
		Table:   order.TableNumber,
		Status:  string(order.Status),
		Total:   order.Total,
	})
	response.Success(w, order)
}
