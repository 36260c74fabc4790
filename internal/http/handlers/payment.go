package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5"

	"dineqr-order-service/internal/ordering"
	"dineqr-order-service/internal/utils"
	"dineqr-order-service/pkg/response"
)

type paymentOptions struct {
	OrderID int64   `json:"orderId"`
	Total   float64 `json:"total"`
	Status  string  `json:"status"`
	UPIURI  string  `json:"upiUri,omitempty"`
}

// GetPaymentOptions gives the guest what they need to pay: the current total
// and, when the hotel has a UPI handle on file, a upi://pay deep link.
func (h *Handler) GetPaymentOptions(w http.ResponseWriter, r *http.Request) {
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

	options := paymentOptions{
		OrderID: order.ID,
		Total:   order.Total,
		Status:  string(order.Status),
	}

	var hotelName, upiID string
	err = h.DB.QueryRow(r.Context(), `
		select name, upi_id from hotels where id = $1
	`, hotelID).Scan(&hotelName, &upiID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		h.writeDomainError(w, r, err)
		return
	}
	if upiID != "" && !order.Status.Terminal() {
		options.UPIURI = utils.BuildUPIPaymentURI(upiID, hotelName, order.Total,
			"Order #"+strconv.FormatInt(order.ID, 10)+" at "+hotelName)
	}

	response.Success(w, options)
}
