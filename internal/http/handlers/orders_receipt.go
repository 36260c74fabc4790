package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"

	"dineqr-order-service/internal/middleware"
	"dineqr-order-service/internal/ordering"
	"dineqr-order-service/pkg/response"
)

// OrderReceipt renders the order as a PDF for printing or sharing with the
// guest.
func (h *Handler) OrderReceipt(w http.ResponseWriter, r *http.Request) {
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

	var hotelName, hotelAddress string
	if err := h.DB.QueryRow(r.Context(), `
		select name, address from hotels where id = $1
	`, hotelID).Scan(&hotelName, &hotelAddress); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt #"+strconv.FormatInt(order.ID, 10), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, hotelName, "", 1, "C", false, 0, "")
	if hotelAddress != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, hotelAddress, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Order #%d    Table %s", order.ID, order.TableNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Placed "+order.CreatedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Status "+string(order.Status), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(90, 8, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range order.Items {
		name := item.Name
		if item.Customization != "" {
			name += " (" + item.Customization + ")"
		}
		pdf.CellFormat(90, 8, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, strconv.Itoa(item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", item.Price), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", item.Price*float64(item.Quantity)), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(150, 10, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(35, 10, fmt.Sprintf("%.2f", order.Total), "T", 1, "R", false, 0, "")

	if order.PaymentRef != nil {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 6, "Payment ref: "+*order.PaymentRef, "", 1, "L", false, 0, "")
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		`attachment; filename="receipt-`+strconv.FormatInt(order.ID, 10)+`.pdf"`)
	if err := pdf.Output(w); err != nil {
		h.Logger.Error("render receipt failed", zap.Error(err))
	}
}
