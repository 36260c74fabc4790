package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildUPIPaymentURI renders a upi://pay deep link the guest's payment app can
// open. Amount is formatted with two decimals as UPI handlers expect.
func BuildUPIPaymentURI(upiID, payeeName string, amount float64, note string) string {
	values := url.Values{}
	values.Set("pa", strings.TrimSpace(upiID))
	if name := strings.TrimSpace(payeeName); name != "" {
		values.Set("pn", name)
	}
	values.Set("am", fmt.Sprintf("%.2f", amount))
	values.Set("cu", "INR")
	if tn := strings.TrimSpace(note); tn != "" {
		values.Set("tn", tn)
	}
	return "upi://pay?" + values.Encode()
}
