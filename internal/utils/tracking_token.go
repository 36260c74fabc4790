package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Order tracking tokens let a guest poll their order without an account.
// Format is base64url(hotelID:orderID) + "." + base64url(hmac-sha256).
func SignTrackingToken(secret string, hotelID, orderID int64) string {
	payload := fmt.Sprintf("%d:%d", hotelID, orderID)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	sig := mac.Sum(nil)
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + base64.RawURLEncoding.EncodeToString(sig)
}

func VerifyTrackingToken(secret, token string) (hotelID int64, orderID int64, ok bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return 0, 0, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return 0, 0, false
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return 0, 0, false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return 0, 0, false
	}

	fields := strings.Split(string(payload), ":")
	if len(fields) != 2 {
		return 0, 0, false
	}
	hotelID, err = strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	orderID, err = strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return hotelID, orderID, true
}
