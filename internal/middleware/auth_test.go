package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dineqr-order-service/internal/auth"
)

func TestHotelAuth(t *testing.T) {
	const secret = "mw-test-secret"
	hotelID := int64(12)

	staffToken := func(t *testing.T, hid *int64) string {
		t.Helper()
		token, err := auth.SignAccessToken(secret, auth.Claims{
			UserID:  1,
			HotelID: hid,
			Role:    auth.RoleHotelStaff,
		}, time.Hour)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return token
	}

	handler := HotelAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := HotelIDFrom(r.Context())
		if !ok {
			t.Error("claims missing from context")
		}
		if id != hotelID {
			t.Errorf("hotel id = %d, want %d", id, hotelID)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "valid token", authHeader: "Bearer " + staffToken(t, &hotelID), wantStatus: http.StatusNoContent},
		{name: "no header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", authHeader: "Token abc", wantStatus: http.StatusUnauthorized},
		{name: "bad token", authHeader: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "no hotel binding", authHeader: "Bearer " + staffToken(t, nil), wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/staff/orders", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetRequestID(r.Context()) == "" {
			t.Error("request id missing from context")
		}
	}))

	t.Run("generates an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Header().Get("X-Request-Id") == "" {
			t.Error("X-Request-Id header not set")
		}
	})

	t.Run("honors upstream id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-Id", "upstream-id")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if got := rec.Header().Get("X-Request-Id"); got != "upstream-id" {
			t.Errorf("X-Request-Id = %q, want upstream-id", got)
		}
	})
}
