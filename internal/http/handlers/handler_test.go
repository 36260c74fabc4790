package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dineqr-order-service/internal/ordering"
)

func requestWithURLParam(name, value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestURLParamInt64(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int64
		ok    bool
	}{
		{name: "valid", value: "42", want: 42, ok: true},
		{name: "zero", value: "0", ok: false},
		{name: "negative", value: "-3", ok: false},
		{name: "not a number", value: "abc", ok: false},
		{name: "empty", value: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := urlParamInt64(requestWithURLParam("orderID", tt.value), "orderID")
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("value = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","bogus":true}`))
	var dst struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(req, &dst); err == nil {
		t.Error("expected unknown field to be rejected")
	}
}

func TestWriteDomainError(t *testing.T) {
	h := &Handler{Logger: zap.NewNop()}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantOpaque bool
	}{
		{
			name:       "capacity exceeded",
			err:        ordering.NewTableCapacityExceededError("T1"),
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "TABLE_CAPACITY_EXCEEDED",
		},
		{
			name:       "active order conflict",
			err:        ordering.NewActiveOrderConflictError("item still in play"),
			wantStatus: http.StatusConflict,
			wantCode:   "ACTIVE_ORDER_CONFLICT",
		},
		{
			name:       "not found",
			err:        ordering.NewOrderNotFoundError(),
			wantStatus: http.StatusNotFound,
			wantCode:   "ORDER_NOT_FOUND",
		},
		{
			name:       "persistence detail is not leaked",
			err:        ordering.NewPersistenceError(errors.New("pq: connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "PERSISTENCE_ERROR",
			wantOpaque: true,
		},
		{
			name:       "untyped error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
			wantOpaque: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.writeDomainError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Success {
				t.Error("success should be false")
			}
			if body.Error != tt.wantCode {
				t.Errorf("error code = %q, want %q", body.Error, tt.wantCode)
			}
			if tt.wantOpaque && strings.Contains(body.Message, "refused") {
				t.Errorf("internal detail leaked: %q", body.Message)
			}
		})
	}
}
