package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dineqr-order-service/internal/config"
	"dineqr-order-service/internal/ordering"
	"dineqr-order-service/internal/queue"
	"dineqr-order-service/pkg/response"
)

type Handler struct {
	DB     *pgxpool.Pool
	Logger *zap.Logger
	Config config.Config
	Events *queue.Publisher
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func urlParamInt64(r *http.Request, name string) (int64, bool) {
	value, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

// writeDomainError translates typed domain errors into the response envelope;
// anything untyped is a 500 and gets logged.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *ordering.Error
	if errors.As(err, &domainErr) {
		if domainErr.StatusCode >= http.StatusInternalServerError {
			h.Logger.Error("request failed",
				zap.String("path", r.URL.Path),
				zap.String("code", string(domainErr.Code)),
				zap.Error(err),
			)
			response.Error(w, domainErr.StatusCode, string(domainErr.Code), "internal error")
			return
		}
		response.Error(w, domainErr.StatusCode, string(domainErr.Code), domainErr.Message)
		return
	}

	h.Logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.Ping(r.Context()); err != nil {
		response.Error(w, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable")
		return
	}
	response.Success(w, map[string]string{"status": "ok"})
}
