package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"dineqr-order-service/internal/config"
	"dineqr-order-service/internal/http/handlers"
	"dineqr-order-service/internal/middleware"
	"dineqr-order-service/internal/ws"
)

func NewRouter(h *handlers.Handler, wsServer *ws.Server, cfg config.Config, log *zap.Logger) nethttp.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Telemetry(log))
	r.Use(chimiddleware.Recoverer)

	allowedOrigins := cfg.CorsAllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)

	// WebSocket routes sit outside the request timeout on purpose.
	r.Route("/ws", func(r chi.Router) {
		r.With(middleware.HotelAuth(cfg.JWTSecret)).Get("/staff/orders", wsServer.HandleStaff)
		r.Get("/orders", wsServer.HandlePublicOrder)
	})

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

		r.Route("/api/auth", func(r chi.Router) {
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
		})

		r.Route("/api/public", func(r chi.Router) {
			r.Get("/hotels/{hotelID}", h.GetPublicHotel)
			r.Get("/hotels/{hotelID}/menu", h.GetPublicMenu)
			r.Get("/hotels/{hotelID}/my-orders", h.MyOrders)
			r.Post("/orders", h.CreateOrder)
			r.Get("/orders/track", h.TrackOrder)
			r.Get("/orders/payment-options", h.GetPaymentOptions)
		})

		r.Route("/api/staff", func(r chi.Router) {
			r.Use(middleware.HotelAuth(cfg.JWTSecret))

			r.Get("/hotel", h.GetMyHotel)
			r.Patch("/hotel", h.UpdateMyHotel)

			r.Get("/categories", h.ListCategories)
			r.Post("/categories", h.CreateCategory)
			r.Delete("/categories/{categoryID}", h.DeleteCategory)

			r.Get("/menu", h.ListMenu)
			r.Post("/menu", h.CreateMenuItem)
			r.Put("/menu/{itemID}", h.UpdateMenuItem)
			r.Delete("/menu/{itemID}", h.DeleteMenuItem)
			r.Patch("/menu/{itemID}/availability", h.SetMenuItemAvailability)

			r.Get("/orders", h.ListOrders)
			r.Get("/orders/{orderID}", h.GetOrder)
			r.Post("/orders/{orderID}/advance", h.AdvanceOrder)
			r.Post("/orders/{orderID}/pay", h.MarkOrderPaid)
			r.Get("/orders/{orderID}/receipt", h.OrderReceipt)
		})
	})

	return r
}
