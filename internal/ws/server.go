// Package ws streams order changes over WebSockets. Change detection rides on
// Postgres LISTEN/NOTIFY: the ordering package fires pg_notify inside the same
// transaction that mutates an order, so subscribers never see a phantom
// update.
package ws

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dineqr-order-service/internal/middleware"
	"dineqr-order-service/internal/ordering"
	"dineqr-order-service/internal/utils"
	"dineqr-order-service/pkg/response"
)

const notifyChannel = "orders_updates"

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) writeJSON(payload any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(payload)
}

type Server struct {
	pool        *pgxpool.Pool
	logger      *zap.Logger
	trackSecret string
	upgrader    websocket.Upgrader

	mu     sync.Mutex
	staff  map[int64]map[*client]struct{}  // keyed by hotel id
	orders map[string]map[*client]struct{} // keyed by "hotelID:orderID"
}

func NewServer(pool *pgxpool.Pool, logger *zap.Logger, trackingSecret string, allowedOrigins []string) *Server {
	return &Server{
		pool:        pool,
		logger:      logger,
		trackSecret: trackingSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		staff:  make(map[int64]map[*client]struct{}),
		orders: make(map[string]map[*client]struct{}),
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[strings.TrimRight(origin, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := strings.TrimRight(r.Header.Get("Origin"), "/")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Run holds a dedicated connection on LISTEN and fans notifications out to
// subscribers. It reconnects with backoff until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	for {
		if err := s.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("order notification listener failed, reconnecting", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

func (s *Server) listen(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "listen "+notifyChannel); err != nil {
		return err
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		hotelID, orderID, ok := parseNotifyPayload(notification.Payload)
		if !ok {
			continue
		}
		s.dispatch(ctx, hotelID, orderID)
	}
}

func parseNotifyPayload(payload string) (hotelID, orderID int64, ok bool) {
	parts := strings.Split(payload, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	hotelID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	orderID, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return hotelID, orderID, true
}

func (s *Server) dispatch(ctx context.Context, hotelID, orderID int64) {
	s.mu.Lock()
	staffClients := make([]*client, 0, len(s.staff[hotelID]))
	for c := range s.staff[hotelID] {
		staffClients = append(staffClients, c)
	}
	orderKey := orderSubKey(hotelID, orderID)
	orderClients := make([]*client, 0, len(s.orders[orderKey]))
	for c := range s.orders[orderKey] {
		orderClients = append(orderClients, c)
	}
	s.mu.Unlock()

	if len(staffClients) == 0 && len(orderClients) == 0 {
		return
	}

	order, err := ordering.GetOrder(ctx, s.pool, hotelID, orderID)
	if err != nil {
		s.logger.Warn("load order for broadcast failed",
			zap.Int64("hotelId", hotelID),
			zap.Int64("orderId", orderID),
			zap.Error(err),
		)
		return
	}

	for _, c := range staffClients {
		if err := c.writeJSON(map[string]any{"type": "order", "order": order}); err != nil {
			s.dropClient(c)
		}
	}
	statusMessage := map[string]any{
		"type":    "status",
		"orderId": order.ID,
		"status":  order.Status,
		"total":   order.Total,
	}
	for _, c := range orderClients {
		if err := c.writeJSON(statusMessage); err != nil {
			s.dropClient(c)
		}
	}
}

func orderSubKey(hotelID, orderID int64) string {
	return strconv.FormatInt(hotelID, 10) + ":" + strconv.FormatInt(orderID, 10)
}

// HandleStaff streams every order change for the authenticated hotel. Mounted
// behind HotelAuth.
func (s *Server) HandleStaff(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := middleware.HotelIDFrom(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing hotel claims")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn}

	s.mu.Lock()
	if s.staff[hotelID] == nil {
		s.staff[hotelID] = make(map[*client]struct{})
	}
	s.staff[hotelID][c] = struct{}{}
	s.mu.Unlock()

	s.readUntilClose(c)
}

// HandlePublicOrder streams status updates for a single order. The guest
// authenticates with the tracking token handed out at order time.
func (s *Server) HandlePublicOrder(w http.ResponseWriter, r *http.Request) {
	hotelID, orderID, ok := utils.VerifyTrackingToken(s.trackSecret, r.URL.Query().Get("token"))
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid tracking token")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn}
	key := orderSubKey(hotelID, orderID)

	s.mu.Lock()
	if s.orders[key] == nil {
		s.orders[key] = make(map[*client]struct{})
	}
	s.orders[key][c] = struct{}{}
	s.mu.Unlock()

	// Push the current state immediately so the client does not wait for the
	// next transition.
	if order, err := ordering.GetOrder(r.Context(), s.pool, hotelID, orderID); err == nil {
		_ = c.writeJSON(map[string]any{
			"type":    "status",
			"orderId": order.ID,
			"status":  order.Status,
			"total":   order.Total,
		})
	}

	s.readUntilClose(c)
}

// readUntilClose drains the connection; clients never send data, reading just
// detects the close frame.
func (s *Server) readUntilClose(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	s.dropClient(c)
}

func (s *Server) dropClient(c *client) {
	s.mu.Lock()
	for hotelID, clients := range s.staff {
		if _, ok := clients[c]; ok {
			delete(clients, c)
			if len(clients) == 0 {
				delete(s.staff, hotelID)
			}
		}
	}
	for key, clients := range s.orders {
		if _, ok := clients[c]; ok {
			delete(clients, c)
			if len(clients) == 0 {
				delete(s.orders, key)
			}
		}
	}
	s.mu.Unlock()
	_ = c.conn.Close()
}
