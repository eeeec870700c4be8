package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/storefrontlab/orders-service/internal/cart"
	"github.com/storefrontlab/orders-service/internal/metrics"
	"github.com/storefrontlab/orders-service/internal/order"
)

func NewRouter(
	cartStore cart.Store,
	orderRepo order.Repository,
	publisher OrderEventsPublisher,
	m *metrics.HTTPMetrics,
	logger *log.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("GET /metrics", m.Handler())

	ch := NewCartHandler(cartStore)
	oh := NewOrderHandler(orderRepo, publisher, logger)

	handle := func(pattern, name string, h http.HandlerFunc) {
		mux.Handle(pattern, RequireUserID(Instrument(m, name, h)))
	}

	handle("POST /api/cart/add", "cart_add", ch.AddItem)
	handle("POST /api/cart/remove", "cart_remove", ch.RemoveItem)
	handle("GET /api/cart", "cart_get", ch.GetCart)
	handle("POST /api/orders", "order_create", oh.CreateOrder)
	handle("GET /api/orders", "order_list", oh.ListOrders)

	return Recover(logger)(mux)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "orders-service",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
