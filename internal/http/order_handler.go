package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/storefrontlab/orders-service/internal/order"
)

type OrderHandler struct {
	repo      order.Repository
	publisher OrderEventsPublisher
	logger    *log.Logger
}

// OrderEventsPublisher emits OrderCreated events for the delivery tracker.
type OrderEventsPublisher interface {
	PublishOrderCreated(ctx context.Context, o *order.Order) error
}

func NewOrderHandler(repo order.Repository, publisher OrderEventsPublisher, logger *log.Logger) *OrderHandler {
	return &OrderHandler{repo: repo, publisher: publisher, logger: logger}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFrom(r.Context())

	var body struct {
		Total *float64 `json:"total"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	total := 0.0
	if body.Total != nil {
		total = *body.Total
	}
	if total < 0 {
		writeError(w, http.StatusBadRequest, "total must not be negative")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.repo.CreateFromCart(ctx, userID, total)
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			writeError(w, http.StatusBadRequest, "cart is empty")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	// The order is committed; a failed publish is logged and the delivery
	// tracker catches up out of band.
	if h.publisher != nil {
		if err := h.publisher.PublishOrderCreated(ctx, o); err != nil {
			h.logger.Printf("publish OrderCreated for %s: %v", o.Ref, err)
		}
	}

	writeJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.repo.ListByUser(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}
