package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefrontlab/orders-service/internal/order"
)

const (
	orderCreatedEventName    = "OrderCreated"
	orderCreatedEventVersion = 1
	producerName             = "orders-service"
)

// OrderItem mirrors an order line inside event payloads.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderCreatedPayload is the v1 payload consumed by the delivery tracker,
// keyed on the order reference.
type OrderCreatedPayload struct {
	OrderRef  string      `json:"order_ref"`
	UserID    string      `json:"user_id"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Timestamp time.Time   `json:"timestamp"`
}

// OrderCreatedEnvelope is the enveloped event structure.
type OrderCreatedEnvelope = EventEnvelope[OrderCreatedPayload]

// BuildOrderCreatedEnvelope builds an enveloped OrderCreated event.
func BuildOrderCreatedEnvelope(o *order.Order, seq int64, correlationID string) OrderCreatedEnvelope {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	items := make([]OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}

	return OrderCreatedEnvelope{
		EventName:     orderCreatedEventName,
		EventVersion:  orderCreatedEventVersion,
		EventID:       uuid.NewString(),
		CorrelationID: correlationID,
		Producer:      producerName,
		PartitionKey:  o.Ref,
		Sequence:      seq,
		OccurredAt:    time.Now().UTC(),
		Payload: OrderCreatedPayload{
			OrderRef:  o.Ref,
			UserID:    o.UserID,
			Items:     items,
			Total:     o.Total,
			Timestamp: o.CreatedAt,
		},
	}
}
