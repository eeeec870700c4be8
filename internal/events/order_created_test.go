package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefrontlab/orders-service/internal/order"
)

func sampleOrder() *order.Order {
	return &order.Order{
		Ref:    "ORD-1A2B3C4D",
		UserID: "user-1",
		Items: []order.Item{
			{ProductID: "milk", Quantity: 1},
			{ProductID: "bread", Quantity: 2},
		},
		Total:     99.5,
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildOrderCreatedEnvelope(t *testing.T) {
	ev := BuildOrderCreatedEnvelope(sampleOrder(), 3, "corr-1")

	require.NoError(t, ev.Validate(orderCreatedEventName, orderCreatedEventVersion))
	assert.Equal(t, "ORD-1A2B3C4D", ev.PartitionKey)
	assert.Equal(t, int64(3), ev.Sequence)
	assert.Equal(t, "corr-1", ev.CorrelationID)
	assert.Equal(t, producerName, ev.Producer)
	assert.NotEmpty(t, ev.EventID)

	assert.Equal(t, "ORD-1A2B3C4D", ev.Payload.OrderRef)
	assert.Equal(t, "user-1", ev.Payload.UserID)
	assert.Equal(t, 99.5, ev.Payload.Total)
	require.Len(t, ev.Payload.Items, 2)
	assert.Equal(t, OrderItem{ProductID: "milk", Quantity: 1}, ev.Payload.Items[0])
}

func TestBuildOrderCreatedEnvelope_GeneratesCorrelationID(t *testing.T) {
	ev := BuildOrderCreatedEnvelope(sampleOrder(), 1, "")
	assert.NotEmpty(t, ev.CorrelationID)
}

func TestOrderCreatedEnvelope_JSONRoundTrip(t *testing.T) {
	ev := BuildOrderCreatedEnvelope(sampleOrder(), 1, "corr-1")

	body, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded OrderCreatedEnvelope
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.NoError(t, decoded.Validate(orderCreatedEventName, orderCreatedEventVersion))
	assert.Equal(t, ev.Payload, decoded.Payload)
}

func TestEnvelopeValidate_RejectsWrongIdentity(t *testing.T) {
	ev := BuildOrderCreatedEnvelope(sampleOrder(), 1, "")

	assert.Error(t, ev.Validate("OrderCompleted", orderCreatedEventVersion))
	assert.Error(t, ev.Validate(orderCreatedEventName, 2))

	ev.PartitionKey = ""
	assert.Error(t, ev.Validate(orderCreatedEventName, orderCreatedEventVersion))
}
