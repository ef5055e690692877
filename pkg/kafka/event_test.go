package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderCreated struct {
	OrderID     string `json:"order_id"`
	TotalAmount int64  `json:"total_amount"`
}

func TestNewEvent(t *testing.T) {
	event, err := NewEvent("skandr.order.created", "order-1", "order", "skandr-shop",
		orderCreated{OrderID: "order-1", TotalAmount: 45000})

	require.NoError(t, err)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "skandr.order.created", event.EventType)
	assert.Equal(t, "order-1", event.AggregateID)
	assert.Equal(t, "order", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.False(t, event.Timestamp.IsZero())
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("bad", "id", "order", "src", make(chan int))

	require.Error(t, err)
}

func TestEvent_RoundTrip(t *testing.T) {
	event, err := NewEvent("skandr.order.created", "order-1", "order", "skandr-shop",
		orderCreated{OrderID: "order-1", TotalAmount: 45000})
	require.NoError(t, err)

	raw, err := event.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)

	var payload orderCreated
	require.NoError(t, decoded.UnmarshalData(&payload))
	assert.Equal(t, "order-1", payload.OrderID)
	assert.Equal(t, int64(45000), payload.TotalAmount)
}

func TestEvent_WithCorrelationID(t *testing.T) {
	event, err := NewEvent("skandr.order.created", "order-1", "order", "skandr-shop", nil)
	require.NoError(t, err)

	event.WithCorrelationID("corr-1")

	assert.Equal(t, "corr-1", event.CorrelationID)
}
