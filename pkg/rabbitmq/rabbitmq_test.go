package rabbitmq_test

import (
	"testing"
	"time"

	"orderuz/internal/models"
	"orderuz/pkg/rabbitmq"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeOrderEvent(t *testing.T) {
	event := models.OrderEvent{
		Type:      models.EventOrderCreated,
		OrderID:   "ORD-1",
		AccountID: "acc-1",
		Status:    models.StatusPending,
		Total:     90000,
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	msg, err := rabbitmq.EncodeOrderEvent(event)
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "ORD-1", msg.MessageId)
	assert.Equal(t, models.EventOrderCreated, msg.Type)

	decoded, err := rabbitmq.DecodeOrderEvent(msg.Body)
	require.NoError(t, err)
	assert.Equal(t, event, decoded)

	_, err = rabbitmq.DecodeOrderEvent([]byte("{not json"))
	assert.Error(t, err)
}

func TestEncodeOrderEvent_DefaultsTimestamp(t *testing.T) {
	msg, err := rabbitmq.EncodeOrderEvent(models.OrderEvent{Type: models.EventOrderHistoryClear})
	require.NoError(t, err)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestLogOrderEvent(t *testing.T) {
	assert.NoError(t, rabbitmq.LogOrderEvent(models.OrderEvent{Type: models.EventOrderCreated, OrderID: "ORD-1"}))
}

func TestEncodeOrderEvent_HistoryClearUsesAccountID(t *testing.T) {
	msg, err := rabbitmq.EncodeOrderEvent(models.OrderEvent{Type: models.EventOrderHistoryClear, AccountID: "acc-7"})
	require.NoError(t, err)
	assert.Equal(t, "acc-7", msg.MessageId)
}
