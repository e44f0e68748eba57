package pubsub_test

import (
	"testing"

	"orderuz/internal/pubsub"

	"github.com/stretchr/testify/assert"
)

func TestHub_PublishReachesSubscribersInOrder(t *testing.T) {
	hub := pubsub.NewHub[int]()
	var got []string

	hub.Subscribe(func(v int) { got = append(got, "a") })
	hub.Subscribe(func(v int) { got = append(got, "b") })

	hub.Publish(1)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 2, hub.Len())
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := pubsub.NewHub[string]()
	calls := 0
	unsubscribe := hub.Subscribe(func(string) { calls++ })

	hub.Publish("x")
	unsubscribe()
	unsubscribe()
	hub.Publish("y")

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, hub.Len())
}

func TestHub_PublishWithoutSubscribers(t *testing.T) {
	hub := pubsub.NewHub[struct{}]()
	assert.NotPanics(t, func() { hub.Publish(struct{}{}) })
}
