package services

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTracker_StopsWhenDone(t *testing.T) {
	var calls atomic.Int32
	tr := NewTracker(2*time.Millisecond, time.Now, func(string, time.Time) bool {
		return calls.Add(1) >= 3
	})

	tr.Start("ORD-1")
	tr.Start("ORD-1")
	assert.True(t, tr.Tracking("ORD-1"))

	assert.Eventually(t, func() bool { return !tr.Tracking("ORD-1") }, time.Second, time.Millisecond)
	tr.StopAll()
	assert.Equal(t, int32(3), calls.Load())
}

func TestTracker_DisabledInterval(t *testing.T) {
	tr := NewTracker(0, time.Now, func(string, time.Time) bool { return true })
	tr.Start("ORD-1")
	assert.False(t, tr.Tracking("ORD-1"))
}

func TestTracker_StopAll(t *testing.T) {
	tr := NewTracker(time.Hour, time.Now, func(string, time.Time) bool { return false })
	tr.Start("ORD-1")
	tr.Start("ORD-2")
	tr.Stop("ORD-1")
	assert.False(t, tr.Tracking("ORD-1"))
	assert.True(t, tr.Tracking("ORD-2"))

	tr.StopAll()
	assert.False(t, tr.Tracking("ORD-2"))
}
