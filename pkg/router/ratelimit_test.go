package router

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlidingWindowAdmitsUpToLimit(t *testing.T) {
	w := newSlidingWindow(3, time.Minute)
	now := time.Now()

	assert.True(t, w.allow(now))
	assert.True(t, w.allow(now.Add(time.Second)))
	assert.True(t, w.allow(now.Add(2*time.Second)))
	assert.False(t, w.allow(now.Add(3*time.Second)))
}

func TestSlidingWindowPurgesExpired(t *testing.T) {
	w := newSlidingWindow(2, time.Minute)
	now := time.Now()

	assert.True(t, w.allow(now))
	assert.True(t, w.allow(now.Add(time.Second)))
	assert.False(t, w.allow(now.Add(2*time.Second)))

	// Both stamps fall out of the trailing window; the burst resets.
	assert.True(t, w.allow(now.Add(61*time.Second)))
	assert.True(t, w.allow(now.Add(62*time.Second)))
	assert.False(t, w.allow(now.Add(63*time.Second)))
}

func TestSlidingWindowRejectionNotRecorded(t *testing.T) {
	w := newSlidingWindow(1, time.Minute)
	now := time.Now()

	assert.True(t, w.allow(now))
	for i := 0; i < 5; i++ {
		assert.False(t, w.allow(now.Add(time.Duration(i)*time.Second)))
	}

	// Rejected requests left no trace: a single slot opens once the sole
	// admitted stamp expires.
	assert.True(t, w.allow(now.Add(61*time.Second)))
}

func TestSlidingWindowOldest(t *testing.T) {
	w := newSlidingWindow(5, time.Minute)
	now := time.Now()

	_, _, ok := w.oldest(now)
	assert.False(t, ok)

	w.allow(now)
	w.allow(now.Add(time.Second))

	oldest, count, ok := w.oldest(now.Add(2 * time.Second))
	assert.True(t, ok)
	assert.Equal(t, 2, count)
	assert.Equal(t, now, oldest)
}
