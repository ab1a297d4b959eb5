package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionLimiter(t *testing.T) {
	limiter := newConnectionLimiter(2)

	_, ok := limiter.acquire("10.0.0.1")
	assert.True(t, ok)
	count, ok := limiter.acquire("10.0.0.1")
	assert.True(t, ok)
	assert.Equal(t, 2, count)

	count, ok = limiter.acquire("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 2, count)

	_, ok = limiter.acquire("10.0.0.2")
	assert.True(t, ok)

	assert.Equal(t, 1, limiter.release("10.0.0.1"))
	_, ok = limiter.acquire("10.0.0.1")
	assert.True(t, ok)

	limiter.release("10.0.0.2")
	assert.NotContains(t, limiter.ipCounter, "10.0.0.2")
}
