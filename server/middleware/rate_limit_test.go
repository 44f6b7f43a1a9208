package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	// burst exhausted
	assert.False(t, rl.Allow("10.0.0.1"))

	// a different client has its own bucket
	assert.True(t, rl.Allow("10.0.0.2"))
}
