// AngelaMos | 2026
// database_test.go

package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJitteredDuration(t *testing.T) {
	// A disabled lifetime cap must stay disabled, not panic.
	assert.Equal(t, time.Duration(0), jitteredDuration(0))
	assert.Equal(t, -time.Second, jitteredDuration(-time.Second))

	// Bases too small to carve a jitter span from pass through.
	assert.Equal(t, 3*time.Nanosecond, jitteredDuration(3*time.Nanosecond))

	base := 7 * time.Minute
	for i := 0; i < 50; i++ {
		got := jitteredDuration(base)
		assert.GreaterOrEqual(t, got, base)
		assert.Less(t, got, base+base/7)
	}
}
