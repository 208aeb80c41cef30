package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldownTracker(t *testing.T) {
	assert := assert.New(t)

	tr := NewCooldownTracker()
	now := time.Now()

	assert.False(tr.IsOnCooldown("rule", "u1", now))

	tr.StartCooldown("rule", "u1", time.Minute, now)
	assert.True(tr.IsOnCooldown("rule", "u1", now.Add(30*time.Second)))
	assert.False(tr.IsOnCooldown("rule", "u1", now.Add(time.Minute)))

	// scoped per rule and per user
	assert.False(tr.IsOnCooldown("rule", "u2", now))
	assert.False(tr.IsOnCooldown("other", "u1", now))
}

func TestCooldownTrackerZeroDuration(t *testing.T) {
	assert := assert.New(t)

	tr := NewCooldownTracker()
	now := time.Now()

	// zero means the rule has no throttle at all
	tr.StartCooldown("rule", "u1", 0, now)
	assert.False(tr.IsOnCooldown("rule", "u1", now))
}

func TestCooldownTrackerSweep(t *testing.T) {
	assert := assert.New(t)

	tr := NewCooldownTracker()
	now := time.Now()

	tr.StartCooldown("rule", "u1", time.Minute, now)
	tr.StartCooldown("rule", "u2", 2*time.Minute, now)

	assert.Equal(0, tr.Sweep(now))
	assert.Equal(1, tr.Sweep(now.Add(time.Minute)))
	assert.Equal(1, tr.Sweep(now.Add(3*time.Minute)))
}
