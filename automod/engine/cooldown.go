package engine

import (
	"sync"
	"time"
)

// CooldownTracker throttles rapid repeated non-spam rule applications,
// keyed by rule name + user id. Entries expire rather than being deleted
// explicitly; the sweep just reclaims memory.
type CooldownTracker struct {
	mu       sync.Mutex
	expiries map[string]time.Time
}

func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{expiries: make(map[string]time.Time)}
}

func cooldownKey(ruleName, userID string) string {
	return ruleName + "/" + userID
}

func (t *CooldownTracker) IsOnCooldown(ruleName, userID string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	exp, ok := t.expiries[cooldownKey(ruleName, userID)]
	return ok && exp.After(now)
}

func (t *CooldownTracker) StartCooldown(ruleName, userID string, duration time.Duration, now time.Time) {
	if duration <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expiries[cooldownKey(ruleName, userID)] = now.Add(duration)
}

func (t *CooldownTracker) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for key, exp := range t.expiries {
		if !exp.After(now) {
			delete(t.expiries, key)
			removed++
		}
	}
	return removed
}
