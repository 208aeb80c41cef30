package engine

import (
	"sync"
	"time"
)

// Grace window during which a spam wave's already-actioned users are
// suppressed from re-action. Refreshed on every application within the wave.
var RecentSpamGracePeriod = 30 * time.Second

// RecentSpam tracks one ongoing spam wave for a rule+identifier: who has
// already been acted on, and the evidence archive collecting the wave's
// messages.
type RecentSpam struct {
	ActionedUsers map[string]bool
	ExpiresAt     time.Time
	ArchiveHandle string
	ArchiveURL    string
}

// RecentSpamTracker prevents continuing spam from regenerating duplicate
// cases and log entries. Keyed by rule name + identifier.
type RecentSpamTracker struct {
	mu      sync.Mutex
	entries map[string]*RecentSpam
}

func NewRecentSpamTracker() *RecentSpamTracker {
	return &RecentSpamTracker{entries: make(map[string]*RecentSpam)}
}

func spamKey(ruleName, identifier string) string {
	return ruleName + "/" + identifier
}

// FilterActioned removes users already acted on during the live wave for
// rule+identifier, preserving candidate order. With no live wave the
// candidates pass through unchanged.
func (t *RecentSpamTracker) FilterActioned(ruleName, identifier string, candidates []string, now time.Time) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	rs := t.entries[spamKey(ruleName, identifier)]
	if rs == nil || !rs.ExpiresAt.After(now) {
		return candidates
	}
	var out []string
	for _, uid := range candidates {
		if !rs.ActionedUsers[uid] {
			out = append(out, uid)
		}
	}
	return out
}

// Update unions the given users in to the wave's actioned set, refreshing the
// grace window, creating the wave entry if needed. The returned entry is the
// live wave record; the caller stores the archive handle on it once known.
func (t *RecentSpamTracker) Update(ruleName, identifier string, users []string, now time.Time) *RecentSpam {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := spamKey(ruleName, identifier)
	rs := t.entries[key]
	if rs == nil || !rs.ExpiresAt.After(now) {
		rs = &RecentSpam{ActionedUsers: make(map[string]bool)}
		t.entries[key] = rs
	}
	for _, uid := range users {
		rs.ActionedUsers[uid] = true
	}
	rs.ExpiresAt = now.Add(RecentSpamGracePeriod)
	return rs
}

// SetArchive records the wave's evidence archive handle for reuse by later
// applications within the grace window.
func (rs *RecentSpam) SetArchive(handle, url string) {
	rs.ArchiveHandle = handle
	rs.ArchiveURL = url
}

func (t *RecentSpamTracker) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for key, rs := range t.entries {
		if !rs.ExpiresAt.After(now) {
			delete(t.entries, key)
			removed++
		}
	}
	return removed
}
