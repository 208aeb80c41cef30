package ledger

import (
	"sync"
	"time"
)

// MemLedger is the in-memory Ledger used for per-community engine state.
// Entries live in one append-ordered slice per kind; windows are short (the
// retention caps them) so linear scans are fine.
type MemLedger struct {
	mu        sync.Mutex
	retention time.Duration
	entries   map[Kind][]*RecentAction
}

var _ Ledger = (*MemLedger)(nil)

func NewMemLedger(retention time.Duration) *MemLedger {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &MemLedger{
		retention: retention,
		entries:   make(map[Kind][]*RecentAction),
	}
}

func (l *MemLedger) Record(kind Kind, identifier string, ts time.Time, count int, msg *MessageInfo) {
	if count <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[kind] = append(l.entries[kind], &RecentAction{
		Kind:       kind,
		Identifier: identifier,
		Timestamp:  ts,
		Count:      count,
		ExpiresAt:  ts.Add(l.retention),
		Message:    msg,
	})
}

func (l *MemLedger) Query(kind Kind, identifier string, since, until time.Time) []*RecentAction {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*RecentAction
	for _, ra := range l.entries[kind] {
		if identifier != "" && ra.Identifier != identifier {
			continue
		}
		if ra.Timestamp.Before(since) || ra.Timestamp.After(until) {
			continue
		}
		out = append(out, ra)
	}
	return out
}

func (l *MemLedger) PurgeMessage(messageID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for kind, list := range l.entries {
		kept := list[:0]
		for _, ra := range list {
			if ra.Message != nil && ra.Message.MessageID == messageID {
				continue
			}
			kept = append(kept, ra)
		}
		l.entries[kind] = kept
	}
}

func (l *MemLedger) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for kind, list := range l.entries {
		kept := list[:0]
		for _, ra := range list {
			if !ra.ExpiresAt.After(now) {
				removed++
				continue
			}
			kept = append(kept, ra)
		}
		l.entries[kind] = kept
	}
	return removed
}

// Size reports the total number of live entries, for metrics.
func (l *MemLedger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, list := range l.entries {
		n += len(list)
	}
	return n
}
