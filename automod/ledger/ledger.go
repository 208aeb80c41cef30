package ledger

import (
	"time"
)

// Kind is one dimension of counted activity. A single message fans out in to
// several kinds, each with its own weight (eg, one message with three links
// records KindLink with count 3).
type Kind string

const (
	KindMessage    = Kind("message")
	KindMention    = Kind("mention")
	KindLink       = Kind("link")
	KindAttachment = Kind("attachment")
	KindEmoji      = Kind("emoji")
	KindLine       = Kind("line")
	KindCharacter  = Kind("character")
	KindMemberJoin = Kind("member_join")
)

// How long recorded actions remain queryable before the sweep removes them.
// Every spam window in rule configuration must be shorter than this.
var DefaultRetention = 5 * time.Minute

// How often owners of a ledger should invoke Sweep.
var SweepInterval = 1 * time.Minute

// MessageInfo ties a recorded action back to the message which produced it,
// so that edits can purge stale entries and the clean action can find what to
// delete.
type MessageInfo struct {
	ChannelID string
	MessageID string
	UserID    string
}

// RecentAction is one weighted, timestamped, TTL-bound countable fact.
//
// Actioned is flipped in place once the entry has been consumed by a
// successful rule application; entries are never deleted early so that
// in-flight matches stay consistent.
type RecentAction struct {
	Kind       Kind
	Identifier string
	Timestamp  time.Time
	Count      int
	ExpiresAt  time.Time
	Actioned   bool
	Message    *MessageInfo
}

// GlobalIdentifier scopes a count to a user across all channels.
func GlobalIdentifier(userID string) string {
	return userID
}

// ChannelIdentifier scopes a count to a user within one channel.
func ChannelIdentifier(channelID, userID string) string {
	return channelID + "/" + userID
}

// Ledger is an append-only, TTL-expiring multiset of recent countable
// activity for a single community. The engine's event worker is the only
// writer; the sweep timer may run from another goroutine, so implementations
// must be safe for that interleaving.
type Ledger interface {
	// Record appends one entry. The expiry is assigned by the implementation
	// (timestamp plus retention).
	Record(kind Kind, identifier string, ts time.Time, count int, msg *MessageInfo)
	// Query returns entries of the given kind with a timestamp in
	// [since, until]. An empty identifier matches all identifiers (used for
	// community-wide raid counters).
	Query(kind Kind, identifier string, since, until time.Time) []*RecentAction
	// PurgeMessage removes every entry recorded from the given message,
	// regardless of kind or identifier. Used before re-ingesting an edit.
	PurgeMessage(messageID string)
	// Sweep removes expired entries and reports how many were removed.
	Sweep(now time.Time) int
}

// TotalCount sums the weights of a query result.
func TotalCount(entries []*RecentAction) int {
	total := 0
	for _, ra := range entries {
		total += ra.Count
	}
	return total
}
