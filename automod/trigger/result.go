package trigger

import (
	"github.com/warden-bot/warden/automod/ledger"
)

// ResultType tags which shape of match was found.
type ResultType string

const (
	// single-message matches
	ResultMessage = ResultType("message")
	ResultEmbed   = ResultType("embed")
	// member-attribute matches
	ResultUsername     = ResultType("username")
	ResultNickname     = ResultType("nickname")
	ResultVisibleName  = ResultType("visiblename")
	ResultCustomStatus = ResultType("customstatus")
	// windowed-count matches
	ResultTextSpam  = ResultType("textspam")
	ResultOtherSpam = ResultType("otherspam")
	// anything else (eg, member_join)
	ResultOther = ResultType("other")
)

// MatchResult describes what a trigger found. Created fresh per evaluation
// and never persisted beyond one event's processing.
type MatchResult struct {
	Type ResultType
	// MatchedValue is the configured word, pattern source, invite code, or
	// URL that hit, for text-style matches.
	MatchedValue string
	UserID       string
	// Message identifies the matched message for single-message results.
	Message *ledger.MessageInfo
	// The fields below are set only for spam results.
	SpamKind      ledger.Kind
	Identifier    string
	RecentActions []*ledger.RecentAction
}

// Spam reports whether this is a windowed-count match, which routes through
// the spam-wave deduplicator instead of the per-user cooldown.
func (r *MatchResult) Spam() bool {
	return r.Type == ResultTextSpam || r.Type == ResultOtherSpam
}

// CandidateUsers returns the deduplicated user ids contributing to a spam
// match, in first-seen order.
func (r *MatchResult) CandidateUsers() []string {
	var out []string
	seen := make(map[string]bool)
	for _, ra := range r.RecentActions {
		uid := contributorID(ra)
		if uid == "" || seen[uid] {
			continue
		}
		seen[uid] = true
		out = append(out, uid)
	}
	return out
}

func contributorID(ra *ledger.RecentAction) string {
	if ra.Message != nil {
		return ra.Message.UserID
	}
	return ra.Identifier
}
