package trigger

import (
	"time"

	"github.com/warden-bot/warden/automod/event"
	"github.com/warden-bot/warden/automod/ledger"
)

// Spam triggers when the summed weight of one counter kind for a single
// identifier reaches Amount within the Within window. Weights matter: one
// message with five links contributes 5 to the link counter.
type Spam struct {
	Counter ledger.Kind   `koanf:"-"`
	Amount  int           `koanf:"amount"`
	Within  time.Duration `koanf:"within"`
	// PerChannel scopes the window to channel+user instead of user.
	PerChannel bool `koanf:"per_channel"`
}

func (t *Spam) Kind() string { return string(t.Counter) + "_spam" }

func (t *Spam) Match(env *Env, evt *event.Event) (*MatchResult, error) {
	msg := evt.Message
	if msg == nil {
		return nil, nil
	}
	identifier := ledger.GlobalIdentifier(msg.Author.ID)
	if t.PerChannel {
		identifier = ledger.ChannelIdentifier(msg.ChannelID, msg.Author.ID)
	}
	ts := evt.Timestamp()
	entries := env.Ledger.Query(t.Counter, identifier, ts.Add(-t.Within), ts)
	if ledger.TotalCount(entries) < t.Amount {
		return nil, nil
	}
	return &MatchResult{
		Type:          ResultTextSpam,
		UserID:        msg.Author.ID,
		SpamKind:      t.Counter,
		Identifier:    identifier,
		RecentActions: entries,
	}, nil
}

// MemberJoinSpam triggers on the community-wide join rate, querying the join
// counter across all identifiers (raid detection).
type MemberJoinSpam struct {
	Amount int           `koanf:"amount"`
	Within time.Duration `koanf:"within"`
}

func (t *MemberJoinSpam) Kind() string { return "member_join_spam" }

func (t *MemberJoinSpam) Match(env *Env, evt *event.Event) (*MatchResult, error) {
	if evt.Type != event.MemberJoin {
		return nil, nil
	}
	ts := evt.Timestamp()
	entries := env.Ledger.Query(ledger.KindMemberJoin, "", ts.Add(-t.Within), ts)
	if ledger.TotalCount(entries) < t.Amount {
		return nil, nil
	}
	return &MatchResult{
		Type:          ResultOtherSpam,
		UserID:        evt.UserID(),
		SpamKind:      ledger.KindMemberJoin,
		Identifier:    "", // community-wide
		RecentActions: entries,
	}, nil
}

// MemberJoin triggers on joins, optionally only for freshly registered
// accounts.
type MemberJoin struct {
	OnlyNew      bool          `koanf:"only_new"`
	NewThreshold time.Duration `koanf:"new_threshold"`
}

func (t *MemberJoin) Kind() string { return "member_join" }

func (t *MemberJoin) Match(env *Env, evt *event.Event) (*MatchResult, error) {
	if evt.Type != event.MemberJoin || evt.Member == nil {
		return nil, nil
	}
	if t.OnlyNew {
		age := evt.Timestamp().Sub(evt.Member.User.CreatedAt)
		if evt.Member.User.CreatedAt.IsZero() || age > t.NewThreshold {
			return nil, nil
		}
	}
	return &MatchResult{
		Type:   ResultOther,
		UserID: evt.UserID(),
	}, nil
}
