// Package trigger implements the matching strategies a rule can be
// configured with: text matchers evaluated against the facets of one event,
// and windowed-count matchers evaluated against the recent-action ledger.
package trigger

import (
	"context"
	"log/slog"

	"github.com/warden-bot/warden/automod/event"
	"github.com/warden-bot/warden/automod/ledger"
)

// Env carries everything an evaluator may consult. Evaluators never mutate
// any of it.
type Env struct {
	Ctx         context.Context
	Logger      *slog.Logger
	Ledger      ledger.Ledger
	Invites     InviteResolver
	CommunityID string
}

// Invite is the resolved target of an invite code.
type Invite struct {
	Code          string
	CommunityID   string
	CommunityName string
}

// InviteResolver resolves invite codes to their target community. Returning
// (nil, nil) means the code could not be resolved; the invite matcher treats
// that as an unknown community rather than an error.
type InviteResolver interface {
	Resolve(ctx context.Context, code string) (*Invite, error)
}

// Trigger is one matching strategy within a rule. Match returns nil when the
// event does not satisfy the trigger. A non-nil error means the evaluator
// itself failed (eg, malformed configured regex); callers degrade that to
// "no match".
type Trigger interface {
	Kind() string
	Match(env *Env, evt *event.Event) (*MatchResult, error)
}
