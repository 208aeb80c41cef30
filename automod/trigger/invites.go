package trigger

import (
	"slices"

	"github.com/warden-bot/warden/automod/event"
	"github.com/warden-bot/warden/automod/helpers"
)

// MatchInvites triggers on invite links. Codes explicitly listed are decided
// without resolution; everything else is resolved to its target community
// (network I/O through the Env's InviteResolver) and checked against the
// community include/exclude lists.
type MatchInvites struct {
	TextTriggerOpts `koanf:",squash"`

	IncludeCommunities []string `koanf:"include_communities"`
	ExcludeCommunities []string `koanf:"exclude_communities"`
	IncludeCodes       []string `koanf:"include_codes"`
	ExcludeCodes       []string `koanf:"exclude_codes"`
}

func (t *MatchInvites) Kind() string { return "match_invites" }

func (t *MatchInvites) Match(env *Env, evt *event.Event) (*MatchResult, error) {
	return matchFacets(t.TextTriggerOpts, env, evt, func(env *Env, text string) (string, error) {
		for _, code := range helpers.ExtractInviteCodes(text) {
			if slices.Contains(t.IncludeCodes, code) {
				return code, nil
			}
			if slices.Contains(t.ExcludeCodes, code) {
				continue
			}
			if len(t.IncludeCommunities) == 0 && len(t.ExcludeCommunities) == 0 {
				// no list configured: any invite matches
				return code, nil
			}
			invite := t.resolve(env, code)
			if invite == nil {
				// unresolved codes can't be proven excluded; match them,
				// unless matching is scoped to specific communities
				if len(t.IncludeCommunities) > 0 {
					continue
				}
				return code, nil
			}
			if slices.Contains(t.IncludeCommunities, invite.CommunityID) {
				return code, nil
			}
			if len(t.ExcludeCommunities) > 0 && !slices.Contains(t.ExcludeCommunities, invite.CommunityID) {
				return code, nil
			}
		}
		return "", nil
	})
}

func (t *MatchInvites) resolve(env *Env, code string) *Invite {
	if env.Invites == nil {
		return nil
	}
	invite, err := env.Invites.Resolve(env.Ctx, code)
	if err != nil {
		env.Logger.Warn("invite resolution failed", "code", code, "err", err)
		return nil
	}
	return invite
}
