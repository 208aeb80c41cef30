package trigger

import (
	"github.com/warden-bot/warden/automod/event"
	"github.com/warden-bot/warden/automod/ledger"
)

// TextTriggerOpts selects which facets of an event a text matcher inspects.
// Shared by all the text-style triggers.
type TextTriggerOpts struct {
	MatchMessages     bool `koanf:"match_messages"`
	MatchEmbeds       bool `koanf:"match_embeds"`
	MatchVisibleNames bool `koanf:"match_visible_names"`
	MatchUsernames    bool `koanf:"match_usernames"`
	MatchNicknames    bool `koanf:"match_nicknames"`
	MatchCustomStatus bool `koanf:"match_custom_status"`
}

// DefaultTextOpts matches message content only.
func DefaultTextOpts() TextTriggerOpts {
	return TextTriggerOpts{MatchMessages: true}
}

// textMatcherFunc tests one facet's text, returning the matched value or ""
// for no match.
type textMatcherFunc func(env *Env, text string) (string, error)

// matchFacets runs a matcher against each enabled facet in fixed priority
// order (message content, first embed, visible name, username, nickname,
// custom status) and returns on the first facet that hits, tagging the
// result with the facet type.
func matchFacets(opts TextTriggerOpts, env *Env, evt *event.Event, fn textMatcherFunc) (*MatchResult, error) {
	msg := evt.Message
	if opts.MatchMessages && msg != nil && msg.Content != "" {
		val, err := fn(env, msg.Content)
		if err != nil {
			return nil, err
		}
		if val != "" {
			return messageResult(ResultMessage, val, msg), nil
		}
	}
	if opts.MatchEmbeds && msg != nil && len(msg.Embeds) > 0 {
		val, err := fn(env, msg.Embeds[0].FlatText())
		if err != nil {
			return nil, err
		}
		if val != "" {
			return messageResult(ResultEmbed, val, msg), nil
		}
	}
	member := evt.Member
	if member == nil {
		return nil, nil
	}
	attrs := []struct {
		enabled bool
		typ     ResultType
		text    string
	}{
		{opts.MatchVisibleNames, ResultVisibleName, member.User.VisibleName()},
		{opts.MatchUsernames, ResultUsername, member.User.Tag()},
		{opts.MatchNicknames, ResultNickname, member.Nickname},
		{opts.MatchCustomStatus, ResultCustomStatus, member.CustomStatus},
	}
	for _, attr := range attrs {
		if !attr.enabled || attr.text == "" {
			continue
		}
		val, err := fn(env, attr.text)
		if err != nil {
			return nil, err
		}
		if val != "" {
			return &MatchResult{
				Type:         attr.typ,
				MatchedValue: val,
				UserID:       member.User.ID,
			}, nil
		}
	}
	return nil, nil
}

func messageResult(typ ResultType, val string, msg *event.Message) *MatchResult {
	return &MatchResult{
		Type:         typ,
		MatchedValue: val,
		UserID:       msg.Author.ID,
		Message: &ledger.MessageInfo{
			ChannelID: msg.ChannelID,
			MessageID: msg.ID,
			UserID:    msg.Author.ID,
		},
	}
}
