package trigger

import (
	"slices"

	"github.com/warden-bot/warden/automod/event"
	"github.com/warden-bot/warden/automod/helpers"
	"github.com/warden-bot/warden/automod/ledger"
)

// MatchAttachmentType triggers on attachment file extensions. Exactly one of
// Blacklist (reject extensions on the list) or Whitelist (reject extensions
// off the list) may be configured; that invariant is enforced at
// configuration-resolution time, not here.
type MatchAttachmentType struct {
	Blacklist []string `koanf:"blacklist"`
	Whitelist []string `koanf:"whitelist"`
}

func (t *MatchAttachmentType) Kind() string { return "match_attachment_type" }

func (t *MatchAttachmentType) Match(env *Env, evt *event.Event) (*MatchResult, error) {
	msg := evt.Message
	if msg == nil {
		return nil, nil
	}
	for _, att := range msg.Attachments {
		ext := helpers.ExtensionOf(att.Filename)
		rejected := false
		switch {
		case len(t.Blacklist) > 0:
			rejected = slices.Contains(t.Blacklist, ext)
		case len(t.Whitelist) > 0:
			rejected = !slices.Contains(t.Whitelist, ext)
		}
		if rejected {
			return &MatchResult{
				Type:         ResultMessage,
				MatchedValue: att.Filename,
				UserID:       msg.Author.ID,
				Message: &ledger.MessageInfo{
					ChannelID: msg.ChannelID,
					MessageID: msg.ID,
					UserID:    msg.Author.ID,
				},
			}, nil
		}
	}
	return nil, nil
}
