package trigger

import (
	"fmt"

	"github.com/warden-bot/warden/automod/ledger"
)

// Validate methods reject bad configuration at resolution time, before
// anything reaches the engine. Evaluators can then treat their config as
// well-formed (a compile failure at match time still degrades to no-match).

func (t *MatchWords) Validate() error {
	if len(t.Words) == 0 {
		return fmt.Errorf("match_words requires at least one word")
	}
	if _, err := t.patterns(); err != nil {
		return fmt.Errorf("match_words: %w", err)
	}
	return nil
}

func (t *MatchRegex) Validate() error {
	if len(t.Patterns) == 0 {
		return fmt.Errorf("match_regex requires at least one pattern")
	}
	if _, err := t.regexes(); err != nil {
		return fmt.Errorf("match_regex: %w", err)
	}
	return nil
}

func (t *MatchLinks) Validate() error {
	if _, _, err := t.compiled(); err != nil {
		return fmt.Errorf("match_links: %w", err)
	}
	return nil
}

func (t *MatchAttachmentType) Validate() error {
	if (len(t.Blacklist) > 0) == (len(t.Whitelist) > 0) {
		return fmt.Errorf("match_attachment_type requires exactly one of blacklist or whitelist")
	}
	return nil
}

func (t *Spam) Validate() error {
	switch t.Counter {
	case ledger.KindMessage, ledger.KindMention, ledger.KindLink, ledger.KindAttachment,
		ledger.KindEmoji, ledger.KindLine, ledger.KindCharacter:
	default:
		return fmt.Errorf("unknown spam counter %q", t.Counter)
	}
	if t.Amount <= 0 {
		return fmt.Errorf("%s: amount must be positive", t.Kind())
	}
	if t.Within <= 0 || t.Within > ledger.DefaultRetention {
		return fmt.Errorf("%s: within must be positive and at most %s", t.Kind(), ledger.DefaultRetention)
	}
	return nil
}

func (t *MemberJoinSpam) Validate() error {
	if t.Amount <= 0 {
		return fmt.Errorf("member_join_spam: amount must be positive")
	}
	if t.Within <= 0 || t.Within > ledger.DefaultRetention {
		return fmt.Errorf("member_join_spam: within must be positive and at most %s", ledger.DefaultRetention)
	}
	return nil
}

func (t *MemberJoin) Validate() error {
	if t.OnlyNew && t.NewThreshold <= 0 {
		return fmt.Errorf("member_join: only_new requires a positive new_threshold")
	}
	return nil
}
