// Package config loads per-community automod rule files (YAML) and serves
// them through a ConfigResolver. All configuration validation happens here;
// the engine assumes well-formed rules.
package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/warden-bot/warden/automod/engine"
	"github.com/warden-bot/warden/automod/keyword"
	"github.com/warden-bot/warden/automod/ledger"
	"github.com/warden-bot/warden/automod/trigger"
)

// CommunityConfig is one community's parsed rule file.
type CommunityConfig struct {
	CommunityID    string
	AntiraidLevels []string
	Rules          []*engine.Rule
}

// LoadFile parses and validates one community rule file.
func LoadFile(path string) (*CommunityConfig, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	cfg := &CommunityConfig{
		CommunityID:    k.String("community_id"),
		AntiraidLevels: k.Strings("antiraid_levels"),
	}
	if cfg.CommunityID == "" {
		return nil, fmt.Errorf("%s: community_id is required", path)
	}
	seen := make(map[string]string)
	for i, rk := range k.Slices("rules") {
		rule, err := parseRule(rk)
		if err != nil {
			return nil, fmt.Errorf("%s: rule %d: %w", path, i, err)
		}
		// rule names key the cooldown and spam-wave state; compare slugified
		// so "No Bananas" and "no-bananas" can't silently coexist
		slug := keyword.Slugify(rule.Name)
		if prev, ok := seen[slug]; ok {
			return nil, fmt.Errorf("%s: duplicate rule name %q (clashes with %q)", path, rule.Name, prev)
		}
		seen[slug] = rule.Name
		if err := validateActions(cfg, rule); err != nil {
			return nil, fmt.Errorf("%s: rule %q: %w", path, rule.Name, err)
		}
		cfg.Rules = append(cfg.Rules, rule)
	}
	return cfg, nil
}

func parseRule(k *koanf.Koanf) (*engine.Rule, error) {
	rule := &engine.Rule{
		Name:        k.String("name"),
		Enabled:     true,
		AffectsBots: k.Bool("affects_bots"),
		Cooldown:    k.Duration("cooldown"),
	}
	if rule.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if k.Exists("enabled") {
		rule.Enabled = k.Bool("enabled")
	}
	triggers := k.Slices("triggers")
	if len(triggers) == 0 {
		return nil, fmt.Errorf("at least one trigger is required")
	}
	for i, tk := range triggers {
		trig, err := parseTrigger(tk)
		if err != nil {
			return nil, fmt.Errorf("trigger %d: %w", i, err)
		}
		rule.Triggers = append(rule.Triggers, trig)
	}
	if err := k.Unmarshal("actions", &rule.Actions); err != nil {
		return nil, fmt.Errorf("actions: %w", err)
	}
	return rule, nil
}

// validator is implemented by every trigger type; kept as a local interface
// so new trigger variants can't skip it silently.
type validator interface {
	Validate() error
}

func parseTrigger(k *koanf.Koanf) (trigger.Trigger, error) {
	keys := k.MapKeys("")
	if len(keys) != 1 {
		return nil, fmt.Errorf("a trigger must have exactly one type, got %d", len(keys))
	}
	kind := keys[0]
	trig := newTrigger(kind)
	if trig == nil {
		return nil, fmt.Errorf("unknown trigger type %q", kind)
	}
	if err := k.Unmarshal(kind, trig); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	if v, ok := trig.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return trig, nil
}

func newTrigger(kind string) trigger.Trigger {
	switch kind {
	case "match_words":
		return &trigger.MatchWords{TextTriggerOpts: trigger.DefaultTextOpts()}
	case "match_regex":
		return &trigger.MatchRegex{TextTriggerOpts: trigger.DefaultTextOpts()}
	case "match_invites":
		return &trigger.MatchInvites{TextTriggerOpts: trigger.DefaultTextOpts()}
	case "match_links":
		return &trigger.MatchLinks{TextTriggerOpts: trigger.DefaultTextOpts()}
	case "match_attachment_type":
		return &trigger.MatchAttachmentType{}
	case "message_spam":
		return &trigger.Spam{Counter: ledger.KindMessage}
	case "mention_spam":
		return &trigger.Spam{Counter: ledger.KindMention}
	case "link_spam":
		return &trigger.Spam{Counter: ledger.KindLink}
	case "attachment_spam":
		return &trigger.Spam{Counter: ledger.KindAttachment}
	case "emoji_spam":
		return &trigger.Spam{Counter: ledger.KindEmoji}
	case "line_spam":
		return &trigger.Spam{Counter: ledger.KindLine}
	case "character_spam":
		return &trigger.Spam{Counter: ledger.KindCharacter}
	case "member_join_spam":
		return &trigger.MemberJoinSpam{}
	case "member_join":
		return &trigger.MemberJoin{}
	}
	return nil
}

func validateActions(cfg *CommunityConfig, rule *engine.Rule) error {
	acts := rule.Actions
	if acts.Mute != nil && acts.Mute.Duration < 0 {
		return fmt.Errorf("mute: negative duration")
	}
	if acts.SetAntiraidLevel != nil {
		found := false
		for _, lvl := range cfg.AntiraidLevels {
			if lvl == acts.SetAntiraidLevel.Level {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("set_antiraid_level: level %q is not in antiraid_levels", acts.SetAntiraidLevel.Level)
		}
	}
	if acts.Alert != nil && acts.Alert.ChannelID == "" {
		return fmt.Errorf("alert: channel_id is required")
	}
	if rule.Cooldown < 0 {
		return fmt.Errorf("negative cooldown")
	}
	return nil
}
