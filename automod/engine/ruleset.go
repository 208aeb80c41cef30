package engine

import (
	"time"

	"github.com/warden-bot/warden/automod/event"
	"github.com/warden-bot/warden/automod/trigger"
)

// Rule is a named, ordered set of triggers plus an action set. Rules are
// read-only during evaluation; only configuration reload replaces them.
type Rule struct {
	Name    string `koanf:"name"`
	Enabled bool   `koanf:"enabled"`
	// AffectsBots opts the rule in to evaluating bot-authored events.
	AffectsBots bool `koanf:"affects_bots"`
	// Triggers in declared order; the first that matches decides.
	Triggers []trigger.Trigger `koanf:"-"`
	Actions  ActionSet         `koanf:"-"`
	// Cooldown throttles repeated non-spam applications per user. Zero
	// disables the throttle.
	Cooldown time.Duration `koanf:"cooldown"`
}

// RuleMatch is the outcome of matching one event against a rule list.
type RuleMatch struct {
	Rule   *Rule
	Result *trigger.MatchResult
}

// MatchEvent iterates rules in configured order and each rule's triggers in
// declared order, returning the first match or nil. Disabled rules are
// skipped, as are bot-authored events for rules without AffectsBots.
// Evaluator errors degrade to "no match" for that trigger.
func MatchEvent(env *trigger.Env, rules []*Rule, evt *event.Event) *RuleMatch {
	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		if evt.Bot() && !rule.AffectsBots {
			continue
		}
		for _, trig := range rule.Triggers {
			res, err := trig.Match(env, evt)
			if err != nil {
				evaluatorErrorCount.WithLabelValues(trig.Kind()).Inc()
				env.Logger.Warn("trigger evaluation failed",
					"rule", rule.Name, "trigger", trig.Kind(), "err", err)
				continue
			}
			if res != nil {
				return &RuleMatch{Rule: rule, Result: res}
			}
		}
	}
	return nil
}
