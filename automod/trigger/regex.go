package trigger

import (
	"regexp"
	"sync"

	"github.com/warden-bot/warden/automod/event"
	"github.com/warden-bot/warden/automod/keyword"
)

// MatchRegex triggers when any configured pattern matches an enabled facet.
// Patterns are tried in configuration order; the matched value is the source
// of the first pattern that hit.
type MatchRegex struct {
	TextTriggerOpts `koanf:",squash"`

	Patterns      []string `koanf:"patterns"`
	CaseSensitive bool     `koanf:"case_sensitive"`
	Normalize     bool     `koanf:"normalize"`

	compileOnce sync.Once
	compiled    []*regexp.Regexp
	compileErr  error
}

func (t *MatchRegex) Kind() string { return "match_regex" }

func (t *MatchRegex) regexes() ([]*regexp.Regexp, error) {
	t.compileOnce.Do(func() {
		for _, p := range t.Patterns {
			if !t.CaseSensitive {
				p = "(?i)" + p
			}
			re, err := regexp.Compile(p)
			if err != nil {
				t.compileErr = err
				return
			}
			t.compiled = append(t.compiled, re)
		}
	})
	return t.compiled, t.compileErr
}

func (t *MatchRegex) Match(env *Env, evt *event.Event) (*MatchResult, error) {
	regexes, err := t.regexes()
	if err != nil {
		return nil, err
	}
	return matchFacets(t.TextTriggerOpts, env, evt, func(env *Env, text string) (string, error) {
		if t.Normalize {
			text = keyword.Normalize(text)
		}
		for i, re := range regexes {
			if re.MatchString(text) {
				return t.Patterns[i], nil
			}
		}
		return "", nil
	})
}
