package trigger

import (
	"regexp"
	"sync"

	"github.com/warden-bot/warden/automod/event"
	"github.com/warden-bot/warden/automod/keyword"
)

// MatchWords triggers when any configured word appears in an enabled facet.
type MatchWords struct {
	TextTriggerOpts `koanf:",squash"`

	Words         []string `koanf:"words"`
	CaseSensitive bool     `koanf:"case_sensitive"`
	OnlyFullWords bool     `koanf:"only_full_words"`
	// Normalize runs a unicode transliteration pass over the facet text
	// before matching, folding decorated characters back to plain letters.
	Normalize bool `koanf:"normalize"`
	// LooseMatching allows up to LooseMatchingThreshold filler characters
	// between the letters of each word.
	LooseMatching          bool `koanf:"loose_matching"`
	LooseMatchingThreshold int  `koanf:"loose_matching_threshold"`

	compileOnce sync.Once
	compiled    []*regexp.Regexp
	compileErr  error
}

func (t *MatchWords) Kind() string { return "match_words" }

func (t *MatchWords) patterns() ([]*regexp.Regexp, error) {
	t.compileOnce.Do(func() {
		opts := keyword.PatternOpts{
			FullWord:      t.OnlyFullWords,
			Loose:         t.LooseMatching,
			FillerChars:   t.LooseMatchingThreshold,
			CaseSensitive: t.CaseSensitive,
		}
		for _, w := range t.Words {
			re, err := keyword.Compile(w, opts)
			if err != nil {
				t.compileErr = err
				return
			}
			t.compiled = append(t.compiled, re)
		}
	})
	return t.compiled, t.compileErr
}

func (t *MatchWords) Match(env *Env, evt *event.Event) (*MatchResult, error) {
	patterns, err := t.patterns()
	if err != nil {
		return nil, err
	}
	return matchFacets(t.TextTriggerOpts, env, evt, func(env *Env, text string) (string, error) {
		if t.Normalize {
			text = keyword.Normalize(text)
		}
		for i, re := range patterns {
			if re.MatchString(text) {
				// report the configured word, not the matched slice
				return t.Words[i], nil
			}
		}
		return "", nil
	})
}
