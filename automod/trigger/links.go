package trigger

import (
	"net/url"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/warden-bot/warden/automod/event"
	"github.com/warden-bot/warden/automod/helpers"
)

// MatchLinks triggers on URLs. For each URL the first configured category
// decides, in fixed precedence: exclude-regex, include-regex, exclude-word,
// include-word, exclude-domain, include-domain. "Exclude" categories match
// every URL outside the list; "include" categories match URLs inside it.
type MatchLinks struct {
	TextTriggerOpts `koanf:",squash"`

	IncludeDomains []string `koanf:"include_domains"`
	ExcludeDomains []string `koanf:"exclude_domains"`
	// IncludeSubdomains makes domain lists cover their subdomains too.
	IncludeSubdomains bool     `koanf:"include_subdomains"`
	IncludeWords      []string `koanf:"include_words"`
	ExcludeWords      []string `koanf:"exclude_words"`
	IncludeRegex      []string `koanf:"include_regex"`
	ExcludeRegex      []string `koanf:"exclude_regex"`
	// OnlyRealLinks restricts matching to URLs with an explicit scheme.
	OnlyRealLinks bool `koanf:"only_real_links"`

	compileOnce sync.Once
	includeRe   []*regexp.Regexp
	excludeRe   []*regexp.Regexp
	compileErr  error
}

func (t *MatchLinks) Kind() string { return "match_links" }

func (t *MatchLinks) compiled() ([]*regexp.Regexp, []*regexp.Regexp, error) {
	t.compileOnce.Do(func() {
		for _, p := range t.ExcludeRegex {
			re, err := regexp.Compile(p)
			if err != nil {
				t.compileErr = err
				return
			}
			t.excludeRe = append(t.excludeRe, re)
		}
		for _, p := range t.IncludeRegex {
			re, err := regexp.Compile(p)
			if err != nil {
				t.compileErr = err
				return
			}
			t.includeRe = append(t.includeRe, re)
		}
	})
	return t.excludeRe, t.includeRe, t.compileErr
}

func (t *MatchLinks) Match(env *Env, evt *event.Event) (*MatchResult, error) {
	excludeRe, includeRe, err := t.compiled()
	if err != nil {
		return nil, err
	}
	return matchFacets(t.TextTriggerOpts, env, evt, func(env *Env, text string) (string, error) {
		var urls []string
		if t.OnlyRealLinks {
			urls = helpers.ExtractSchemeURLs(text)
		} else {
			urls = helpers.ExtractTextURLs(text)
		}
		for _, raw := range urls {
			if t.urlMatches(raw, excludeRe, includeRe) {
				return raw, nil
			}
		}
		return "", nil
	})
}

func (t *MatchLinks) urlMatches(raw string, excludeRe, includeRe []*regexp.Regexp) bool {
	if len(excludeRe) > 0 {
		for _, re := range excludeRe {
			if re.MatchString(raw) {
				return false
			}
		}
		return true
	}
	if len(includeRe) > 0 {
		for _, re := range includeRe {
			if re.MatchString(raw) {
				return true
			}
		}
		return false
	}
	if len(t.ExcludeWords) > 0 {
		for _, w := range t.ExcludeWords {
			if strings.Contains(raw, w) {
				return false
			}
		}
		return true
	}
	if len(t.IncludeWords) > 0 {
		for _, w := range t.IncludeWords {
			if strings.Contains(raw, w) {
				return true
			}
		}
		return false
	}
	domain := domainOf(raw)
	if len(t.ExcludeDomains) > 0 {
		return !t.domainListed(domain, t.ExcludeDomains)
	}
	if len(t.IncludeDomains) > 0 {
		return t.domainListed(domain, t.IncludeDomains)
	}
	// no category configured: every URL matches
	return true
}

func (t *MatchLinks) domainListed(domain string, list []string) bool {
	if domain == "" {
		return false
	}
	if slices.Contains(list, domain) {
		return true
	}
	if t.IncludeSubdomains {
		for _, d := range list {
			if strings.HasSuffix(domain, "."+d) {
				return true
			}
		}
	}
	return false
}

func domainOf(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "//" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
