package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchLinksAnyURL(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	trig := &MatchLinks{TextTriggerOpts: DefaultTextOpts()}

	res, err := trig.Match(env, messageEvent("go to example.com"))
	assert.NoError(err)
	assert.NotNil(res)
	assert.Equal("example.com", res.MatchedValue)

	res, err = trig.Match(env, messageEvent("no links at all"))
	assert.NoError(err)
	assert.Nil(res)
}

func TestMatchLinksOnlyRealLinks(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	trig := &MatchLinks{
		TextTriggerOpts: DefaultTextOpts(),
		OnlyRealLinks:   true,
	}

	res, err := trig.Match(env, messageEvent("bare example.com is ignored"))
	assert.NoError(err)
	assert.Nil(res)

	res, err = trig.Match(env, messageEvent("but https://example.com is not"))
	assert.NoError(err)
	assert.NotNil(res)
}

func TestMatchLinksDomainLists(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	include := &MatchLinks{
		TextTriggerOpts: DefaultTextOpts(),
		IncludeDomains:  []string{"evil.example"},
	}
	res, err := include.Match(env, messageEvent("visit https://evil.example/page"))
	assert.NoError(err)
	assert.NotNil(res)
	res, err = include.Match(env, messageEvent("visit https://good.example/page"))
	assert.NoError(err)
	assert.Nil(res)

	exclude := &MatchLinks{
		TextTriggerOpts: DefaultTextOpts(),
		ExcludeDomains:  []string{"good.example"},
	}
	res, err = exclude.Match(env, messageEvent("visit https://good.example/page"))
	assert.NoError(err)
	assert.Nil(res)
	res, err = exclude.Match(env, messageEvent("visit https://other.example/page"))
	assert.NoError(err)
	assert.NotNil(res)
}

func TestMatchLinksSubdomains(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	strict := &MatchLinks{
		TextTriggerOpts: DefaultTextOpts(),
		IncludeDomains:  []string{"evil.example"},
	}
	res, err := strict.Match(env, messageEvent("https://sub.evil.example/x"))
	assert.NoError(err)
	assert.Nil(res)

	loose := &MatchLinks{
		TextTriggerOpts:   DefaultTextOpts(),
		IncludeDomains:    []string{"evil.example"},
		IncludeSubdomains: true,
	}
	res, err = loose.Match(env, messageEvent("https://sub.evil.example/x"))
	assert.NoError(err)
	assert.NotNil(res)
}

func TestMatchLinksCategoryPrecedence(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	// the regex category is configured, so the domain list never runs
	trig := &MatchLinks{
		TextTriggerOpts: DefaultTextOpts(),
		ExcludeRegex:    []string{`example\.com`},
		IncludeDomains:  []string{"example.com"},
	}

	res, err := trig.Match(env, messageEvent("https://example.com/ok"))
	assert.NoError(err)
	assert.Nil(res)

	// off the exclude-regex list, every URL matches
	res, err = trig.Match(env, messageEvent("https://elsewhere.net/x"))
	assert.NoError(err)
	assert.NotNil(res)
}

func TestMatchLinksWords(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	trig := &MatchLinks{
		TextTriggerOpts: DefaultTextOpts(),
		IncludeWords:    []string{"free-nitro"},
	}

	res, err := trig.Match(env, messageEvent("https://example.com/free-nitro/claim"))
	assert.NoError(err)
	assert.NotNil(res)

	res, err = trig.Match(env, messageEvent("https://example.com/paid"))
	assert.NoError(err)
	assert.Nil(res)
}

func TestMatchLinksBadRegex(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	trig := &MatchLinks{
		TextTriggerOpts: DefaultTextOpts(),
		IncludeRegex:    []string{`([`},
	}

	res, err := trig.Match(env, messageEvent("https://example.com"))
	assert.Error(err)
	assert.Nil(res)
	assert.Error(trig.Validate())
}
