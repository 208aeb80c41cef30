package trigger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warden-bot/warden/automod/event"
)

func TestMatchWordsBasic(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	trig := &MatchWords{
		TextTriggerOpts: DefaultTextOpts(),
		Words:           []string{"banana", "apple"},
	}

	res, err := trig.Match(env, messageEvent("i like apples and bananas"))
	assert.NoError(err)
	assert.NotNil(res)
	assert.Equal(ResultMessage, res.Type)
	// the configured word is reported, not the text slice it hit in
	assert.Equal("banana", res.MatchedValue)
	assert.Equal("user-1", res.UserID)
	assert.NotNil(res.Message)
	assert.Equal("msg-1", res.Message.MessageID)

	res, err = trig.Match(env, messageEvent("nothing fruity"))
	assert.NoError(err)
	assert.Nil(res)
}

func TestMatchWordsFullWord(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	trig := &MatchWords{
		TextTriggerOpts: DefaultTextOpts(),
		Words:           []string{"banana"},
		OnlyFullWords:   true,
	}

	res, err := trig.Match(env, messageEvent("I like banana"))
	assert.NoError(err)
	assert.NotNil(res)
	assert.Equal("banana", res.MatchedValue)

	// the plural is not a full-word hit
	res, err = trig.Match(env, messageEvent("I like bananas"))
	assert.NoError(err)
	assert.Nil(res)
}

func TestMatchWordsNormalize(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	trig := &MatchWords{
		TextTriggerOpts: DefaultTextOpts(),
		Words:           []string{"banana"},
		Normalize:       true,
	}

	res, err := trig.Match(env, messageEvent("decorated bánanà text"))
	assert.NoError(err)
	assert.NotNil(res)

	plain := &MatchWords{
		TextTriggerOpts: DefaultTextOpts(),
		Words:           []string{"banana"},
	}
	res, err = plain.Match(env, messageEvent("decorated bánanà text"))
	assert.NoError(err)
	assert.Nil(res)
}

func TestMatchWordsLoose(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	trig := &MatchWords{
		TextTriggerOpts:        DefaultTextOpts(),
		Words:                  []string{"scam"},
		LooseMatching:          true,
		LooseMatchingThreshold: 3,
	}

	res, err := trig.Match(env, messageEvent("totally not a s.c.a.m"))
	assert.NoError(err)
	assert.NotNil(res)
	assert.Equal("scam", res.MatchedValue)
}

func TestMatchWordsFacets(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	trig := &MatchWords{
		TextTriggerOpts: TextTriggerOpts{MatchNicknames: true},
		Words:           []string{"admin"},
	}

	evt := &event.Event{
		Type:        event.MessageCreate,
		CommunityID: "community-1",
		Message: &event.Message{
			ID:        "msg-1",
			ChannelID: "chan-1",
			Author:    event.User{ID: "user-1", Username: "alice"},
			Content:   "admin impersonation in the body is not checked",
			Timestamp: time.Now(),
		},
		Member: &event.Member{
			User:     event.User{ID: "user-1", Username: "alice"},
			Nickname: "Server Admin",
		},
	}

	res, err := trig.Match(env, evt)
	assert.NoError(err)
	assert.NotNil(res)
	assert.Equal(ResultNickname, res.Type)
	// member-attribute matches carry no message reference
	assert.Nil(res.Message)
}

func TestMatchWordsEmbeds(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	trig := &MatchWords{
		TextTriggerOpts: TextTriggerOpts{MatchEmbeds: true},
		Words:           []string{"giveaway"},
	}

	evt := messageEvent("clean content")
	evt.Message.Embeds = []event.Embed{{
		Title:       "FREE GIVEAWAY",
		Description: "click here",
	}}

	res, err := trig.Match(env, evt)
	assert.NoError(err)
	assert.NotNil(res)
	assert.Equal(ResultEmbed, res.Type)
}

func TestMatchRegex(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	trig := &MatchRegex{
		TextTriggerOpts: DefaultTextOpts(),
		Patterns:        []string{`fr[e3]{2}\s+nitro`},
	}

	res, err := trig.Match(env, messageEvent("FR33 NITRO claim now"))
	assert.NoError(err)
	assert.NotNil(res)
	assert.Equal(`fr[e3]{2}\s+nitro`, res.MatchedValue)

	res, err = trig.Match(env, messageEvent("paid nitro"))
	assert.NoError(err)
	assert.Nil(res)
}

func TestMatchRegexCaseSensitive(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	trig := &MatchRegex{
		TextTriggerOpts: DefaultTextOpts(),
		Patterns:        []string{`SHOUTING`},
		CaseSensitive:   true,
	}

	res, err := trig.Match(env, messageEvent("stop SHOUTING"))
	assert.NoError(err)
	assert.NotNil(res)

	res, err = trig.Match(env, messageEvent("stop shouting"))
	assert.NoError(err)
	assert.Nil(res)
}

func TestMatchRegexBadPattern(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	trig := &MatchRegex{
		TextTriggerOpts: DefaultTextOpts(),
		Patterns:        []string{`([`},
	}

	res, err := trig.Match(env, messageEvent("anything"))
	assert.Error(err)
	assert.Nil(res)
	assert.Error(trig.Validate())
}
