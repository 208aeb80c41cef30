package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchInvitesAnyInvite(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	trig := &MatchInvites{TextTriggerOpts: DefaultTextOpts()}

	res, err := trig.Match(env, messageEvent("join discord.gg/abc123 now"))
	assert.NoError(err)
	assert.NotNil(res)
	assert.Equal("abc123", res.MatchedValue)

	res, err = trig.Match(env, messageEvent("no invites here"))
	assert.NoError(err)
	assert.Nil(res)
}

func TestMatchInvitesCodeLists(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()

	// listed codes are decided without any resolution
	trig := &MatchInvites{
		TextTriggerOpts: DefaultTextOpts(),
		ExcludeCodes:    []string{"friendly"},
	}

	res, err := trig.Match(env, messageEvent("discord.gg/friendly"))
	assert.NoError(err)
	assert.Nil(res)

	res, err = trig.Match(env, messageEvent("discord.gg/stranger"))
	assert.NoError(err)
	assert.NotNil(res)
	assert.Equal("stranger", res.MatchedValue)

	include := &MatchInvites{
		TextTriggerOpts: DefaultTextOpts(),
		IncludeCodes:    []string{"banned-code"},
	}
	res, err = include.Match(env, messageEvent("discord.gg/banned-code"))
	assert.NoError(err)
	assert.NotNil(res)
}

func TestMatchInvitesCommunityLists(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()
	env.Invites = &stubResolver{invites: map[string]*Invite{
		"aaa": {Code: "aaa", CommunityID: "community-a"},
		"bbb": {Code: "bbb", CommunityID: "community-b"},
	}}

	include := &MatchInvites{
		TextTriggerOpts:    DefaultTextOpts(),
		IncludeCommunities: []string{"community-a"},
	}
	res, err := include.Match(env, messageEvent("discord.gg/aaa"))
	assert.NoError(err)
	assert.NotNil(res)
	res, err = include.Match(env, messageEvent("discord.gg/bbb"))
	assert.NoError(err)
	assert.Nil(res)

	exclude := &MatchInvites{
		TextTriggerOpts:    DefaultTextOpts(),
		ExcludeCommunities: []string{"community-a"},
	}
	res, err = exclude.Match(env, messageEvent("discord.gg/aaa"))
	assert.NoError(err)
	assert.Nil(res)
	res, err = exclude.Match(env, messageEvent("discord.gg/bbb"))
	assert.NoError(err)
	assert.NotNil(res)
}

func TestMatchInvitesUnresolved(t *testing.T) {
	assert := assert.New(t)
	env := testEnv()
	env.Invites = &stubResolver{invites: map[string]*Invite{}}

	// an unresolvable code can't be proven excluded, so it matches
	exclude := &MatchInvites{
		TextTriggerOpts:    DefaultTextOpts(),
		ExcludeCommunities: []string{"community-a"},
	}
	res, err := exclude.Match(env, messageEvent("discord.gg/mystery"))
	assert.NoError(err)
	assert.NotNil(res)

	// unless matching is scoped to specific target communities
	include := &MatchInvites{
		TextTriggerOpts:    DefaultTextOpts(),
		IncludeCommunities: []string{"community-a"},
	}
	res, err = include.Match(env, messageEvent("discord.gg/mystery"))
	assert.NoError(err)
	assert.Nil(res)
}
