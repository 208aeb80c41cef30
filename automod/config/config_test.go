package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warden-bot/warden/automod/trigger"
)

func TestLoadFile(t *testing.T) {
	assert := assert.New(t)

	cfg, err := LoadFile("testdata/community.yml")
	require.NoError(t, err)

	assert.Equal("community-1", cfg.CommunityID)
	assert.Equal([]string{"low", "high"}, cfg.AntiraidLevels)
	require.Equal(t, 4, len(cfg.Rules))

	words := cfg.Rules[0]
	assert.Equal("no-bad-words", words.Name)
	assert.True(words.Enabled)
	assert.False(words.AffectsBots)
	assert.Equal(30*time.Second, words.Cooldown)
	require.Equal(t, 1, len(words.Triggers))
	wt, ok := words.Triggers[0].(*trigger.MatchWords)
	require.True(t, ok)
	assert.Equal([]string{"banana", "apple"}, wt.Words)
	assert.True(wt.OnlyFullWords)
	assert.True(wt.Normalize)
	// facet defaults apply when the trigger doesn't override them
	assert.True(wt.MatchMessages)
	assert.False(wt.MatchNicknames)
	assert.NotNil(words.Actions.Clean)
	assert.NotNil(words.Actions.Warn)
	assert.Equal("watch your language", words.Actions.Warn.Reason)
	assert.NotNil(words.Actions.Log)
	assert.Nil(words.Actions.Ban)

	invites := cfg.Rules[1]
	assert.False(invites.Enabled)
	it, ok := invites.Triggers[0].(*trigger.MatchInvites)
	require.True(t, ok)
	assert.Equal([]string{"friendly"}, it.ExcludeCodes)
	assert.Equal(10*time.Minute, invites.Actions.Mute.Duration)

	flood := cfg.Rules[2]
	assert.True(flood.AffectsBots)
	require.Equal(t, 2, len(flood.Triggers))
	st, ok := flood.Triggers[0].(*trigger.Spam)
	require.True(t, ok)
	assert.Equal(5, st.Amount)
	assert.Equal(10*time.Second, st.Within)
	assert.False(st.PerChannel)
	mt, ok := flood.Triggers[1].(*trigger.Spam)
	require.True(t, ok)
	assert.True(mt.PerChannel)
	assert.Equal("staff-alerts", flood.Actions.Alert.ChannelID)

	raid := cfg.Rules[3]
	assert.Equal("high", raid.Actions.SetAntiraidLevel.Level)
}

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileRejects(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		name string
		body string
	}{
		{
			name: "missing community id",
			body: "rules: []\n",
		},
		{
			name: "duplicate rule names",
			body: `community_id: c1
rules:
  - name: dup
    triggers:
      - match_words: {words: ["x"]}
    actions: {}
  - name: dup
    triggers:
      - match_words: {words: ["x"]}
    actions: {}
`,
		},
		{
			name: "rule names clashing after slugification",
			body: `community_id: c1
rules:
  - name: "No Bananas"
    triggers:
      - match_words: {words: ["x"]}
    actions: {}
  - name: no-bananas
    triggers:
      - match_words: {words: ["x"]}
    actions: {}
`,
		},
		{
			name: "rule without triggers",
			body: `community_id: c1
rules:
  - name: empty
    actions: {}
`,
		},
		{
			name: "unknown trigger type",
			body: `community_id: c1
rules:
  - name: bad
    triggers:
      - match_nothing: {}
    actions: {}
`,
		},
		{
			name: "two types in one trigger",
			body: `community_id: c1
rules:
  - name: bad
    triggers:
      - match_words: {words: ["x"]}
        match_regex: {patterns: ["y"]}
    actions: {}
`,
		},
		{
			name: "invalid regex",
			body: `community_id: c1
rules:
  - name: bad
    triggers:
      - match_regex: {patterns: ["(["]}
    actions: {}
`,
		},
		{
			name: "spam window exceeds retention",
			body: `community_id: c1
rules:
  - name: bad
    triggers:
      - message_spam: {amount: 5, within: 10m}
    actions: {}
`,
		},
		{
			name: "attachment trigger with both lists",
			body: `community_id: c1
rules:
  - name: bad
    triggers:
      - match_attachment_type: {blacklist: ["exe"], whitelist: ["png"]}
    actions: {}
`,
		},
		{
			name: "antiraid level not declared",
			body: `community_id: c1
antiraid_levels: ["low"]
rules:
  - name: bad
    triggers:
      - member_join_spam: {amount: 5, within: 30s}
    actions:
      set_antiraid_level: {level: "extreme"}
`,
		},
		{
			name: "alert without channel",
			body: `community_id: c1
rules:
  - name: bad
    triggers:
      - match_words: {words: ["x"]}
    actions:
      alert: {text: "hi"}
`,
		},
	}

	for _, fix := range fixtures {
		_, err := LoadFile(writeTempConfig(t, fix.body))
		assert.Error(err, fix.name)
	}
}

func TestStaticResolver(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	r := NewStaticResolver()
	assert.NoError(r.LoadDir("testdata"))

	cfg, err := r.ResolveConfig(ctx, "community-1", "user-1", "chan-1")
	assert.NoError(err)
	assert.Equal(4, len(cfg.Rules))
	assert.Equal([]string{"low", "high"}, cfg.AntiraidLevels)

	// unknown communities get an empty config, never an error
	cfg, err = r.ResolveConfig(ctx, "nope", "user-1", "chan-1")
	assert.NoError(err)
	assert.Empty(cfg.Rules)
}
