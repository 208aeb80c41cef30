package engine

import (
	"context"
	"time"

	"github.com/warden-bot/warden/automod/ledger"
)

// ResolvedConfig is the per-event view of a community's moderation
// configuration, after override matching (which happens outside this engine).
type ResolvedConfig struct {
	// Rules in evaluation order. First match wins.
	Rules []*Rule
	// AntiraidLevels lists the levels the community defines, in escalation
	// order, for validating set_antiraid_level actions.
	AntiraidLevels []string
}

// ConfigResolver produces the configuration applying to one event. Invoked
// once per event; the result is read-only during evaluation.
type ConfigResolver interface {
	ResolveConfig(ctx context.Context, communityID, userID, channelID string) (*ResolvedConfig, error)
}

// ActionExecutor is the capability set for concrete moderation actions.
// Implementations return an error per call and never panic; the pipeline
// isolates failures per target.
type ActionExecutor interface {
	DeleteMessage(ctx context.Context, communityID, channelID, messageID string) error
	Warn(ctx context.Context, communityID, userID, reason string) error
	Mute(ctx context.Context, communityID, userID string, duration time.Duration, reason string) error
	Kick(ctx context.Context, communityID, userID, reason string) error
	Ban(ctx context.Context, communityID, userID, reason string) error
	SetNickname(ctx context.Context, communityID, userID, nickname string) error
	AddRoles(ctx context.Context, communityID, userID string, roleIDs []string) error
	RemoveRoles(ctx context.Context, communityID, userID string, roleIDs []string) error
	PostReply(ctx context.Context, communityID, channelID, text string) error
	PostAlert(ctx context.Context, communityID, channelID, text string) error
}

// TemplateRenderer builds alert/log bodies from match summaries. A render
// error degrades to an internal bot-alert, never a crash.
type TemplateRenderer interface {
	Render(template string, values map[string]any) (string, error)
}

// ArchiveStore persists evidence batches for spam matches. Passing an empty
// handle creates a new archive; a non-empty handle appends to an existing
// one. The returned URL is suitable for alert/log bodies.
type ArchiveStore interface {
	CreateOrAppend(ctx context.Context, handle string, messages []ledger.MessageInfo) (newHandle string, url string, err error)
}

// AntiraidLevelStore persists the current antiraid level per community; read
// at community load and written by the set_antiraid_level action.
type AntiraidLevelStore interface {
	Get(ctx context.Context, communityID string) (string, error)
	Set(ctx context.Context, communityID, level string) error
}
