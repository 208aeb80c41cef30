package engine

import (
	"time"
)

// ActionSet is the closed set of actions a rule may apply on a match. Each
// field is independently optional; a nil field means the action is not
// configured.
type ActionSet struct {
	Clean            *CleanAction            `koanf:"clean"`
	Warn             *WarnAction             `koanf:"warn"`
	Mute             *MuteAction             `koanf:"mute"`
	Kick             *KickAction             `koanf:"kick"`
	Ban              *BanAction              `koanf:"ban"`
	ChangeNickname   *ChangeNicknameAction   `koanf:"change_nickname"`
	AddRoles         *RolesAction            `koanf:"add_roles"`
	RemoveRoles      *RolesAction            `koanf:"remove_roles"`
	SetAntiraidLevel *SetAntiraidLevelAction `koanf:"set_antiraid_level"`
	Reply            *ReplyAction            `koanf:"reply"`
	Alert            *AlertAction            `koanf:"alert"`
	Log              *LogAction              `koanf:"log"`
}

// CleanAction deletes the contributing messages that have not already been
// deleted by a prior application of the same spam wave.
type CleanAction struct{}

type WarnAction struct {
	Reason string `koanf:"reason"`
}

type MuteAction struct {
	Duration time.Duration `koanf:"duration"`
	Reason   string        `koanf:"reason"`
}

type KickAction struct {
	Reason string `koanf:"reason"`
}

type BanAction struct {
	Reason string `koanf:"reason"`
}

type ChangeNicknameAction struct {
	Name string `koanf:"name"`
}

type RolesAction struct {
	RoleIDs []string `koanf:"role_ids"`
}

type SetAntiraidLevelAction struct {
	Level string `koanf:"level"`
}

// ReplyAction posts a rendered reply in the channel the match came from.
type ReplyAction struct {
	Text string `koanf:"text"`
}

// AlertAction posts a rendered alert to a staff channel.
type AlertAction struct {
	ChannelID string `koanf:"channel_id"`
	Text      string `koanf:"text"`
}

// LogAction emits a rendered log line for the match. An empty template uses
// the default log template.
type LogAction struct {
	Text string `koanf:"text"`
}
