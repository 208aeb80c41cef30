package event

import (
	"time"
)

// Type of platform event the engine knows how to process.
type Type string

const (
	MessageCreate = Type("message_create")
	MessageUpdate = Type("message_update")
	MemberJoin    = Type("member_join")
)

type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	DisplayName   string `json:"display_name"`
	Bot           bool   `json:"bot"`
	// CreatedAt is when the account was registered on the platform, not when
	// it joined any particular community.
	CreatedAt time.Time `json:"created_at"`
}

// VisibleName is the name other members actually see: the display name when
// one is set, otherwise the username.
func (u *User) VisibleName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Tag is the legacy-style username#discriminator form.
func (u *User) Tag() string {
	if u.Discriminator == "" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

type EmbedField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	URL         string       `json:"url"`
	Fields      []EmbedField `json:"fields"`
}

// FlatText renders the embed as a single plain-text blob for matching
// purposes. Field order follows display order.
func (e *Embed) FlatText() string {
	out := e.Title
	for _, part := range []string{e.Description, e.URL} {
		if part != "" {
			if out != "" {
				out += "\n"
			}
			out += part
		}
	}
	for _, f := range e.Fields {
		if out != "" {
			out += "\n"
		}
		out += f.Name + "\n" + f.Value
	}
	return out
}

type Message struct {
	ID          string       `json:"id"`
	ChannelID   string       `json:"channel_id"`
	Author      User         `json:"author"`
	Content     string       `json:"content"`
	Embeds      []Embed      `json:"embeds"`
	Attachments []Attachment `json:"attachments"`
	// Mention counts come pre-parsed from the gateway payload; the engine
	// never re-scans content for mention syntax.
	UserMentions int       `json:"user_mentions"`
	RoleMentions int       `json:"role_mentions"`
	Timestamp    time.Time `json:"timestamp"`
}

// Member is the community-scoped view of a user.
type Member struct {
	User         User      `json:"user"`
	Nickname     string    `json:"nickname"`
	CustomStatus string    `json:"custom_status"`
	Roles        []string  `json:"roles"`
	JoinedAt     time.Time `json:"joined_at"`
}

// Event is the single input shape for the automod engine. Message is set for
// message events; Member carries the author's community profile and is set
// for all event types (message matching also inspects author attributes).
type Event struct {
	Type        Type      `json:"type"`
	CommunityID string    `json:"community_id"`
	Message     *Message  `json:"message,omitempty"`
	Member      *Member   `json:"member,omitempty"`
	ReceivedAt  time.Time `json:"received_at"`
}

// Timestamp returns the instant the event should be evaluated at: the message
// timestamp for message events, the join time for member joins, falling back
// to the receive time.
func (e *Event) Timestamp() time.Time {
	switch {
	case e.Message != nil && !e.Message.Timestamp.IsZero():
		return e.Message.Timestamp
	case e.Type == MemberJoin && e.Member != nil && !e.Member.JoinedAt.IsZero():
		return e.Member.JoinedAt
	}
	return e.ReceivedAt
}

// UserID of the acting user, regardless of event type.
func (e *Event) UserID() string {
	if e.Member != nil {
		return e.Member.User.ID
	}
	if e.Message != nil {
		return e.Message.Author.ID
	}
	return ""
}

// Bot reports whether the acting user is a bot account.
func (e *Event) Bot() bool {
	if e.Member != nil {
		return e.Member.User.Bot
	}
	if e.Message != nil {
		return e.Message.Author.Bot
	}
	return false
}
