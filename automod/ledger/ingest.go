package ledger

import (
	"unicode/utf8"

	"github.com/warden-bot/warden/automod/event"
	"github.com/warden-bot/warden/automod/helpers"
)

// IngestMessage decomposes one message in to the weighted counters used by
// the windowed spam triggers. Every counter is recorded twice: once under the
// global (user) identifier and once under the per-channel identifier, so a
// trigger can pick either granularity without re-deriving data.
func IngestMessage(l Ledger, msg *event.Message) {
	info := &MessageInfo{
		ChannelID: msg.ChannelID,
		MessageID: msg.ID,
		UserID:    msg.Author.ID,
	}
	record := func(kind Kind, count int) {
		if count <= 0 {
			return
		}
		l.Record(kind, GlobalIdentifier(msg.Author.ID), msg.Timestamp, count, info)
		l.Record(kind, ChannelIdentifier(msg.ChannelID, msg.Author.ID), msg.Timestamp, count, info)
	}

	record(KindMessage, 1)
	record(KindMention, msg.UserMentions+msg.RoleMentions)
	record(KindLink, len(helpers.ExtractTextURLs(msg.Content)))
	record(KindAttachment, len(msg.Attachments))
	record(KindEmoji, helpers.CountEmoji(msg.Content))
	record(KindLine, helpers.CountLines(msg.Content))
	record(KindCharacter, utf8.RuneCountInString(msg.Content))
}

// ReingestMessage purges everything previously recorded for the message and
// ingests it again from the edited content. Prevents double counting from
// edits while still letting edited-in spam be detected.
func ReingestMessage(l Ledger, msg *event.Message) {
	l.PurgeMessage(msg.ID)
	IngestMessage(l, msg)
}

// IngestMemberJoin records a join under the member's own identifier; raid
// detection queries the join kind with no identifier to see the
// community-wide total.
func IngestMemberJoin(l Ledger, m *event.Member) {
	l.Record(KindMemberJoin, GlobalIdentifier(m.User.ID), m.JoinedAt, 1, nil)
}
