package trigger

import (
	"context"
	"log/slog"
	"time"

	"github.com/warden-bot/warden/automod/event"
	"github.com/warden-bot/warden/automod/ledger"
)

// test scaffolding shared by the matcher tests

func testEnv() *Env {
	return &Env{
		Ctx:         context.Background(),
		Logger:      slog.Default(),
		Ledger:      ledger.NewMemLedger(ledger.DefaultRetention),
		CommunityID: "community-1",
	}
}

func messageEvent(content string) *event.Event {
	return messageEventAt(content, time.Now())
}

func messageEventAt(content string, ts time.Time) *event.Event {
	return &event.Event{
		Type:        event.MessageCreate,
		CommunityID: "community-1",
		Message: &event.Message{
			ID:        "msg-1",
			ChannelID: "chan-1",
			Author:    event.User{ID: "user-1", Username: "alice", Discriminator: "0001"},
			Content:   content,
			Timestamp: ts,
		},
		ReceivedAt: ts,
	}
}

func joinEvent(userID string, joinedAt, createdAt time.Time) *event.Event {
	return &event.Event{
		Type:        event.MemberJoin,
		CommunityID: "community-1",
		Member: &event.Member{
			User:     event.User{ID: userID, Username: userID, CreatedAt: createdAt},
			JoinedAt: joinedAt,
		},
		ReceivedAt: joinedAt,
	}
}

// stubResolver maps codes to invites; unknown codes resolve to nil.
type stubResolver struct {
	invites map[string]*Invite
	err     error
}

func (r *stubResolver) Resolve(ctx context.Context, code string) (*Invite, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.invites[code], nil
}
