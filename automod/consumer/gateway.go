// Package consumer subscribes to the chat-platform gateway event stream and
// feeds qualifying events to the automod engine. The gateway protocol itself
// (auth, heartbeats, resume) is terminated upstream; this consumer reads a
// pre-filtered JSON event stream.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/gorilla/websocket"

	"github.com/warden-bot/warden/automod/engine"
	"github.com/warden-bot/warden/automod/event"
)

type GatewayConsumer struct {
	Logger *slog.Logger
	Engine *engine.Engine
	// Host is the websocket URL of the event stream, eg wss://gateway.example.com
	Host string
}

// Run consumes the stream until the context is cancelled, reconnecting with
// backoff on stream errors.
func (gc *GatewayConsumer) Run(ctx context.Context) error {
	if gc.Engine == nil {
		return fmt.Errorf("nil engine")
	}
	backoff := time.Second
	for {
		err := gc.consume(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		gc.Logger.Warn("gateway stream disconnected, retrying", "err", err, "backoff", backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (gc *GatewayConsumer) consume(ctx context.Context) error {
	u, err := url.Parse(gc.Host)
	if err != nil {
		return fmt.Errorf("invalid gateway URL: %w", err)
	}
	u.Path = "/events"
	gc.Logger.Info("subscribing to gateway event stream", "upstream", gc.Host)
	con, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), http.Header{
		"User-Agent": []string{fmt.Sprintf("warden/%s", versioninfo.Short())},
	})
	if err != nil {
		return fmt.Errorf("subscribing to gateway failed (dialing): %w", err)
	}
	defer con.Close()

	// unblock the blocking ReadMessage on cancellation, without leaving a
	// watcher goroutine parked per reconnect
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			con.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := con.ReadMessage()
		if err != nil {
			return err
		}
		var evt event.Event
		if err := json.Unmarshal(raw, &evt); err != nil {
			gc.Logger.Warn("skipping malformed gateway event", "err", err)
			continue
		}
		if evt.ReceivedAt.IsZero() {
			evt.ReceivedAt = time.Now()
		}
		if err := gc.Engine.ProcessEvent(ctx, &evt); err != nil {
			gc.Logger.Error("dispatching event failed", "community", evt.CommunityID, "type", evt.Type, "err", err)
		}
	}
}
