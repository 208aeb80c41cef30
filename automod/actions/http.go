// Package actions is the client side of the moderation-action executor
// service. The engine only sees the engine.ActionExecutor interface; the
// concrete semantics of mutes, bans, and role edits live behind this API.
package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

type HTTPExecutor struct {
	Host   string
	client *http.Client
}

func NewHTTPExecutor(host string) *HTTPExecutor {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.Logger = nil
	return &HTTPExecutor{Host: host, client: rc.StandardClient()}
}

func (x *HTTPExecutor) post(ctx context.Context, communityID, action string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/api/communities/%s/actions/%s", x.Host, communityID, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("action %s: %w", action, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("action %s: unexpected status %d", action, resp.StatusCode)
	}
	return nil
}

func (x *HTTPExecutor) DeleteMessage(ctx context.Context, communityID, channelID, messageID string) error {
	return x.post(ctx, communityID, "delete_message", map[string]string{
		"channel_id": channelID, "message_id": messageID,
	})
}

func (x *HTTPExecutor) Warn(ctx context.Context, communityID, userID, reason string) error {
	return x.post(ctx, communityID, "warn", map[string]string{
		"user_id": userID, "reason": reason,
	})
}

func (x *HTTPExecutor) Mute(ctx context.Context, communityID, userID string, duration time.Duration, reason string) error {
	return x.post(ctx, communityID, "mute", map[string]any{
		"user_id": userID, "duration_sec": int(duration.Seconds()), "reason": reason,
	})
}

func (x *HTTPExecutor) Kick(ctx context.Context, communityID, userID, reason string) error {
	return x.post(ctx, communityID, "kick", map[string]string{
		"user_id": userID, "reason": reason,
	})
}

func (x *HTTPExecutor) Ban(ctx context.Context, communityID, userID, reason string) error {
	return x.post(ctx, communityID, "ban", map[string]string{
		"user_id": userID, "reason": reason,
	})
}

func (x *HTTPExecutor) SetNickname(ctx context.Context, communityID, userID, nickname string) error {
	return x.post(ctx, communityID, "set_nickname", map[string]string{
		"user_id": userID, "nickname": nickname,
	})
}

func (x *HTTPExecutor) AddRoles(ctx context.Context, communityID, userID string, roleIDs []string) error {
	return x.post(ctx, communityID, "add_roles", map[string]any{
		"user_id": userID, "role_ids": roleIDs,
	})
}

func (x *HTTPExecutor) RemoveRoles(ctx context.Context, communityID, userID string, roleIDs []string) error {
	return x.post(ctx, communityID, "remove_roles", map[string]any{
		"user_id": userID, "role_ids": roleIDs,
	})
}

func (x *HTTPExecutor) PostReply(ctx context.Context, communityID, channelID, text string) error {
	return x.post(ctx, communityID, "reply", map[string]string{
		"channel_id": channelID, "text": text,
	})
}

func (x *HTTPExecutor) PostAlert(ctx context.Context, communityID, channelID, text string) error {
	return x.post(ctx, communityID, "alert", map[string]string{
		"channel_id": channelID, "text": text,
	})
}
