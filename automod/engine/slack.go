package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// SlackNotifier delivers internal bot-alerts (action failures, render
// failures) to an operations channel via slack "incoming webhook". A nil or
// zero-value notifier discards everything; delivery is always best-effort.
type SlackNotifier struct {
	SlackWebhookURL string
}

// Alert posts one internal bot-alert line. Errors are returned for the
// caller to log; they never block the pipeline.
func (n *SlackNotifier) Alert(ctx context.Context, communityID, msg string) error {
	if n == nil || n.SlackWebhookURL == "" {
		return nil
	}
	body := fmt.Sprintf("⚠️ Automod Internal Alert ⚠️\ncommunity `%s`: %s", communityID, msg)
	return n.sendSlackMsg(ctx, body)
}

type SlackWebhookBody struct {
	Text string `json:"text"`
}

// Sends a simple slack message to a channel via "incoming webhook".
//
// The slack incoming webhook must be already configured in the slack workplace.
func (n *SlackNotifier) sendSlackMsg(ctx context.Context, msg string) error {
	// loosely based on: https://golangcode.com/send-slack-messages-without-a-library/

	body, err := json.Marshal(SlackWebhookBody{Text: msg})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.SlackWebhookURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	client := http.DefaultClient
	resp, err := client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	if resp.StatusCode != 200 || buf.String() != "ok" {
		return fmt.Errorf("failed slack webhook POST request. status=%d", resp.StatusCode)
	}
	return nil
}
