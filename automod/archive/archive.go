// Package archive persists evidence batches for spam matches.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/warden-bot/warden/automod/helpers"
	"github.com/warden-bot/warden/automod/ledger"
)

// HTTPStore is an engine.ArchiveStore talking to the archive service. An
// empty handle creates a new archive; a non-empty one appends, so a whole
// spam wave lands in a single document.
type HTTPStore struct {
	Host   string
	client *http.Client
}

func NewHTTPStore(host string) *HTTPStore {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.Logger = nil
	return &HTTPStore{Host: host, client: rc.StandardClient()}
}

type archiveRequest struct {
	// BatchKey is a content hash of the submitted batch; the client retries
	// POSTs, so the service uses it to drop duplicate submissions.
	BatchKey string               `json:"batch_key"`
	Messages []ledger.MessageInfo `json:"messages"`
}

type archiveResponse struct {
	Handle string `json:"handle"`
	URL    string `json:"url"`
}

// BatchKey derives the dedupe key for one evidence batch from its message
// ids. Stable across retries of the same batch, distinct between batches.
func BatchKey(messages []ledger.MessageInfo) string {
	var b strings.Builder
	for _, m := range messages {
		b.WriteString(m.MessageID)
		b.WriteByte('\n')
	}
	return helpers.HashOfString(b.String())
}

func (s *HTTPStore) CreateOrAppend(ctx context.Context, handle string, messages []ledger.MessageInfo) (string, string, error) {
	endpoint := s.Host + "/api/archives"
	if handle != "" {
		endpoint += "/" + handle
	}
	payload, err := json.Marshal(archiveRequest{BatchKey: BatchKey(messages), Messages: messages})
	if err != nil {
		return "", "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("archive request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", "", fmt.Errorf("archive request: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}
	var parsed archiveResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", "", fmt.Errorf("parsing archive response: %w", err)
	}
	return parsed.Handle, parsed.URL, nil
}
