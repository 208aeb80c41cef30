// Package directory resolves invite codes to their target communities
// through the platform API, with caching and client-side rate limiting.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/warden-bot/warden/automod/trigger"
)

// cached wraps a lookup result so negative lookups are cached too.
type cached struct {
	invite *trigger.Invite
}

// HTTPResolver is a trigger.InviteResolver backed by the platform REST API.
type HTTPResolver struct {
	Host    string
	Logger  *slog.Logger
	client  *http.Client
	limiter *rate.Limiter
	cache   *expirable.LRU[string, cached]
}

var _ trigger.InviteResolver = (*HTTPResolver)(nil)

func NewHTTPResolver(host string, logger *slog.Logger) *HTTPResolver {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.Logger = nil
	return &HTTPResolver{
		Host:    host,
		Logger:  logger,
		client:  rc.StandardClient(),
		limiter: rate.NewLimiter(rate.Limit(5), 10),
		cache:   expirable.NewLRU[string, cached](10_000, nil, 10*time.Minute),
	}
}

type inviteResponse struct {
	Code          string `json:"code"`
	CommunityID   string `json:"community_id"`
	CommunityName string `json:"community_name"`
}

// Resolve returns the invite's target community, (nil, nil) when the code is
// unknown or expired. Results, including misses, are cached.
func (r *HTTPResolver) Resolve(ctx context.Context, code string) (*trigger.Invite, error) {
	if hit, ok := r.cache.Get(code); ok {
		return hit.invite, nil
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.Host+"/api/invites/"+code, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolving invite %s: %w", code, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		r.cache.Add(code, cached{})
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("resolving invite %s: unexpected status %d", code, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var parsed inviteResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing invite response: %w", err)
	}
	invite := &trigger.Invite{
		Code:          parsed.Code,
		CommunityID:   parsed.CommunityID,
		CommunityName: parsed.CommunityName,
	}
	r.cache.Add(code, cached{invite: invite})
	return invite, nil
}
