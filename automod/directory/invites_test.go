package directory

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPResolver(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		switch r.URL.Path {
		case "/api/invites/known":
			fmt.Fprint(w, `{"code": "known", "community_id": "community-9", "community_name": "The Nine"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	r := NewHTTPResolver(srv.URL, slog.Default())

	invite, err := r.Resolve(ctx, "known")
	assert.NoError(err)
	assert.NotNil(invite)
	assert.Equal("community-9", invite.CommunityID)
	assert.Equal("The Nine", invite.CommunityName)

	// unknown codes resolve to nil without error
	invite, err = r.Resolve(ctx, "expired")
	assert.NoError(err)
	assert.Nil(invite)

	// both outcomes are served from cache on repeat
	before := hits
	_, err = r.Resolve(ctx, "known")
	assert.NoError(err)
	_, err = r.Resolve(ctx, "expired")
	assert.NoError(err)
	assert.Equal(before, hits)
}

func TestHTTPResolverServerError(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	r := NewHTTPResolver(srv.URL, slog.Default())
	_, err := r.Resolve(ctx, "anything")
	assert.Error(err)
}
