package actions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTTPExecutor(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	var paths []string
	var bodies []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var body map[string]any
		assert.NoError(json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	x := NewHTTPExecutor(srv.URL)

	assert.NoError(x.Warn(ctx, "community-1", "u1", "first warning"))
	assert.NoError(x.Mute(ctx, "community-1", "u1", 10*time.Minute, "spam"))
	assert.NoError(x.DeleteMessage(ctx, "community-1", "c1", "m1"))

	assert.Equal([]string{
		"/api/communities/community-1/actions/warn",
		"/api/communities/community-1/actions/mute",
		"/api/communities/community-1/actions/delete_message",
	}, paths)
	assert.Equal("first warning", bodies[0]["reason"])
	assert.Equal(float64(600), bodies[1]["duration_sec"])
	assert.Equal("m1", bodies[2]["message_id"])
}

func TestHTTPExecutorErrorStatus(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	x := NewHTTPExecutor(srv.URL)
	assert.Error(x.Ban(ctx, "community-1", "u1", "nope"))
}
