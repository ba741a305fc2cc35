package facebook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orgball2608/social-scheduler/internal/domain"
	"github.com/orgball2608/social-scheduler/internal/platform"
	"github.com/orgball2608/social-scheduler/pkg/config"
	"github.com/orgball2608/social-scheduler/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdapter(t *testing.T, h http.HandlerFunc) platform.Adapter {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Facebook.BaseURL = srv.URL
	return New(Opts{Config: cfg, Client: srv.Client(), Logger: logger.NewNop()})
}

func TestPublish_PageFeed(t *testing.T) {
	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1234/feed", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "hello page", r.PostForm.Get("message"))
		assert.Equal(t, "page-token", r.PostForm.Get("access_token"))
		w.Write([]byte(`{"id":"1234_5678"}`))
	})

	id, err := a.Publish(context.Background(), domain.Credential{AccessToken: "page-token", AccountID: "1234"}, "hello page")

	require.NoError(t, err)
	assert.Equal(t, "1234_5678", id)
}

func TestPublish_DefaultsToMe(t *testing.T) {
	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/feed", r.URL.Path)
		w.Write([]byte(`{"id":"9_1"}`))
	})

	id, err := a.Publish(context.Background(), domain.Credential{AccessToken: "tok"}, "hi")

	require.NoError(t, err)
	assert.Equal(t, "9_1", id)
}

func TestPublish_GraphError(t *testing.T) {
	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Error validating access token","type":"OAuthException","code":190}}`))
	})

	_, err := a.Publish(context.Background(), domain.Credential{AccessToken: "expired"}, "hi")

	var apiErr *platform.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Error validating access token", apiErr.Message)
}
