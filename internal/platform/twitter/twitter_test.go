package twitter

import (
	"context"
	"encoding/json"
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
	cfg.Twitter.BaseURL = srv.URL
	return New(Opts{Config: cfg, Client: srv.Client(), Logger: logger.NewNop()})
}

func TestPublish(t *testing.T) {
	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tweets", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello world", body["text"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"1445880548472328192","text":"hello world"}}`))
	})

	id, err := a.Publish(context.Background(), domain.Credential{AccessToken: "tok"}, "hello world")

	require.NoError(t, err)
	assert.Equal(t, "1445880548472328192", id)
	assert.Equal(t, 280, a.MaxContentLength())
}

func TestPublish_Rejected(t *testing.T) {
	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"You are not allowed to create a Tweet with duplicate content.","status":403}`))
	})

	_, err := a.Publish(context.Background(), domain.Credential{AccessToken: "tok"}, "dup")

	var apiErr *platform.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.PlatformTwitter, apiErr.Platform)
	assert.Contains(t, err.Error(), "duplicate content")
}

func TestPublish_MissingID(t *testing.T) {
	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	})

	_, err := a.Publish(context.Background(), domain.Credential{AccessToken: "tok"}, "x")

	assert.True(t, errors.Is(err, platform.ErrInvalidResponse))
}

func TestPublish_ContextCanceled(t *testing.T) {
	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":"1"}}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Publish(ctx, domain.Credential{AccessToken: "tok"}, "x")

	assert.True(t, errors.Is(err, context.Canceled))
}
