package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orgball2608/social-scheduler/pkg/logger"
	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthRouter(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		ping       error
		wantStatus int
		wantBody   string
	}{
		{"healthz ignores db", "/healthz", errors.New("down"), http.StatusOK, "ok"},
		{"ready", "/readyz", nil, http.StatusOK, "ready"},
		{"not ready", "/readyz", errors.New("dial tcp: refused"), http.StatusServiceUnavailable, "postgres unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newHealthRouter(pingFunc(func(context.Context) error { return tt.ping }), logger.NewNop())

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}
