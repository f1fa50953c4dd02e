// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	healthy   = pingFunc(func(context.Context) error { return nil })
	unhealthy = pingFunc(func(context.Context) error { return errors.New("connection refused") })
)

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLiveness(t *testing.T) {
	h := NewHandler("Saasify Backend", nil, nil)

	rec := serve(h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body.Status)
	assert.Equal(t, "Saasify Backend", body.Service)
	assert.False(t, body.Timestamp.IsZero())

	h.SetShutdown(true)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/health").Code)
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name   string
		db     Checker
		redis  Checker
		status int
		state  string
	}{
		{"all healthy", healthy, healthy, http.StatusOK, "ok"},
		{"redis down", healthy, unhealthy, http.StatusServiceUnavailable, "degraded"},
		{"db missing", nil, healthy, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler("svc", tt.db, tt.redis), "/health/ready")
			assert.Equal(t, tt.status, rec.Code)

			var body ReadinessResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.state, body.Status)
			assert.Len(t, body.Checks, 2)
		})
	}
}

func TestReadiness_NotReady(t *testing.T) {
	h := NewHandler("svc", healthy, healthy)
	h.SetReady(false)

	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/health/ready").Code)
}
