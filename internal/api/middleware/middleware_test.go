package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-vocab/internal/api/shared"
	"github.com/phrazzld/scry-vocab/internal/metrics"
	"github.com/phrazzld/scry-vocab/internal/mocks"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/service/auth"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoUserHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := shared.GetUserID(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(userID))
	})
}

func TestNewAuthMiddlewarePanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewAuthMiddleware(nil) })
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		header         string
		validateErr    error
		expectedStatus int
		expectedBody   string
	}{
		{name: "valid token", header: "Bearer good", expectedStatus: http.StatusOK, expectedBody: "user-42"},
		{name: "lower case scheme", header: "bearer good", expectedStatus: http.StatusOK, expectedBody: "user-42"},
		{name: "missing header", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", expectedStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", expectedStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer good", validateErr: auth.ErrExpiredToken, expectedStatus: http.StatusUnauthorized},
		{name: "no subject", header: "Bearer good", validateErr: auth.ErrMissingSubject, expectedStatus: http.StatusUnauthorized},
		{name: "unexpected failure", header: "Bearer good", validateErr: errors.New("boom"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			jwtService := &mocks.MockJWTService{
				ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
					if tc.validateErr != nil {
						return nil, tc.validateErr
					}
					assert.Equal(t, "good", token)
					return &auth.Claims{UserID: "user-42"}, nil
				},
			}

			handler := NewAuthMiddleware(jwtService).Authenticate(echoUserHandler(t))
			req := httptest.NewRequest(http.MethodGet, "/api/vocabulary/list", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedBody != "" {
				assert.Equal(t, tc.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewCapture()

	var traceID string
	handler := TraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.NotEmpty(t, traceID)
	assert.Equal(t, traceID, rec.Header().Get("X-Trace-ID"))

	entries, err := buf.Entries()
	require.NoError(t, err)
	var found bool
	for _, entry := range entries {
		if entry["msg"] == "inside handler" {
			found = true
			assert.Equal(t, traceID, entry["trace_id"])
		}
	}
	assert.True(t, found, "handler log entry carries the trace ID")
}

// Not parallel: observes the global request histogram.
func TestMetricsMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/api/vocabulary/check/{word}", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.CollectAndCount(metrics.RequestDurationSeconds)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vocabulary/check/hello", nil))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vocabulary/check/world", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.CollectAndCount(metrics.RequestDurationSeconds),
		"both requests share one route-pattern series")
}
