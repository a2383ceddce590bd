package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limited(rl *RateLimiter) http.Handler {
	return rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func hit(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestLimitAllowsBurstThenRejects(t *testing.T) {
	// 1 token/s refill is effectively zero within a single test run, so only
	// the burst passes.
	handler := limited(NewRateLimiter(1, 3))

	for i := 0; i < 3; i++ {
		rec := hit(handler, "10.0.0.1:5000")
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	rec := hit(handler, "10.0.0.1:5000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Rate limit exceeded. Please try again later."}`, rec.Body.String())
}

func TestLimitIsPerIP(t *testing.T) {
	handler := limited(NewRateLimiter(1, 1))

	require.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:5000").Code)
	require.Equal(t, http.StatusTooManyRequests, hit(handler, "10.0.0.1:5001").Code)

	// A different client has its own bucket.
	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.2:5000").Code)
}

func TestLimitHandlesBarePeerAddress(t *testing.T) {
	handler := limited(NewRateLimiter(1, 1))

	rec := hit(handler, "10.0.0.3")
	assert.Equal(t, http.StatusOK, rec.Code)
}
