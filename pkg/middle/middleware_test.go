package middle

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestIDAndLogging(t *testing.T) {
	logger := zap.NewNop()
	var seen string
	var scoped *zap.Logger
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		scoped = Logger(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}), RequestIDMiddleware(logger), LoggingMiddleware(logger))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.True(t, strings.HasPrefix(seen, "req-"))
	assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))
	assert.NotNil(t, scoped)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc", seen)
}

func TestLoggingMiddlewareRecovers(t *testing.T) {
	h := LoggingMiddleware(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestLoggerWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.NotNil(t, Logger(req.Context()))
}
