package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestRequestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	wrapped := RequestLogger(log)(next)

	req := httptest.NewRequest(http.MethodPost, "/lend", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	if assert.Len(t, hook.AllEntries(), 1) {
		entry := hook.LastEntry()
		assert.Equal(t, "request handled", entry.Message)
		assert.Equal(t, "POST", entry.Data["method"])
		assert.Equal(t, "/lend", entry.Data["path"])
		assert.Equal(t, http.StatusCreated, entry.Data["status"])
	}
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	// no Redis listening on this address; requests must still go through
	log := logrus.New()
	log.SetOutput(io.Discard)
	limiter := NewRateLimiter("127.0.0.1:1", 1, time.Minute, log)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := limiter.Middleware(next)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ledger/1", nil)
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
