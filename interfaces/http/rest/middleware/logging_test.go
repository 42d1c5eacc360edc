package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	handler := middleware.RequestID(
		RequestLogger(zap.New(core))(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte("made"))
			}),
		),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/api/posts", fields["path"])
	assert.Equal(t, int64(http.StatusCreated), fields["status"])
	assert.Equal(t, int64(len("made")), fields["response_bytes"])
	assert.NotEmpty(t, fields["request_id"])
}
