package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingHandler records log records for assertions.
type capturingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *capturingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *capturingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *capturingHandler) WithGroup(string) slog.Handler      { return h }

func attrs(r slog.Record) map[string]slog.Value {
	out := make(map[string]slog.Value)
	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value
		return true
	})
	return out
}

func TestLogging_RecordsRequestDetails(t *testing.T) {
	captured := &capturingHandler{}
	logger := slog.New(captured)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("nope"))
	})

	req := httptest.NewRequest(http.MethodGet, "http://test/subscriptions/find", nil)
	rr := httptest.NewRecorder()
	Logging(logger, next).ServeHTTP(rr, req)

	require.Len(t, captured.records, 1)
	got := attrs(captured.records[0])
	assert.Equal(t, "GET", got["method"].String())
	assert.Equal(t, "/subscriptions/find", got["path"].String())
	assert.Equal(t, int64(http.StatusNotFound), got["status"].Int64())
	assert.Equal(t, int64(4), got["bytes"].Int64())
	assert.NotEmpty(t, got["request_id"].String())
	assert.Equal(t, got["request_id"].String(), rr.Header().Get("X-Request-ID"))
}

func TestLogging_HonorsIncomingRequestID(t *testing.T) {
	captured := &capturingHandler{}
	logger := slog.New(captured)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodPost, "http://test/newsletters", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()
	Logging(logger, next).ServeHTTP(rr, req)

	require.Len(t, captured.records, 1)
	got := attrs(captured.records[0])
	assert.Equal(t, "req-123", got["request_id"].String())
	assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
	assert.Equal(t, int64(http.StatusOK), got["status"].Int64(), "implicit 200 is recorded")
}
