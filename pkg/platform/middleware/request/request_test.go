package request

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paaa/pkg/requestcontext"
)

func TestRequestID(t *testing.T) {
	t.Run("generates UUID when no header provided", func(t *testing.T) {
		var capturedID string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedID = requestcontext.RequestID(r.Context())
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/paaa/alice/newfee", nil))

		assert.Len(t, capturedID, 36)
		assert.Equal(t, capturedID, w.Header().Get("X-Request-ID"))
	})

	t.Run("accepts valid client-provided ID", func(t *testing.T) {
		handler := RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		req := httptest.NewRequest(http.MethodPost, "/paaa/alice", nil)
		req.Header.Set("X-Request-ID", "trace.span_1234")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "trace.span_1234", w.Header().Get("X-Request-ID"))
	})

	t.Run("replaces IDs that could pollute logs", func(t *testing.T) {
		for _, id := range []string{
			"valid\ninjected-log-line",
			"request id",
			`request"id`,
			strings.Repeat("a", MaxRequestIDLength+1),
		} {
			handler := RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
			req := httptest.NewRequest(http.MethodPost, "/paaa/alice", nil)
			req.Header.Set("X-Request-ID", id)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.NotEqual(t, id, w.Header().Get("X-Request-ID"))
			assert.Len(t, w.Header().Get("X-Request-ID"), 36)
		}
	})
}

func TestRequestTime(t *testing.T) {
	var first, second time.Time
	handler := RequestTime(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		first = requestcontext.Now(r.Context())
		time.Sleep(5 * time.Millisecond)
		second = requestcontext.Now(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, first, second)
}

func TestLogger(t *testing.T) {
	t.Run("logs request without query string", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/paaa/alice/newfee?access_token=secret", nil))

		assert.Contains(t, buf.String(), `"status":401`)
		assert.Contains(t, buf.String(), `"path":"/paaa/alice/newfee"`)
		assert.NotContains(t, buf.String(), "secret")
	})

	t.Run("skips successful quiet paths", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		handler := Logger(logger, "/ping")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Empty(t, buf.String())
	})
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestBodyLimit(t *testing.T) {
	t.Run("request at exact limit passes through", func(t *testing.T) {
		handler := BodyLimit(100)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			data, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Len(t, data, 100)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 100))))
	})

	t.Run("request over limit fails on read", func(t *testing.T) {
		handler := BodyLimit(10)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			_, err := io.ReadAll(r.Body)
			require.Error(t, err)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 11))))
	})
}

type latencyRecorder struct {
	endpoints []string
}

func (l *latencyRecorder) ObserveEndpointLatency(endpoint string, _ float64) {
	l.endpoints = append(l.endpoints, endpoint)
}

func TestLatency(t *testing.T) {
	rec := &latencyRecorder{}
	handler := Latency(rec, func(r *http.Request) string { return r.Method })(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/paaa/alice", nil))
	assert.Equal(t, []string{http.MethodDelete}, rec.endpoints)
}
