package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	apperrors "github.com/burevuh-next/logistics-analyzer/internal/errors"
	"github.com/burevuh-next/logistics-analyzer/internal/infrastructure"
	"github.com/burevuh-next/logistics-analyzer/internal/shared/testutil"
	api "github.com/burevuh-next/logistics-analyzer/pkg/contracts/api/v1"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{name: "generated", incoming: ""},
		{name: "propagated", incoming: "abc-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen, traceID string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetReqID(r.Context())
				traceID = infrastructure.GetTraceID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
			assert.Equal(t, seen, traceID)
			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, seen)
			}
		})
	}
}

func TestStructuredLogger(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/kpis?x=1", nil))

	records := logs.GetRecordsByLevel(slog.LevelError)
	require.Len(t, records, 1)
	assert.Equal(t, "request completed", records[0].Message)
	assert.Equal(t, int64(http.StatusInternalServerError), records[0].Attrs["status"])
	assert.Equal(t, "/api/v1/kpis", records[0].Attrs["path"])
}

func TestRecoverer(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := RequestID(Recoverer(apperrors.NewErrorHandler(logger, false))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperrors.TypeInternal, body["type"])
	assert.NotEmpty(t, body["trace_id"])
	assert.True(t, logs.ContainsMessage("panic recovered"))
}

func TestRateLimiter(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	rl := NewRateLimiter(0.001, 2, apperrors.NewErrorHandler(logger, false), logger)
	h := rl.Handler(http.HandlerFunc(okHandler))

	codes := make([]int, 3)
	for i := range codes {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[i] = rec.Code
		if rec.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1", rec.Header().Get("Retry-After"))
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.True(t, logs.ContainsMessage("rate limit exceeded"))
}

func TestTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	h := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		method     string
		wantOrigin string
		wantStatus int
	}{
		{name: "allowed origin", origins: []string{"http://localhost:8501"}, origin: "http://localhost:8501", method: http.MethodGet, wantOrigin: "http://localhost:8501", wantStatus: http.StatusOK},
		{name: "other origin", origins: []string{"http://localhost:8501"}, origin: "http://evil.example", method: http.MethodGet, wantOrigin: "", wantStatus: http.StatusOK},
		{name: "wildcard", origins: []string{"*"}, origin: "http://any.example", method: http.MethodGet, wantOrigin: "http://any.example", wantStatus: http.StatusOK},
		{name: "preflight", origins: nil, origin: "http://a.example", method: http.MethodOptions, wantOrigin: "http://a.example", wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := CORS(CORSConfig{AllowedOrigins: tt.origins})(http.HandlerFunc(okHandler))
			req := httptest.NewRequest(tt.method, "/api/v1/kpis", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodGet)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestOTelMiddleware(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	m := NewOTelMiddleware(tracenoop.NewTracerProvider().Tracer("test"), nil, logger)

	called := false
	rec := httptest.NewRecorder()
	m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		okHandler(w, r)
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/kpis", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestValidator_ValidateStruct(t *testing.T) {
	v := NewValidator(apperrors.NewErrorHandler(nil, false), nil)

	tests := []struct {
		name      string
		value     interface{}
		wantField string
	}{
		{name: "valid top", value: api.TopNRequest{Top: 5}},
		{name: "top too small", value: api.TopNRequest{Top: 0}, wantField: "top"},
		{name: "top too large", value: api.TopNRequest{Top: 101}, wantField: "top"},
		{name: "valid format", value: api.ReportRequest{Format: "xlsx"}},
		{name: "empty format", value: api.ReportRequest{}},
		{name: "bad format", value: api.ReportRequest{Format: "pdf"}, wantField: "format"},
		{name: "missing output dir", value: api.GenerateRequest{Records: 10}, wantField: "output_dir"},
		{name: "negative records", value: api.GenerateRequest{Records: -1, OutputDir: "data"}, wantField: "records"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.value)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var apiErr *apperrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			fields, ok := apiErr.Details.([]apperrors.ValidationError)
			require.True(t, ok)
			require.Len(t, fields, 1)
			assert.Equal(t, tt.wantField, fields[0].Field)
		})
	}
}

func TestValidator_QueryInt(t *testing.T) {
	v := NewValidator(apperrors.NewErrorHandler(nil, false), nil)

	tests := []struct {
		name      string
		query     string
		wantValue int
		wantOK    bool
	}{
		{name: "absent", query: "", wantValue: 10, wantOK: true},
		{name: "present", query: "?top=3", wantValue: 3, wantOK: true},
		{name: "malformed", query: "?top=abc", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			value, ok := v.QueryInt(rec, httptest.NewRequest(http.MethodGet, "/x"+tt.query, nil), "top", 10)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantValue, value)
			} else {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestFilenameTag(t *testing.T) {
	type target struct {
		Name string `json:"name" validate:"filename"`
	}
	validate := NewStructValidator()

	for name, ok := range map[string]bool{
		"report.txt":   true,
		"":             false,
		"../etc":       false,
		"dir/file.csv": false,
		`a\b.csv`:      false,
	} {
		err := validate.Struct(target{Name: name})
		assert.Equal(t, ok, err == nil, name)
	}
}

func TestGetReqID_Empty(t *testing.T) {
	assert.Equal(t, "", GetReqID(context.Background()))
}
