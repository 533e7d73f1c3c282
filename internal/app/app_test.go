package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gpacalc/internal/config"
	apperrors "gpacalc/internal/errors"
	"gpacalc/internal/middleware"
	"gpacalc/internal/shared/testutil"
)

func newTestApp(t *testing.T, mutate func(*config.Config)) *Application {
	t.Helper()
	cfg := config.Default()
	cfg.Server.RateLimit.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}
	logger, _ := testutil.NewTestLogger(t)

	application, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = application.OTelProviders.Shutdown(context.Background())
	})
	return application
}

func rosterUpload(t *testing.T, rows [][]string) (*bytes.Buffer, string) {
	t.Helper()
	var content bytes.Buffer
	w := csv.NewWriter(&content)
	require.NoError(t, w.Write(testutil.RosterHeader))
	require.NoError(t, w.WriteAll(rows))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("roster", "roster.csv")
	require.NoError(t, err)
	_, err = part.Write(content.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func serve(a *Application, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func TestApplication_Routes(t *testing.T) {
	a := newTestApp(t, nil)

	t.Run("health", func(t *testing.T) {
		rec := serve(a, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	})

	t.Run("version", func(t *testing.T) {
		rec := serve(a, httptest.NewRequest(http.MethodGet, "/api/version", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"version"`)
	})

	t.Run("calculate", func(t *testing.T) {
		body, contentType := rosterUpload(t, testutil.SampleRoster())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/gpa/calculate", body)
		req.Header.Set("Content-Type", contentType)

		rec := serve(a, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Students int `json:"students"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 2, resp.Students)
	})

	t.Run("identity conflict carries request id", func(t *testing.T) {
		body, contentType := rosterUpload(t, testutil.ConflictingRoster())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/gpa/calculate", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(middleware.RequestIDHeader, "req-42")

		rec := serve(a, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "req-42", rec.Header().Get(middleware.RequestIDHeader))
		assert.Contains(t, rec.Body.String(), `"trace_id":"req-42"`)
	})

	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/gpa/calculate", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")

		rec := serve(a, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := serve(a, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := serve(a, httptest.NewRequest(http.MethodGet, "/api/v1/gpa/calculate", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := serve(a, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "gpa_rosters_processed")
		assert.Contains(t, rec.Body.String(), "http_requests_total")
	})
}

func TestApplication_UploadLimit(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) {
		c.Server.MaxUploadBytes = 1024
	})

	rows := make([][]string, 0, 64)
	for i := 0; i < 64; i++ {
		rows = append(rows, testutil.SampleRoster()[0])
	}
	body, contentType := rosterUpload(t, rows)
	require.Greater(t, body.Len(), 1024)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/gpa/calculate", body)
	req.Header.Set("Content-Type", contentType)

	rec := serve(a, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestApplication_RateLimit(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) {
		c.Server.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	})

	first := serve(a, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := serve(a, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestApplication_ServeAndStop(t *testing.T) {
	a := newTestApp(t, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.Serve(ctx, ln, cancel))

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, a.Stop(context.Background()))

	_, err = http.Get("http://" + ln.Addr().String() + "/api/health")
	assert.Error(t, err)
	assert.NoError(t, ctx.Err(), "a clean shutdown must not cancel the run context")
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestNewApplication_ConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [\n"), 0o644))

	application, err := NewApplication(path)

	assert.Nil(t, application)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}
