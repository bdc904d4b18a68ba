package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/takaio/ipgate/internal/service"
	"github.com/takaio/ipgate/internal/store/drivers/sqlite"
)

func newTestRouter(t *testing.T) (*Router, *service.LifecycleService) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())

	lifecycle := &service.LifecycleService{Store: st}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRouter("test", st, logger)
	r.LifecycleService = lifecycle
	r.ApplyRoutes()

	return r, lifecycle
}

func doRequest(t *testing.T, router *Router, path, ip string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":51423"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateCodeHandler(t *testing.T) {
	router, lifecycle := newTestRouter(t)

	t.Run("issues a code", func(t *testing.T) {
		w := doRequest(t, router, "/generate_id", "203.0.113.7")
		require.Equal(t, http.StatusOK, w.Code)

		var body CodeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, "success", body.Status)
		require.Len(t, body.Code, 6)
	})

	t.Run("reports already authenticated", func(t *testing.T) {
		code, err := lifecycle.IssueCode(context.Background(), "203.0.113.8")
		require.NoError(t, err)
		_, err = lifecycle.Approve(context.Background(), code)
		require.NoError(t, err)

		w := doRequest(t, router, "/generate_id", "203.0.113.8")
		require.Equal(t, http.StatusOK, w.Code)

		var body CodeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, "authenticated", body.Status)
		require.Empty(t, body.Code)
	})

	t.Run("honours forwarded header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/generate_id", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", "203.0.113.9")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var body CodeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, "success", body.Status)

		// The record is keyed by the forwarded address, not the peer.
		_, err := lifecycle.Approve(context.Background(), body.Code)
		require.NoError(t, err)
		require.True(t, lifecycle.IsAuthenticated(context.Background(), "203.0.113.9"))
	})
}

func TestCheckAuthHandler(t *testing.T) {
	router, lifecycle := newTestRouter(t)

	t.Run("false before approval", func(t *testing.T) {
		w := doRequest(t, router, "/check_auth", "203.0.113.7")
		require.Equal(t, http.StatusOK, w.Code)

		var body StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.False(t, body.Authenticated)
	})

	t.Run("true after approval", func(t *testing.T) {
		code, err := lifecycle.IssueCode(context.Background(), "203.0.113.7")
		require.NoError(t, err)
		_, err = lifecycle.Approve(context.Background(), code)
		require.NoError(t, err)

		w := doRequest(t, router, "/check_auth", "203.0.113.7")
		require.Equal(t, http.StatusOK, w.Code)

		var body StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.True(t, body.Authenticated)
	})
}

func TestGatedContentHandler(t *testing.T) {
	router, lifecycle := newTestRouter(t)

	t.Run("forbidden without authorization", func(t *testing.T) {
		w := doRequest(t, router, "/authenticated_content", "203.0.113.7")
		require.Equal(t, http.StatusForbidden, w.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, "unauthorized", body.Error)
	})

	t.Run("served once authorized", func(t *testing.T) {
		code, err := lifecycle.IssueCode(context.Background(), "203.0.113.7")
		require.NoError(t, err)
		_, err = lifecycle.Approve(context.Background(), code)
		require.NoError(t, err)

		w := doRequest(t, router, "/authenticated_content", "203.0.113.7")
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Header().Get("Content-Type"), "text/html")
		require.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		require.NotEmpty(t, w.Body.Bytes())
	})
}

func TestIndexHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(t, router, "/", "203.0.113.7")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")
	require.Contains(t, w.Body.String(), "check_auth")
}

func TestHealthHandlers(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("livez", func(t *testing.T) {
		w := doRequest(t, router, "/livez", "203.0.113.7")
		require.Equal(t, http.StatusOK, w.Code)

		var body HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, "ok", body.Status)
		require.Equal(t, "test", body.Version)
	})

	t.Run("readyz", func(t *testing.T) {
		w := doRequest(t, router, "/readyz", "203.0.113.7")
		require.Equal(t, http.StatusOK, w.Code)

		var body HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, "ok", body.Status)
		require.NotNil(t, body.Checks)
		require.Equal(t, "ok", body.Checks.Database)
	})
}

func TestMethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/generate_id", nil)
	req.RemoteAddr = "203.0.113.7:51423"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
