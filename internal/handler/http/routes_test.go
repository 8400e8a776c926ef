package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/care-coord/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRoutes_Health(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	rr := env.do(http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"data":{"status":"ok","version":"1.4.0"}}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(traceIDHeader))
}

func TestRoutes_VersionIsAdminOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	t.Run("admin", func(t *testing.T) {
		rr := env.do(http.MethodGet, "/version", "", env.bearer(t, adminUser))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"success":true,"data":{"version":"1.4.0","date":"2026-03-01","commit":"abc123"}}`, rr.Body.String())
	})

	t.Run("coordinator", func(t *testing.T) {
		rr := env.do(http.MethodGet, "/version", "", env.bearer(t, coordinatorUser))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		rr := env.do(http.MethodGet, "/version", "", "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRoutes_NotFoundEnvelope(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	tests := []struct {
		name          string
		method        string
		path          string
		authorization string
		wantBody      string
	}{
		{
			name:     "unknown path",
			method:   http.MethodGet,
			path:     "/patients?page=2",
			wantBody: `{"error":"Route not found","method":"GET","url":"/patients?page=2","message":"Cannot GET /patients"}`,
		},
		{
			name:     "unsupported method on public route",
			method:   http.MethodPost,
			path:     "/health",
			wantBody: `{"error":"Route not found","method":"POST","url":"/health","message":"Cannot POST /health"}`,
		},
		{
			name:          "unsupported method on protected route",
			method:        http.MethodPatch,
			path:          "/users/5",
			authorization: env.bearer(t, adminUser),
			wantBody:      `{"error":"Route not found","method":"PATCH","url":"/users/5","message":"Cannot PATCH /users/5"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(tt.method, tt.path, "", tt.authorization)

			assert.Equal(t, http.StatusNotFound, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestRoutes_ProtectedWithoutToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/auth/me"},
		{http.MethodPost, "/auth/logout"},
		{http.MethodPut, "/auth/change-password"},
		{http.MethodGet, "/users"},
		{http.MethodGet, "/users/5"},
		{http.MethodPost, "/users"},
		{http.MethodPut, "/users/5"},
		{http.MethodPost, "/users/5/reset-password"},
		{http.MethodDelete, "/users/5"},
	} {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rr := env.do(route.method, route.path, "", "")

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, `{"success":false,"error":"Access token required"}`, rr.Body.String())
		})
	}
}

func TestRoutes_CORSPreflight(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	env.handler.settings = config.Server{CORSOrigins: []string{"https://app.carecompany.com"}}
	env.router = env.handler.Init()

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)
		return rr
	}

	allowed := preflight("https://app.carecompany.com")
	assert.Equal(t, http.StatusOK, allowed.Code)
	assert.Equal(t, "https://app.carecompany.com", allowed.Header().Get("Access-Control-Allow-Origin"))

	denied := preflight("https://evil.example")
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))
}
