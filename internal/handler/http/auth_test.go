package http

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/care-coord/internal/store"
	"github.com/MKhiriev/care-coord/internal/utils"
	"github.com/MKhiriev/care-coord/internal/validators"
	"github.com/MKhiriev/care-coord/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func hashed(t *testing.T, plain string) string {
	t.Helper()
	hash, err := utils.HashPassword(plain, bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

// ── POST /auth/login ─────────────────────────────────────────────────────────

func TestLogin_SeededAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	admin := adminUser
	admin.FirstName = "System"
	admin.LastName = "Administrator"
	admin.PasswordHash = hashed(t, "password123")

	env.repo.EXPECT().FindActiveUserByEmail(gomock.Any(), "admin@carecompany.com").Return(admin, nil)
	env.repo.EXPECT().UpdateLastLogin(gomock.Any(), int64(1), gomock.Any()).Return(nil)

	rr := env.do(http.MethodPost, "/auth/login", `{"email":"admin@carecompany.com","password":"password123"}`, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result models.LoginResult
	decodeData(t, rr, &result)
	assert.Equal(t, models.RoleAdmin, result.User.Role)
	assert.NotContains(t, rr.Body.String(), "password_hash")
	assert.NotContains(t, rr.Body.String(), admin.PasswordHash)

	token, err := utils.ValidateAndParseJWTToken(result.Token, testSignKey, testIssuer, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, token.Role)
	assert.False(t, token.MustChangePassword)
}

func TestLogin_UnknownEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	env.repo.EXPECT().FindActiveUserByEmail(gomock.Any(), "nobody@carecompany.com").Return(models.User{}, store.ErrUserNotFound)

	rr := env.do(http.MethodPost, "/auth/login", `{"email":"nobody@carecompany.com","password":"password123"}`, "")

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid credentials"}`, rr.Body.String())
}

func TestLogin_WrongPasswordLooksLikeUnknownEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	admin := adminUser
	admin.PasswordHash = hashed(t, "password123")
	env.repo.EXPECT().FindActiveUserByEmail(gomock.Any(), "admin@carecompany.com").Return(admin, nil)

	rr := env.do(http.MethodPost, "/auth/login", `{"email":"admin@carecompany.com","password":"password124"}`, "")

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid credentials"}`, rr.Body.String())
}

func TestLogin_BadRequests(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{name: "missing password", body: `{"email":"admin@carecompany.com"}`, wantError: "Email and password are required"},
		{name: "missing email", body: `{"password":"password123"}`, wantError: "Email and password are required"},
		{name: "empty body", body: "", wantError: "Email and password are required"},
		{name: "malformed json", body: `{"email":`, wantError: MsgInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			env := newTestEnv(t, ctrl)

			rr := env.do(http.MethodPost, "/auth/login", tt.body, "")

			require.Equal(t, http.StatusBadRequest, rr.Code)
			resp := decodeResponse(t, rr)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantError, resp.Error)
		})
	}
}

func TestLogin_InternalErrorIsOpaque(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	env.repo.EXPECT().FindActiveUserByEmail(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrExecutingQuery)

	rr := env.do(http.MethodPost, "/auth/login", `{"email":"admin@carecompany.com","password":"password123"}`, "")

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal server error"}`, rr.Body.String())
}

func TestLogin_RateLimitedPerIP(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	env.handler.settings.LoginRateLimit = 2
	env.router = env.handler.Init()

	for range 2 {
		rr := env.do(http.MethodPost, "/auth/login", `{}`, "")
		require.Equal(t, http.StatusBadRequest, rr.Code)
	}

	rr := env.do(http.MethodPost, "/auth/login", `{}`, "")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, MsgTooManyRequests, decodeResponse(t, rr).Error)
}

func TestLogin_RateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	env.handler.settings.LoginRateLimit = 3
	env.router = env.handler.Init()

	for i := range 3 {
		rr := env.loginFrom("203.0.113.7:40000", fmt.Sprintf("10.0.0.%d", i))
		require.Equal(t, http.StatusBadRequest, rr.Code, "attempt %d", i)
	}

	rr := env.loginFrom("203.0.113.7:40000", "10.0.0.99")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, MsgTooManyRequests, decodeResponse(t, rr).Error)
}

func TestLogin_RateLimitKeysOnForwardedClientBehindTrustedProxy(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)
	env.handler.settings.LoginRateLimit = 1
	env.handler.settings.TrustedProxies = []string{"203.0.113.0/24"}
	env.router = env.handler.Init()

	// distinct clients behind the proxy each get their own budget
	require.Equal(t, http.StatusBadRequest, env.loginFrom("203.0.113.7:40000", "198.51.100.1").Code)
	require.Equal(t, http.StatusBadRequest, env.loginFrom("203.0.113.7:40000", "198.51.100.2").Code)

	// the same client is throttled
	require.Equal(t, http.StatusTooManyRequests, env.loginFrom("203.0.113.7:40000", "198.51.100.1").Code)

	// an untrusted peer cannot borrow another client's identity
	require.Equal(t, http.StatusBadRequest, env.loginFrom("192.0.2.50:5000", "198.51.100.1").Code)
	require.Equal(t, http.StatusTooManyRequests, env.loginFrom("192.0.2.50:5000", "198.51.100.3").Code)
}

// ── GET /auth/me ─────────────────────────────────────────────────────────────

func TestMe_ReturnsCurrentUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	phone := "+44 20 7946 0000"
	user := carerUser
	user.FirstName = "Jane"
	user.Phone = &phone
	user.PasswordHash = "secret-hash"
	env.repo.EXPECT().FindActiveUserByID(gomock.Any(), int64(5)).Return(user, nil)

	rr := env.do(http.MethodGet, "/auth/me", "", env.bearer(t, carerUser))
	require.Equal(t, http.StatusOK, rr.Code)

	var view models.UserView
	decodeData(t, rr, &view)
	assert.Equal(t, int64(5), view.ID)
	assert.Equal(t, models.WorkerTypeGround, view.WorkerType)
	assert.Equal(t, phone, view.Phone)
	assert.Equal(t, "", view.LastLogin)
	assert.NotContains(t, rr.Body.String(), "secret-hash")
}

func TestMe_AllowedWhilePasswordChangePending(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	pending := carerUser
	pending.MustChangePassword = true
	env.repo.EXPECT().FindActiveUserByID(gomock.Any(), int64(5)).Return(pending, nil)

	rr := env.do(http.MethodGet, "/auth/me", "", env.bearer(t, pending))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMe_DeactivatedAfterLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	env.repo.EXPECT().FindActiveUserByID(gomock.Any(), int64(5)).Return(models.User{}, store.ErrUserNotFound)

	rr := env.do(http.MethodGet, "/auth/me", "", env.bearer(t, carerUser))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// ── POST /auth/logout ────────────────────────────────────────────────────────

func TestLogout(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	rr := env.do(http.MethodPost, "/auth/logout", "", env.bearer(t, carerUser))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"Logged out successfully"}`, rr.Body.String())
}

// ── PUT /auth/change-password ────────────────────────────────────────────────

func TestChangePassword_TooShortReportsOnlyLengthRule(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	rr := env.do(http.MethodPut, "/auth/change-password",
		`{"current_password":"password123","new_password":"short1!"}`, env.bearer(t, carerUser))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeResponse(t, rr)
	assert.False(t, resp.Success)
	assert.Equal(t, validators.MsgWeakPassword, resp.Error)
	assert.Equal(t, []string{"Password must be at least 8 characters long"}, resp.Details)
}

func TestChangePassword_WeakPasswordListsEveryFailedRule(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	rr := env.do(http.MethodPut, "/auth/change-password",
		`{"current_password":"password123","new_password":"alllowercase"}`, env.bearer(t, carerUser))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, []string{
		utils.MsgPasswordNoUpper,
		utils.MsgPasswordNoDigit,
		utils.MsgPasswordNoSpecial,
	}, decodeResponse(t, rr).Details)
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	user := carerUser
	user.PasswordHash = hashed(t, "Temp#Pass9")
	env.repo.EXPECT().FindActiveUserByID(gomock.Any(), int64(5)).Return(user, nil)

	rr := env.do(http.MethodPut, "/auth/change-password",
		`{"current_password":"nope","new_password":"N3w!Secret"}`, env.bearer(t, carerUser))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Current password is incorrect", decodeResponse(t, rr).Error)
}

func TestChangePassword_ClearsPendingFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	pending := carerUser
	pending.MustChangePassword = true
	pending.PasswordHash = hashed(t, "Temp#Pass9")

	env.repo.EXPECT().FindActiveUserByID(gomock.Any(), int64(5)).Return(pending, nil)
	env.repo.EXPECT().UpdatePassword(gomock.Any(), int64(5), gomock.Any(), false).Return(nil)

	rr := env.do(http.MethodPut, "/auth/change-password",
		`{"current_password":"Temp#Pass9","new_password":"N3w!Secret"}`, env.bearer(t, pending))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, MsgPasswordChanged, decodeResponse(t, rr).Message)

	var result models.TokenResult
	decodeData(t, rr, &result)
	token, err := utils.ValidateAndParseJWTToken(result.Token, testSignKey, testIssuer, time.Now())
	require.NoError(t, err)
	assert.False(t, token.MustChangePassword)
}

func TestChangePassword_RequiresAuthentication(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := newTestEnv(t, ctrl)

	rr := env.do(http.MethodPut, "/auth/change-password", `{"current_password":"a","new_password":"b"}`, "")

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, MsgAccessTokenRequired, decodeResponse(t, rr).Error)
}
