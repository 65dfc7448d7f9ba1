package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakshiyadav/vidya/core/session"
)

func Test_authApi_login(t *testing.T) {
	server, _ := setup(t)

	t.Run("ok", func(t *testing.T) {
		rec := doRequest(server, http.MethodPost, "/v1/auth/login", "",
			map[string]string{"username": "sakshiyadav", "password": "syssakshiyada"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp LoginResponse
		decodeJSON(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.True(t, resp.Session.IsAuthenticated)
		assert.True(t, resp.Session.IsAdmin)
		assert.Equal(t, "sakshiyadav", resp.Session.Username)
	})

	t.Run("bad credentials", func(t *testing.T) {
		for _, pair := range [][2]string{
			{"sakshiyadav", "wrong"},
			{"wrong", "syssakshiyada"},
		} {
			rec := doRequest(server, http.MethodPost, "/v1/auth/login", "",
				map[string]string{"username": pair[0], "password": pair[1]})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := doRequest(server, http.MethodPost, "/v1/auth/login", "", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_authApi_session(t *testing.T) {
	server, _ := setup(t)
	conf := testConfig()

	t.Run("requires a token", func(t *testing.T) {
		rec := doRequest(server, http.MethodGet, "/v1/auth/session", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rehydrates from the token", func(t *testing.T) {
		rec := doRequest(server, http.MethodGet, "/v1/auth/session", adminToken(t, conf), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var s session.Session
		decodeJSON(t, rec, &s)
		assert.True(t, s.IsAuthenticated)
		assert.True(t, s.IsAdmin)
		assert.Equal(t, "sakshiyadav", s.Username)
		require.NotNil(t, s.CurrentUser)
	})
}

func Test_authApi_logout(t *testing.T) {
	server, _ := setup(t)
	conf := testConfig()

	rec := doRequest(server, http.MethodPost, "/v1/auth/logout", adminToken(t, conf), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var s session.Session
	decodeJSON(t, rec, &s)
	assert.Equal(t, session.Anonymous(), s)
}

func Test_authApi_refreshToken(t *testing.T) {
	server, _ := setup(t)
	conf := testConfig()

	t.Run("ok", func(t *testing.T) {
		rec := doRequest(server, http.MethodPost, "/v1/auth/token-refresh", adminToken(t, conf), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp LoginResponse
		decodeJSON(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("requires a token", func(t *testing.T) {
		rec := doRequest(server, http.MethodPost, "/v1/auth/token-refresh", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func Test_authApi_recoveryUnsupported(t *testing.T) {
	// the static strategy has no recovery flow
	server, _ := setup(t)

	rec := doRequest(server, http.MethodPost, "/v1/auth/verify-identity", "",
		map[string]string{"username": "sakshiyadav", "email": "sakshi@test.in"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(server, http.MethodPost, "/v1/auth/password-reset-confirm", "",
		map[string]string{
			"username": "sakshiyadav", "email": "sakshi@test.in",
			"password": "new-pwd", "password_confirm": "new-pwd",
		})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_resolveView(t *testing.T) {
	server, _ := setup(t)
	conf := testConfig()

	tests := []struct {
		name  string
		path  string
		token string
		want  session.ViewMode
	}{
		{name: "anonymous default", path: "/v1/view", want: session.ViewViewer},
		{name: "anonymous requesting admin", path: "/v1/view?mode=admin", want: session.ViewViewer},
		{name: "admin requesting admin", path: "/v1/view?mode=admin", token: adminToken(t, conf), want: session.ViewAdmin},
		{name: "admin requesting viewer", path: "/v1/view?mode=viewer", token: adminToken(t, conf), want: session.ViewViewer},
		{name: "viewer requesting admin", path: "/v1/view?mode=admin", token: viewerToken(t, conf), want: session.ViewViewer},
		{name: "garbage mode", path: "/v1/view?mode=root", token: adminToken(t, conf), want: session.ViewViewer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(server, http.MethodGet, tt.path, tt.token, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp ViewResponse
			decodeJSON(t, rec, &resp)
			assert.Equal(t, tt.want, resp.View)
		})
	}

	t.Run("a bad token is still rejected", func(t *testing.T) {
		rec := doRequest(server, http.MethodGet, "/v1/view?mode=admin", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
