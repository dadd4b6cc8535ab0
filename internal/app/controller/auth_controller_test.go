package controller

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	apperrors "github.com/zhwaweb/zhwaweb-admin/internal/errors"
)

func TestAuthController_Register(t *testing.T) {
	srv := setupControllerTest(t)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "store owner",
			body:       map[string]interface{}{"username": "alice", "password": "pw", "type": "store"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid type",
			body:       map[string]interface{}{"username": "bob", "password": "pw", "type": "superuser"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.AuthInvalidRole,
		},
		{
			name:       "missing password",
			body:       map[string]interface{}{"username": "carol", "type": "store"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.ValidationInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodPost, "/auth/register", "", tt.body)
			requireStatus(t, w, tt.wantStatus)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Error)
				return
			}

			body := decodeBody(t, w)
			assert.Equal(t, "alice", body["username"])
			assert.Equal(t, "store", body["type"])
			assert.Equal(t, true, body["is_active"])
			assert.NotContains(t, body, "password_hash")
		})
	}
}

func TestAuthController_Register_DuplicateUsername(t *testing.T) {
	srv := setupControllerTest(t)

	payload := map[string]interface{}{"username": "alice", "password": "pw", "type": "store"}
	requireStatus(t, srv.do(t, http.MethodPost, "/auth/register", "", payload), http.StatusOK)

	w := srv.do(t, http.MethodPost, "/auth/register", "", payload)
	requireStatus(t, w, http.StatusBadRequest)
	body := decodeError(t, w)
	assert.Equal(t, apperrors.AuthUsernameExists, body.Error)
	assert.Equal(t, "Username already registered", body.Message)
}

func TestAuthController_Login(t *testing.T) {
	srv := setupControllerTest(t)
	_, err := srv.authService.Register("alice", "password123", model.RoleStore)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"username": "alice",
			"password": "password123",
		})
		requireStatus(t, w, http.StatusOK)

		body := decodeBody(t, w)
		assert.NotEmpty(t, body["access_token"])
		assert.Equal(t, "bearer", body["token_type"])
		user, ok := body["user"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "alice", user["username"])
	})

	t.Run("wrong password", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"username": "alice",
			"password": "nope",
		})
		requireStatus(t, w, http.StatusUnauthorized)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		assert.Equal(t, "Incorrect username or password", decodeError(t, w).Message)
	})

	t.Run("unknown user", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"username": "mallory",
			"password": "password123",
		})
		requireStatus(t, w, http.StatusUnauthorized)
		assert.Equal(t, apperrors.AuthInvalidCredentials, decodeError(t, w).Error)
	})
}

func TestAuthController_LoginPhone(t *testing.T) {
	srv := setupControllerTest(t)

	w := srv.do(t, http.MethodPost, "/auth/login-phone", "", nil)
	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, testAdminUsername, user["username"])
	assert.Equal(t, "admin", user["type"])
}

func TestAuthController_MeAndLogout(t *testing.T) {
	srv := setupControllerTest(t)
	token := srv.login(t, "alice", model.RoleStore)

	w := srv.do(t, http.MethodGet, "/auth/me", token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "alice", decodeBody(t, w)["username"])

	w = srv.do(t, http.MethodPost, "/auth/logout", token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "Successfully logged out", decodeBody(t, w)["message"])
}

func TestAuthController_Me_WithoutToken(t *testing.T) {
	srv := setupControllerTest(t)

	w := srv.do(t, http.MethodGet, "/auth/me", "", nil)
	requireStatus(t, w, http.StatusUnauthorized)
	assert.Equal(t, apperrors.MsgCouldNotValidate, decodeError(t, w).Message)
}

func TestAuthController_Me_InactiveUser(t *testing.T) {
	srv := setupControllerTest(t)
	token := srv.login(t, "alice", model.RoleStore)

	require.NoError(t, srv.db.Model(&model.User{}).
		Where("username = ?", "alice").
		Update("is_active", false).Error)

	w := srv.do(t, http.MethodGet, "/auth/me", token, nil)
	requireStatus(t, w, http.StatusUnauthorized)
	body := decodeError(t, w)
	assert.Equal(t, apperrors.AuthInactiveAccount, body.Error)
	assert.Equal(t, "Inactive user", body.Message)
}
