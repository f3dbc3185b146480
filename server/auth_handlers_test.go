package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	errs "github.com/galleried/galleria/errors"
	"github.com/galleried/galleria/models"
)

func TestHandleSignup(t *testing.T) {
	env := newTestEnv(t)

	env.auth.signupFn = func(request *models.SignupRequest) (*models.UserResponse, *errs.Error) {
		require.Equal(t, "alice", request.Name)
		require.Equal(t, "alice@example.com", request.Email)
		require.Equal(t, models.RoleCreator, request.Role)
		return &models.UserResponse{ID: 1, Name: "alice", Email: "alice@example.com", RoleName: models.RoleCreator}, nil
	}

	w := env.do(http.MethodPost, "/api/v1/auth/signup", "",
		`{"name":"alice","email":"alice@example.com","password":"secret123","role":"creator"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Message string `json:"message"`
		Data    struct {
			User models.UserResponse `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Signup successful", body.Message)
	require.Equal(t, "alice", body.Data.User.Name)
}

func TestHandleSignup_BadPayload(t *testing.T) {
	env := newTestEnv(t)

	cases := []string{
		`{"name":"a","email":"alice@example.com","password":"secret123"}`,
		`{"name":"alice","email":"not-an-email","password":"secret123"}`,
		`{"name":"alice","email":"alice@example.com"}`,
		`{"name":"alice","email":"alice@example.com","password":"secret123","role":"admin"}`,
	}
	for _, payload := range cases {
		w := env.do(http.MethodPost, "/api/v1/auth/signup", "", payload)
		require.Equal(t, http.StatusBadRequest, w.Code, "payload=%s", payload)
	}
}

func TestHandleLogin(t *testing.T) {
	env := newTestEnv(t)

	env.auth.loginFn = func(loginRequest *models.LoginRequest) (*models.LoginResponse, *errs.Error) {
		require.Equal(t, "alice@example.com", loginRequest.Email)
		return &models.LoginResponse{
			UserResponse: models.UserResponse{ID: 1, Name: "alice", Email: loginRequest.Email, RoleName: models.RoleCreator},
			AccessToken:  "token-value",
		}, nil
	}

	w := env.do(http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"alice@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Message string `json:"message"`
		Data    struct {
			User models.LoginResponse `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Login successful", body.Message)
	require.Equal(t, "token-value", body.Data.User.AccessToken)
}

func TestHandleLogin_BadCredentials(t *testing.T) {
	env := newTestEnv(t)

	env.auth.loginFn = func(loginRequest *models.LoginRequest) (*models.LoginResponse, *errs.Error) {
		return nil, errs.ErrInvalidPassword
	}

	w := env.do(http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"alice@example.com","password":"wrong1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body["errors"], "invalid email or password")
}

func TestHandleLogout(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.users.addUser(7, "bob", models.RoleViewer)
	token := env.tokenFor(t, viewer)

	var revokedToken string
	env.auth.logoutFn = func(ctx context.Context, accessToken string) *errs.Error {
		revokedToken = accessToken
		return nil
	}

	w := env.do(http.MethodPost, "/api/v1/auth/logout", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, token, revokedToken)
}

func TestHandleShowProfile(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.users.addUser(7, "bob", models.RoleViewer)

	env.auth.getProfileFn = func(userID uint) (*models.UserResponse, *errs.Error) {
		require.Equal(t, viewer.ID, userID)
		return &models.UserResponse{ID: viewer.ID, Name: "bob", Email: viewer.Email, RoleName: models.RoleViewer}, nil
	}

	w := env.do(http.MethodGet, "/api/v1/me", env.tokenFor(t, viewer), "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			User models.UserResponse `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "bob", body.Data.User.Name)
}

func TestHandleGetUserProfile(t *testing.T) {
	env := newTestEnv(t)

	env.auth.getByNameFn = func(name string) (*models.UserResponse, *errs.Error) {
		if name != "alice" {
			return nil, errs.New("user not found", http.StatusNotFound)
		}
		return &models.UserResponse{ID: 1, Name: "alice", RoleName: models.RoleCreator}, nil
	}

	w := env.do(http.MethodGet, "/api/v1/users/profile/alice", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/v1/users/profile/ghost", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleSearchUsers(t *testing.T) {
	env := newTestEnv(t)

	env.auth.searchFn = func(query string) ([]models.UserResponse, *errs.Error) {
		require.Equal(t, "ali", query)
		return []models.UserResponse{
			{ID: 1, Name: "alice", RoleName: models.RoleCreator},
			{ID: 2, Name: "alicia", RoleName: models.RoleViewer},
		}, nil
	}

	w := env.do(http.MethodGet, "/api/v1/users/search?q=ali", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body []models.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)
}

func TestHandleSearchUsers_EmptyQuery(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/users/search", "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body["errors"], "Search query is required")
}
