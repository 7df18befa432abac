package test

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/portfolio/internal/users"
)

func (s *IntegrationTestSuite) TestAuth() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	registerReq := map[string]string{
		"name":     "Jane",
		"email":    "Jane@Example.com",
		"password": "jane-secret",
	}

	var registered users.PublicUser
	s.decode(s.doRequest(ctx, "POST", "/api/auth/register", "", registerReq), http.StatusCreated, &registered)
	assert.Equal(t, "jane@example.com", registered.Email)
	assert.Equal(t, users.RoleUser, registered.Role)
	require.NotEmpty(t, registered.ID)

	// same email, different case
	registerReq["email"] = "JANE@example.com"
	assert.Equal(t, http.StatusConflict, s.status(s.doRequest(ctx, "POST", "/api/auth/register", "", registerReq)))

	wrongLogin := s.doRequest(ctx, "POST", "/api/auth/login", "", map[string]string{
		"email":    "jane@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, s.status(wrongLogin))

	loginResp := s.doLogin(ctx, "jane@example.com", "jane-secret")
	assert.Equal(t, registered.ID, loginResp.User.ID)

	var me users.PublicUser
	s.decode(s.doRequest(ctx, "GET", "/api/auth/me", loginResp.Token, nil), http.StatusOK, &me)
	assert.Equal(t, registered.ID, me.ID)

	// regular users are kept out of the admin dashboard
	assert.Equal(t, http.StatusForbidden, s.status(s.doRequest(ctx, "GET", "/api/admin/stats", loginResp.Token, nil)))

	assert.Equal(t, http.StatusOK, s.status(s.doRequest(ctx, "POST", "/api/auth/logout", loginResp.Token, nil)))
	assert.Equal(t, http.StatusUnauthorized, s.status(s.doRequest(ctx, "GET", "/api/auth/me", loginResp.Token, nil)))
}

func (s *IntegrationTestSuite) TestAuth_adminFromAllowList() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	var me users.PublicUser
	s.decode(s.doRequest(ctx, "GET", "/api/auth/me", s.adminToken, nil), http.StatusOK, &me)
	assert.Equal(t, testAdminEmail, me.Email)
	assert.Equal(t, users.RoleAdmin, me.Role)

	assert.Equal(t, http.StatusOK, s.status(s.doRequest(ctx, "GET", "/api/admin/stats", s.adminToken, nil)))

	// allow-listed emails cannot be taken through the public register
	registerResp := s.doRequest(ctx, "POST", "/api/auth/register", "", map[string]string{
		"name":     "Someone",
		"email":    "ADMIN@example.com",
		"password": "any-password",
	})
	assert.Equal(t, http.StatusForbidden, s.status(registerResp))
}
