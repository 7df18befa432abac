package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/stretchr/testify/require"

	"github.com/2beens/portfolio/internal"
	"github.com/2beens/portfolio/internal/auth"
	"github.com/2beens/portfolio/internal/config"
	"github.com/2beens/portfolio/internal/users"
)

// doRequest sends a JSON request (body may be nil) and returns the response.
// The caller closes the body.
func (s *IntegrationTestSuite) doRequest(
	ctx context.Context,
	method, path, token string,
	body any,
) *http.Response {
	var reqBody io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reqBody = bytes.NewReader(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Origin", testOrigin)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	return resp
}

// decode reads the response into v, after checking the status code.
func (s *IntegrationTestSuite) decode(resp *http.Response, expectedStatus int, v any) {
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	require.Equal(s.T(), expectedStatus, resp.StatusCode, string(respBytes))
	if v != nil {
		require.NoError(s.T(), json.Unmarshal(respBytes, v))
	}
}

func (s *IntegrationTestSuite) status(resp *http.Response) int {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp.StatusCode
}

func (s *IntegrationTestSuite) doLogin(ctx context.Context, email, password string) auth.LoginResponse {
	resp := s.doRequest(ctx, "POST", "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	var loginResp auth.LoginResponse
	s.decode(resp, http.StatusOK, &loginResp)
	require.NotEmpty(s.T(), loginResp.Token)
	return loginResp
}

// createAdminAndLogin stores the admin directly, the way portfolioctl users create does,
// since allow-listed emails cannot register through the api.
func (s *IntegrationTestSuite) createAdminAndLogin(ctx context.Context, cfg *config.Config, name, email, password string) string {
	store, dbPool, err := internal.NewStore(ctx, cfg)
	require.NoError(s.T(), err)
	defer func() {
		_ = store.Close(ctx)
		if dbPool != nil {
			dbPool.Close()
		}
	}()

	usersRepo := users.NewRepo(store, cfg.AdminEmails)
	require.NoError(s.T(), usersRepo.Setup(ctx))

	admin := &users.User{Name: name, Email: email}
	admin.SetPassword(password)
	require.NoError(s.T(), usersRepo.Save(ctx, admin))
	require.Equal(s.T(), users.RoleAdmin, admin.Role)

	return s.doLogin(ctx, email, password).Token
}
