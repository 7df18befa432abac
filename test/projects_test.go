package test

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/portfolio/internal/projects"
)

func (s *IntegrationTestSuite) TestProjects() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	var listed []projects.Project
	s.decode(s.doRequest(ctx, "GET", "/api/projects?category=tools", "", nil), http.StatusOK, &listed)
	assert.Empty(t, listed)

	var created projects.Project
	s.decode(s.doRequest(ctx, "POST", "/api/admin/projects", s.adminToken, map[string]any{
		"title":        "Portfolio Backend",
		"description":  "The API behind this site",
		"technologies": []string{"Go", "go", "Postgres"},
		"links":        map[string]string{"github": "https://github.com/example/portfolio"},
		"category":     "Tools",
		"featured":     true,
		"status":       projects.StatusPublished,
	}), http.StatusCreated, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"Go", "Postgres"}, created.Technologies)
	assert.Equal(t, "tools", created.Category)

	// the create clears the cached (empty) list
	s.decode(s.doRequest(ctx, "GET", "/api/projects?category=tools", "", nil), http.StatusOK, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	var fetched projects.Project
	s.decode(s.doRequest(ctx, "GET", "/api/projects/"+created.ID, "", nil), http.StatusOK, &fetched)
	assert.Equal(t, "Portfolio Backend", fetched.Title)

	invalid := s.doRequest(ctx, "POST", "/api/admin/projects", s.adminToken, map[string]any{
		"title":       "Broken",
		"description": "bad link",
		"links":       map[string]string{"live": "not a url"},
	})
	assert.Equal(t, http.StatusBadRequest, s.status(invalid))

	assert.Equal(t, http.StatusOK, s.status(s.doRequest(ctx, "DELETE", "/api/admin/projects/"+created.ID, s.adminToken, nil)))
	assert.Equal(t, http.StatusNotFound, s.status(s.doRequest(ctx, "GET", "/api/projects/"+created.ID, "", nil)))
}
