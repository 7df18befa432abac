package test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/portfolio/internal/blog"
)

func (s *IntegrationTestSuite) TestBlog() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.T().Run("try add post without auth token", func(t *testing.T) {
		resp := s.doRequest(ctx, "POST", "/api/admin/posts", "", map[string]any{
			"title":   "test post",
			"content": "test content",
		})
		assert.Equal(t, http.StatusUnauthorized, s.status(resp))
	})

	s.T().Run("draft, publish, view and like", func(t *testing.T) {
		var draft blog.Post
		s.decode(s.doRequest(ctx, "POST", "/api/admin/posts", s.adminToken, map[string]any{
			"title":   "Hello Integration World",
			"content": "# Hi\n\nSome **content** here.",
			"tags":    []string{"Go", "testing"},
		}), http.StatusCreated, &draft)
		require.NotEmpty(t, draft.ID)
		assert.Equal(t, "hello-integration-world", draft.Slug)
		assert.Equal(t, blog.StatusDraft, draft.Status)
		assert.Nil(t, draft.PublishedAt)

		// drafts are not public
		assert.Equal(t, http.StatusNotFound, s.status(s.doRequest(ctx, "GET", "/api/posts/"+draft.Slug, "", nil)))

		// likes are counted for drafts too
		var like blog.LikeResponse
		s.decode(s.doRequest(ctx, "POST", "/api/posts/"+draft.Slug+"/like", "", nil), http.StatusOK, &like)
		assert.Equal(t, int64(1), like.Likes)

		var published blog.Post
		s.decode(s.doRequest(ctx, "PUT", "/api/admin/posts/"+draft.ID, s.adminToken, map[string]any{
			"title":   draft.Title,
			"content": draft.Content,
			"tags":    draft.Tags,
			"status":  blog.StatusPublished,
		}), http.StatusOK, &published)
		assert.Equal(t, blog.StatusPublished, published.Status)
		require.NotNil(t, published.PublishedAt)

		var viewed blog.Post
		s.decode(s.doRequest(ctx, "GET", "/api/posts/"+draft.Slug, "", nil), http.StatusOK, &viewed)
		assert.Equal(t, int64(1), viewed.Views)
		assert.Contains(t, viewed.ContentHTML, "<strong>content</strong>")

		s.decode(s.doRequest(ctx, "GET", "/api/posts/"+draft.Slug, "", nil), http.StatusOK, &viewed)
		assert.Equal(t, int64(2), viewed.Views)
		assert.Equal(t, int64(1), viewed.Likes)

		var postsResp blog.PostsResponse
		s.decode(s.doRequest(ctx, "GET", "/api/posts?tag=go", "", nil), http.StatusOK, &postsResp)
		require.NotEmpty(t, postsResp.Posts)
		assert.Equal(t, draft.ID, postsResp.Posts[0].ID)

		// same title, new slug
		var second blog.Post
		s.decode(s.doRequest(ctx, "POST", "/api/admin/posts", s.adminToken, map[string]any{
			"title":   "Hello Integration World",
			"content": "again",
		}), http.StatusCreated, &second)
		assert.Equal(t, "hello-integration-world-2", second.Slug)

		for _, id := range []string{draft.ID, second.ID} {
			assert.Equal(t, http.StatusOK, s.status(s.doRequest(ctx, "DELETE", "/api/admin/posts/"+id, s.adminToken, nil)))
		}
		assert.Equal(t, http.StatusNotFound, s.status(s.doRequest(ctx, "GET", "/api/posts/"+draft.Slug, "", nil)))
	})
}
