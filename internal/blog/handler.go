package blog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/portfolio/internal/auth"
	"github.com/2beens/portfolio/internal/odm"
	"github.com/2beens/portfolio/internal/telemetry/metrics"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=blog_test

type blogRepo interface {
	Save(ctx context.Context, post *Post) error
	Get(ctx context.Context, id string) (*Post, error)
	GetPublished(ctx context.Context, slug string) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, params ListParams) ([]Post, int64, error)
	Tags(ctx context.Context) ([]string, error)
	IncrementViews(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type PostsResponse struct {
	Posts []Post `json:"posts"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
}

type LikeResponse struct {
	ID    string `json:"id"`
	Likes int64  `json:"likes"`
}

type postRequest struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	CoverImage string   `json:"cover_image"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
}

type Handler struct {
	repo           blogRepo
	metricsManager *metrics.Manager
}

func NewBlogHandler(
	repo blogRepo,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/posts", handler.handleList).Methods("GET").Name("list-posts")
	router.HandleFunc("/api/posts/tags", handler.handleTags).Methods("GET").Name("posts-tags")
	router.HandleFunc("/api/posts/{slug}", handler.handleGetBySlug).Methods("GET").Name("get-post")
	router.HandleFunc("/api/posts/{slug}/like", handler.handleLike).Methods("POST", "OPTIONS").Name("like-post")

	router.HandleFunc("/api/admin/posts", handler.handleAdminList).Methods("GET", "OPTIONS").Name("admin-list-posts")
	router.HandleFunc("/api/admin/posts", handler.handleCreate).Methods("POST", "OPTIONS").Name("admin-new-post")
	router.HandleFunc("/api/admin/posts/{id}", handler.handleAdminGet).Methods("GET", "OPTIONS").Name("admin-get-post")
	router.HandleFunc("/api/admin/posts/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("admin-update-post")
	router.HandleFunc("/api/admin/posts/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("admin-delete-post")
}

// PageParams reads the page and size query params, with defaults.
func PageParams(r *http.Request) (page, size int, err error) {
	page, size = 1, defaultPageSize
	if v := r.URL.Query().Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil || page < 1 {
			return 0, 0, errors.New("invalid page (has to be a positive number)")
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		if size, err = strconv.Atoi(v); err != nil || size < 1 {
			return 0, 0, errors.New("invalid size (has to be a positive number)")
		}
	}
	return page, min(size, maxPageSize), nil
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.list")
	defer span.End()

	page, size, err := PageParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	handler.writePage(ctx, w, ListParams{
		Page:   page,
		Size:   size,
		Tag:    r.URL.Query().Get("tag"),
		Query:  r.URL.Query().Get("q"),
		Status: StatusPublished,
	})
}

func (handler *Handler) handleAdminList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.adminList")
	defer span.End()

	page, size, err := PageParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && status != StatusDraft && status != StatusPublished {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	handler.writePage(ctx, w, ListParams{
		Page:   page,
		Size:   size,
		Tag:    r.URL.Query().Get("tag"),
		Query:  r.URL.Query().Get("q"),
		Status: status,
	})
}

func (handler *Handler) writePage(ctx context.Context, w http.ResponseWriter, params ListParams) {
	posts, total, err := handler.repo.List(ctx, params)
	if err != nil {
		log.Errorf("get blog posts page: %s", err)
		http.Error(w, "failed to get blog posts", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, PostsResponse{
		Posts: posts,
		Total: total,
		Page:  params.Page,
		Size:  params.Size,
	}, http.StatusOK)
}

func (handler *Handler) handleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := handler.repo.Tags(r.Context())
	if err != nil {
		log.Errorf("get blog tags: %s", err)
		http.Error(w, "failed to get tags", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, tags, http.StatusOK)
}

func (handler *Handler) handleGetBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.getBySlug")
	defer span.End()

	slug := mux.Vars(r)["slug"]
	span.SetAttributes(attribute.String("post.slug", slug))
	if !pkg.IsValidSlug(slug) {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}

	post, err := handler.repo.GetPublished(ctx, slug)
	if err != nil {
		writeRepoError(w, err, "get post")
		return
	}

	if err := handler.repo.IncrementViews(ctx, post.ID); err != nil {
		log.Errorf("increment views of post %s: %s", post.ID, err)
	} else {
		post.Views++
		if handler.metricsManager != nil {
			handler.metricsManager.CounterPostViews.Inc()
		}
	}

	pkg.WriteJSON(w, post, http.StatusOK)
}

func (handler *Handler) handleLike(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.like")
	defer span.End()

	slug := mux.Vars(r)["slug"]
	if !pkg.IsValidSlug(slug) {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	post, err := handler.repo.GetBySlug(ctx, slug)
	if err != nil {
		writeRepoError(w, err, "like post")
		return
	}

	if err := handler.repo.IncrementLikes(ctx, post.ID); err != nil {
		writeRepoError(w, err, "like post")
		return
	}
	if handler.metricsManager != nil {
		handler.metricsManager.CounterPostLikes.Inc()
	}

	pkg.WriteJSON(w, LikeResponse{ID: post.ID, Likes: post.Likes + 1}, http.StatusOK)
}

func (handler *Handler) handleAdminGet(w http.ResponseWriter, r *http.Request) {
	post, err := handler.repo.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeRepoError(w, err, "get post")
		return
	}
	pkg.WriteJSON(w, post, http.StatusOK)
}

func readPostRequest(r *http.Request) (*postRequest, error) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	if req.Title == "" {
		return nil, errors.New("error, title empty")
	}
	if req.Content == "" {
		return nil, errors.New("error, content empty")
	}
	return &req, nil
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.create")
	defer span.End()

	req, err := readPostRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post := &Post{
		Title:      req.Title,
		Slug:       req.Slug,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
		Status:     req.Status,
	}
	if session, ok := auth.SessionFromContext(ctx); ok {
		post.AuthorID = session.UserID
	}

	if err := handler.repo.Save(ctx, post); err != nil {
		writeRepoError(w, err, "add new post")
		return
	}

	log.Tracef("new blog post %s: [%s] added", post.ID, post.Slug)
	pkg.WriteJSON(w, post, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.update")
	defer span.End()

	req, err := readPostRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := handler.repo.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeRepoError(w, err, "update post")
		return
	}

	switch {
	case req.Slug != "":
		post.Slug = req.Slug
	case req.Title != post.Title:
		// regenerate from the new title
		post.Slug = ""
	}
	post.Title = req.Title
	post.Excerpt = req.Excerpt
	post.Content = req.Content
	post.CoverImage = req.CoverImage
	post.Tags = req.Tags
	if req.Status != "" {
		post.Status = req.Status
	}

	if err := handler.repo.Save(ctx, post); err != nil {
		writeRepoError(w, err, "update post")
		return
	}

	pkg.WriteJSON(w, post, http.StatusOK)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := handler.repo.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "delete post")
		return
	}
	pkg.WriteTextResponseOK(w, "deleted:"+id)
}

func writeRepoError(w http.ResponseWriter, err error, action string) {
	var ve *odm.ValidationError
	switch {
	case errors.As(err, &ve):
		http.Error(w, ve.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrPostNotFound):
		http.Error(w, "post not found", http.StatusNotFound)
	case errors.Is(err, ErrSlugTaken):
		http.Error(w, "slug already taken", http.StatusConflict)
	default:
		log.Errorf("%s: %s", action, err)
		http.Error(w, action+" failed", http.StatusInternalServerError)
	}
}
