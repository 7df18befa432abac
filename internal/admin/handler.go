package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/2beens/portfolio/internal/auth"
	"github.com/2beens/portfolio/internal/blog"
	"github.com/2beens/portfolio/internal/contact"
	"github.com/2beens/portfolio/internal/projects"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/internal/users"
	"github.com/2beens/portfolio/pkg"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=admin_test

type postsStats interface {
	Count(ctx context.Context, status string) (int64, error)
	Totals(ctx context.Context) (blog.Totals, error)
}

type statusCounter interface {
	Count(ctx context.Context, status string) (int64, error)
}

type uploadsCounter interface {
	Count(ctx context.Context) (int64, error)
}

type usersRepo interface {
	List(ctx context.Context, page, size int) ([]users.User, int64, error)
	Get(ctx context.Context, id string) (*users.User, error)
	Save(ctx context.Context, user *users.User) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, role string) (int64, error)
}

type Stats struct {
	Posts    PostsStats    `json:"posts"`
	Projects ProjectsStats `json:"projects"`
	Messages MessagesStats `json:"messages"`
	Users    UsersStats    `json:"users"`
	Uploads  int64         `json:"uploads"`
}

type PostsStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Drafts    int64 `json:"drafts"`
	Views     int64 `json:"views"`
	Likes     int64 `json:"likes"`
}

type ProjectsStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
}

type MessagesStats struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
}

type UsersStats struct {
	Total  int64 `json:"total"`
	Admins int64 `json:"admins"`
}

type UsersResponse struct {
	Users []users.PublicUser `json:"users"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Size  int                `json:"size"`
}

type Handler struct {
	posts    postsStats
	projects statusCounter
	messages statusCounter
	uploads  uploadsCounter
	users    usersRepo
}

type NewHandlerParams struct {
	Posts    postsStats
	Projects statusCounter
	Messages statusCounter
	Uploads  uploadsCounter
	Users    usersRepo
}

func NewAdminHandler(params NewHandlerParams) *Handler {
	return &Handler{
		posts:    params.Posts,
		projects: params.Projects,
		messages: params.Messages,
		uploads:  params.Uploads,
		users:    params.Users,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/admin/stats", handler.handleStats).Methods("GET", "OPTIONS").Name("admin-stats")
	router.HandleFunc("/api/admin/users", handler.handleListUsers).Methods("GET", "OPTIONS").Name("admin-list-users")
	router.HandleFunc("/api/admin/users/{id}/role", handler.handleSetRole).Methods("PUT", "OPTIONS").Name("admin-set-role")
	router.HandleFunc("/api/admin/users/{id}", handler.handleDeleteUser).Methods("DELETE", "OPTIONS").Name("admin-delete-user")
}

// collectStats runs the counters concurrently.
func (handler *Handler) collectStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int64, f func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := f(ctx)
			*dst = n
			return err
		})
	}
	byStatus := func(counter statusCounter, status string) func(context.Context) (int64, error) {
		return func(ctx context.Context) (int64, error) {
			return counter.Count(ctx, status)
		}
	}

	count(&stats.Posts.Total, byStatus(handler.posts, ""))
	count(&stats.Posts.Published, byStatus(handler.posts, blog.StatusPublished))
	count(&stats.Posts.Drafts, byStatus(handler.posts, blog.StatusDraft))
	g.Go(func() error {
		totals, err := handler.posts.Totals(ctx)
		stats.Posts.Views, stats.Posts.Likes = totals.Views, totals.Likes
		return err
	})
	count(&stats.Projects.Total, byStatus(handler.projects, ""))
	count(&stats.Projects.Published, byStatus(handler.projects, projects.StatusPublished))
	count(&stats.Messages.Total, byStatus(handler.messages, ""))
	count(&stats.Messages.Unread, byStatus(handler.messages, contact.StatusNew))
	count(&stats.Users.Total, byStatus(handler.users, ""))
	count(&stats.Users.Admins, byStatus(handler.users, users.RoleAdmin))
	count(&stats.Uploads, handler.uploads.Count)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (handler *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "adminHandler.stats")
	defer span.End()

	stats, err := handler.collectStats(ctx)
	if err != nil {
		log.Errorf("collect admin stats: %s", err)
		http.Error(w, "failed to get stats", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, stats, http.StatusOK)
}

func (handler *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page, size := 1, defaultPageSize
	if v := r.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			http.Error(w, "invalid page (has to be a positive number)", http.StatusBadRequest)
			return
		}
		page = p
	}
	if v := r.URL.Query().Get("size"); v != "" {
		s, err := strconv.Atoi(v)
		if err != nil || s < 1 {
			http.Error(w, "invalid size (has to be a positive number)", http.StatusBadRequest)
			return
		}
		size = min(s, maxPageSize)
	}

	list, total, err := handler.users.List(r.Context(), page, size)
	if err != nil {
		log.Errorf("list users: %s", err)
		http.Error(w, "failed to get users", http.StatusInternalServerError)
		return
	}

	resp := UsersResponse{
		Users: make([]users.PublicUser, 0, len(list)),
		Total: total,
		Page:  page,
		Size:  size,
	}
	for i := range list {
		resp.Users = append(resp.Users, list[i].Public())
	}
	pkg.WriteJSON(w, resp, http.StatusOK)
}

func isSelf(r *http.Request, id string) bool {
	session, ok := auth.SessionFromContext(r.Context())
	return ok && session.UserID == id
}

func (handler *Handler) handleSetRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "adminHandler.setRole")
	defer span.End()

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		(req.Role != users.RoleUser && req.Role != users.RoleAdmin) {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	if isSelf(r, id) && req.Role != users.RoleAdmin {
		http.Error(w, "cannot demote yourself", http.StatusBadRequest)
		return
	}

	user, err := handler.users.Get(ctx, id)
	if err != nil {
		writeUserError(w, err, "get user")
		return
	}

	user.Role = req.Role
	// allow-listed emails stay admin, the save hook decides the final role
	if err := handler.users.Save(ctx, user); err != nil {
		writeUserError(w, err, "save user role")
		return
	}

	log.Debugf("user %s role set to %s", user.ID, user.Role)
	pkg.WriteJSON(w, user.Public(), http.StatusOK)
}

func (handler *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if isSelf(r, id) {
		http.Error(w, "cannot delete yourself", http.StatusBadRequest)
		return
	}

	if err := handler.users.Delete(r.Context(), id); err != nil {
		writeUserError(w, err, "delete user")
		return
	}
	pkg.WriteTextResponseOK(w, "deleted:"+id)
}

func writeUserError(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, users.ErrUserNotFound) {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	log.Errorf("%s: %s", action, err)
	http.Error(w, action+" failed", http.StatusInternalServerError)
}
