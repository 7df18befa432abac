package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/portfolio/internal/cache"
	"github.com/2beens/portfolio/internal/odm"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=projects_test

type projectsRepo interface {
	Save(ctx context.Context, project *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	GetPublished(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context, params ListParams) ([]Project, error)
	Delete(ctx context.Context, id string) error
}

type projectRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	LongDescription string   `json:"long_description"`
	Technologies    []string `json:"technologies"`
	Links           Links    `json:"links"`
	Image           string   `json:"image"`
	Featured        bool     `json:"featured"`
	Category        string   `json:"category"`
	Order           int      `json:"order"`
	Status          string   `json:"status"`
}

func (req *projectRequest) applyTo(p *Project) {
	p.Title = req.Title
	p.Description = req.Description
	p.LongDescription = req.LongDescription
	p.Technologies = req.Technologies
	p.Links = req.Links
	p.Image = req.Image
	p.Featured = req.Featured
	p.Category = req.Category
	p.Order = req.Order
	if req.Status != "" {
		p.Status = req.Status
	}
}

type Handler struct {
	repo     projectsRepo
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewProjectsHandler(
	repo projectsRepo,
	responseCache cache.Cache,
	cacheTTL time.Duration,
) *Handler {
	return &Handler{
		repo:     repo,
		cache:    responseCache,
		cacheTTL: cacheTTL,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/projects", handler.handleList).Methods("GET").Name("list-projects")
	router.HandleFunc("/api/projects/{id}", handler.handleGet).Methods("GET").Name("get-project")

	router.HandleFunc("/api/admin/projects", handler.handleAdminList).Methods("GET", "OPTIONS").Name("admin-list-projects")
	router.HandleFunc("/api/admin/projects", handler.handleCreate).Methods("POST", "OPTIONS").Name("admin-new-project")
	router.HandleFunc("/api/admin/projects/{id}", handler.handleAdminGet).Methods("GET", "OPTIONS").Name("admin-get-project")
	router.HandleFunc("/api/admin/projects/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("admin-update-project")
	router.HandleFunc("/api/admin/projects/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("admin-delete-project")
}

func listParams(r *http.Request) (ListParams, error) {
	params := ListParams{
		// categories are stored lowercased
		Category: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category"))),
	}
	if v := r.URL.Query().Get("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			return params, errors.New("invalid featured param (has to be true or false)")
		}
		params.Featured = &featured
	}
	return params, nil
}

func cacheKey(params ListParams) string {
	featured := "any"
	if params.Featured != nil {
		featured = strconv.FormatBool(*params.Featured)
	}
	return fmt.Sprintf("projects|%s|%s", params.Category, featured)
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectsHandler.list")
	defer span.End()

	params, err := listParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	params.Status = StatusPublished

	key := cacheKey(params)
	if cached, found := handler.cache.Get(key); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, cached, http.StatusOK)
		return
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	projects, err := handler.repo.List(ctx, params)
	if err != nil {
		log.Errorf("list projects: %s", err)
		http.Error(w, "failed to get projects", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(projects)
	if err != nil {
		log.Errorf("marshal projects: %s", err)
		http.Error(w, "failed to get projects", http.StatusInternalServerError)
		return
	}
	if err := handler.cache.Set(key, respBytes, handler.cacheTTL); err != nil {
		if errors.Is(err, cache.ErrValueTooLarge) {
			log.Debugf("projects list not cached: %s", err)
		} else {
			log.Errorf("cache projects: %s", err)
		}
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusOK)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	project, err := handler.repo.GetPublished(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeRepoError(w, err, "get project")
		return
	}
	pkg.WriteJSON(w, project, http.StatusOK)
}

func (handler *Handler) handleAdminList(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	params.Status = r.URL.Query().Get("status")
	if params.Status != "" && params.Status != StatusDraft && params.Status != StatusPublished {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	projects, err := handler.repo.List(r.Context(), params)
	if err != nil {
		log.Errorf("list projects: %s", err)
		http.Error(w, "failed to get projects", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, projects, http.StatusOK)
}

func (handler *Handler) handleAdminGet(w http.ResponseWriter, r *http.Request) {
	project, err := handler.repo.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeRepoError(w, err, "get project")
		return
	}
	pkg.WriteJSON(w, project, http.StatusOK)
}

func readProjectRequest(r *http.Request) (*projectRequest, error) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	if req.Title == "" {
		return nil, errors.New("error, title empty")
	}
	if req.Description == "" {
		return nil, errors.New("error, description empty")
	}
	return &req, nil
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectsHandler.create")
	defer span.End()

	req, err := readProjectRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	project := &Project{}
	req.applyTo(project)
	if err := handler.repo.Save(ctx, project); err != nil {
		writeRepoError(w, err, "add new project")
		return
	}
	handler.cache.Clear()

	log.Tracef("new project %s: [%s] added", project.ID, project.Title)
	pkg.WriteJSON(w, project, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectsHandler.update")
	defer span.End()

	req, err := readProjectRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	project, err := handler.repo.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeRepoError(w, err, "update project")
		return
	}

	req.applyTo(project)
	if err := handler.repo.Save(ctx, project); err != nil {
		writeRepoError(w, err, "update project")
		return
	}
	handler.cache.Clear()

	pkg.WriteJSON(w, project, http.StatusOK)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := handler.repo.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "delete project")
		return
	}
	handler.cache.Clear()
	pkg.WriteTextResponseOK(w, "deleted:"+id)
}

func writeRepoError(w http.ResponseWriter, err error, action string) {
	var ve *odm.ValidationError
	switch {
	case errors.As(err, &ve):
		http.Error(w, ve.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrProjectNotFound):
		http.Error(w, "project not found", http.StatusNotFound)
	default:
		log.Errorf("%s: %s", action, err)
		http.Error(w, action+" failed", http.StatusInternalServerError)
	}
}
