package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/portfolio/internal/auth"
	"github.com/2beens/portfolio/internal/telemetry/metrics"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// multipart overhead on top of the file itself
	formOverheadBytes = 1024 * 1024
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=uploads_test

type uploadsRepo interface {
	Save(ctx context.Context, upload *Upload) error
	Get(ctx context.Context, id string) (*Upload, error)
	List(ctx context.Context, page, size int) ([]Upload, int64, error)
	Delete(ctx context.Context, id string) error
}

type fileStorage interface {
	Path(name string) (string, error)
	Save(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
}

type UploadsResponse struct {
	Uploads []Upload `json:"uploads"`
	Total   int64    `json:"total"`
	Page    int      `json:"page"`
	Size    int      `json:"size"`
}

type Handler struct {
	repo           uploadsRepo
	storage        fileStorage
	processor      *Processor
	baseURL        string
	maxSizeBytes   int64
	metricsManager *metrics.Manager
}

type NewHandlerParams struct {
	Repo           uploadsRepo
	Storage        fileStorage
	Processor      *Processor
	BaseURL        string
	MaxSizeBytes   int64
	MetricsManager *metrics.Manager
}

func NewUploadsHandler(params NewHandlerParams) *Handler {
	return &Handler{
		repo:           params.Repo,
		storage:        params.Storage,
		processor:      params.Processor,
		baseURL:        strings.TrimSuffix(params.BaseURL, "/"),
		maxSizeBytes:   params.MaxSizeBytes,
		metricsManager: params.MetricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/uploads/{file}", handler.handleServe).Methods("GET", "HEAD").Name("serve-upload")

	router.HandleFunc("/api/admin/uploads", handler.handleList).Methods("GET", "OPTIONS").Name("admin-list-uploads")
	router.HandleFunc("/api/admin/uploads", handler.handleUpload).Methods("POST", "OPTIONS").Name("admin-upload")
	router.HandleFunc("/api/admin/uploads/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("admin-delete-upload")
}

func (handler *Handler) countUpload(status string) {
	if handler.metricsManager != nil {
		handler.metricsManager.CounterUploads.WithLabelValues(status).Inc()
	}
}

func (handler *Handler) handleServe(w http.ResponseWriter, r *http.Request) {
	path, err := handler.storage.Path(mux.Vars(r)["file"])
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeFile(w, r, path)
}

func (handler *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "uploadsHandler.upload")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, handler.maxSizeBytes+formOverheadBytes)
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			handler.countUpload("too_large")
			http.Error(w, "file too big", http.StatusRequestEntityTooLarge)
			return
		}
		handler.countUpload("bad_request")
		http.Error(w, "error, file missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	span.SetAttributes(attribute.String("file.name", fileHeader.Filename))
	span.SetAttributes(attribute.Int64("file.size", fileHeader.Size))
	if fileHeader.Size > handler.maxSizeBytes {
		handler.countUpload("too_large")
		http.Error(w, "file too big", http.StatusRequestEntityTooLarge)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, handler.maxSizeBytes+1))
	if err != nil {
		log.Errorf("read uploaded file: %s", err)
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > handler.maxSizeBytes {
		handler.countUpload("too_large")
		http.Error(w, "file too big", http.StatusRequestEntityTooLarge)
		return
	}
	if handler.metricsManager != nil {
		handler.metricsManager.HistogramUploadSize.Observe(float64(len(data)))
	}

	processed, err := handler.processor.Process(data)
	if err != nil {
		handler.countUpload("invalid")
		log.Debugf("process uploaded image %s: %s", fileHeader.Filename, err)
		http.Error(w, "invalid image: "+err.Error(), http.StatusBadRequest)
		return
	}

	id := uuid.NewString()
	upload := &Upload{
		FileName:      id + processed.Ext,
		ThumbnailName: id + "_thumb" + processed.Ext,
		OriginalName:  fileHeader.Filename,
		MimeType:      processed.MimeType,
		Size:          int64(len(processed.Data)),
		Width:         processed.Width,
		Height:        processed.Height,
		TakenAt:       processed.TakenAt,
	}
	upload.URL = handler.baseURL + "/uploads/" + upload.FileName
	upload.ThumbnailURL = handler.baseURL + "/uploads/" + upload.ThumbnailName
	if session, ok := auth.SessionFromContext(ctx); ok {
		upload.UploaderID = session.UserID
	}

	if err := handler.store(ctx, upload, processed); err != nil {
		handler.countUpload("failed")
		log.Errorf("store upload %s: %s", upload.FileName, err)
		http.Error(w, "failed to store upload", http.StatusInternalServerError)
		return
	}

	handler.countUpload("ok")
	log.Tracef("new upload %s: [%s] stored", upload.ID, upload.FileName)
	pkg.WriteJSON(w, upload, http.StatusCreated)
}

// store writes the image files then the record, removing the files if the record fails.
func (handler *Handler) store(ctx context.Context, upload *Upload, processed *ProcessedImage) error {
	if err := handler.storage.Save(ctx, upload.FileName, processed.Data); err != nil {
		return err
	}
	if err := handler.storage.Save(ctx, upload.ThumbnailName, processed.Thumbnail); err != nil {
		handler.removeFiles(ctx, upload.FileName)
		return err
	}
	if err := handler.repo.Save(ctx, upload); err != nil {
		handler.removeFiles(ctx, upload.FileName, upload.ThumbnailName)
		return fmt.Errorf("save upload record: %w", err)
	}
	return nil
}

func (handler *Handler) removeFiles(ctx context.Context, names ...string) {
	for _, name := range names {
		if err := handler.storage.Delete(ctx, name); err != nil {
			log.Errorf("remove upload file %s: %s", name, err)
		}
	}
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
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

	uploads, total, err := handler.repo.List(r.Context(), page, size)
	if err != nil {
		log.Errorf("list uploads: %s", err)
		http.Error(w, "failed to get uploads", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, UploadsResponse{
		Uploads: uploads,
		Total:   total,
		Page:    page,
		Size:    size,
	}, http.StatusOK)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "uploadsHandler.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	upload, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUploadNotFound) {
			http.Error(w, "upload not found", http.StatusNotFound)
			return
		}
		log.Errorf("get upload %s: %s", id, err)
		http.Error(w, "failed to delete upload", http.StatusInternalServerError)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrUploadNotFound) {
			http.Error(w, "upload not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete upload %s: %s", id, err)
		http.Error(w, "failed to delete upload", http.StatusInternalServerError)
		return
	}
	handler.removeFiles(ctx, upload.FileName, upload.ThumbnailName)

	pkg.WriteTextResponseOK(w, "deleted:"+id)
}
