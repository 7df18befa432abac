package contact

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/portfolio/internal/odm"
	"github.com/2beens/portfolio/internal/telemetry/metrics"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxBodyBytes    = 64 * 1024
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=contact_test

type messagesRepo interface {
	Save(ctx context.Context, msg *Message) error
	List(ctx context.Context, status string, page, size int) ([]Message, int64, error)
	SetStatus(ctx context.Context, id, status string) (*Message, error)
	Delete(ctx context.Context, id string) error
}

type geoLocator interface {
	Country(ctx context.Context, ip string) (string, error)
}

type notifier interface {
	Notify(ctx context.Context, msg *Message) error
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	// honeypot, left empty by humans
	Website string `json:"website"`
}

type MessagesResponse struct {
	Messages []Message `json:"messages"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Size     int       `json:"size"`
}

type Handler struct {
	repo           messagesRepo
	geo            geoLocator
	notifier       notifier
	metricsManager *metrics.Manager
}

func NewContactHandler(
	repo messagesRepo,
	geo geoLocator,
	notifier notifier,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		geo:            geo,
		notifier:       notifier,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, limiter mux.MiddlewareFunc) {
	var submit http.Handler = http.HandlerFunc(handler.handleSubmit)
	if limiter != nil {
		submit = limiter(submit)
	}
	router.Handle("/api/contact", submit).Methods("POST", "OPTIONS").Name("contact")

	router.HandleFunc("/api/admin/messages", handler.handleList).Methods("GET", "OPTIONS").Name("admin-list-messages")
	router.HandleFunc("/api/admin/messages/{id}", handler.handleSetStatus).Methods("PATCH", "OPTIONS").Name("admin-update-message")
	router.HandleFunc("/api/admin/messages/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("admin-delete-message")
}

func readContactRequest(r *http.Request) (*contactRequest, error) {
	var req contactRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, errors.New("invalid json body")
		}
		return &req, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, errors.New("invalid form body")
	}
	req.Name = r.Form.Get("name")
	req.Email = r.Form.Get("email")
	req.Subject = r.Form.Get("subject")
	req.Message = r.Form.Get("message")
	req.Website = r.Form.Get("website")
	return &req, nil
}

func (handler *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "contactHandler.submit")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	req, err := readContactRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Website != "" {
		log.Debugf("contact honeypot filled, dropping message from %s", req.Email)
		w.WriteHeader(http.StatusCreated)
		return
	}

	msg := &Message{
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		UserAgent: r.UserAgent(),
	}

	if ip, err := pkg.ReadUserIP(r); err != nil {
		log.Debugf("contact: read user ip: %s", err)
	} else {
		msg.IP = ip
		if handler.geo != nil {
			if country, err := handler.geo.Country(ctx, ip); err != nil {
				log.Errorf("contact: geo lookup for %s: %s", ip, err)
			} else {
				msg.Country = country
			}
		}
	}

	if err := handler.repo.Save(ctx, msg); err != nil {
		var ve *odm.ValidationError
		if errors.As(err, &ve) {
			http.Error(w, ve.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("save contact message: %s", err)
		http.Error(w, "failed to send message", http.StatusInternalServerError)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterContactMessages.Inc()
	}

	if handler.notifier != nil {
		if err := handler.notifier.Notify(ctx, msg); err != nil {
			log.Errorf("notify contact message %s: %s", msg.ID, err)
		}
	}

	log.Tracef("new contact message %s from %s", msg.ID, msg.Email)
	pkg.WriteJSON(w, map[string]string{"id": msg.ID, "status": "sent"}, http.StatusCreated)
}

func pageParams(r *http.Request) (page, size int, err error) {
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
	status := r.URL.Query().Get("status")
	if status != "" && !IsValidStatus(status) {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	page, size, err := pageParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	msgs, total, err := handler.repo.List(r.Context(), status, page, size)
	if err != nil {
		log.Errorf("list contact messages: %s", err)
		http.Error(w, "failed to get messages", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, MessagesResponse{
		Messages: msgs,
		Total:    total,
		Page:     page,
		Size:     size,
	}, http.StatusOK)
}

func (handler *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !IsValidStatus(req.Status) {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	msg, err := handler.repo.SetStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			http.Error(w, "message not found", http.StatusNotFound)
			return
		}
		log.Errorf("set message status: %s", err)
		http.Error(w, "failed to update message", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, msg, http.StatusOK)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := handler.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			http.Error(w, "message not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete message %s: %s", id, err)
		http.Error(w, "failed to delete message", http.StatusInternalServerError)
		return
	}
	pkg.WriteTextResponseOK(w, "deleted:"+id)
}
