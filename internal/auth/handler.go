package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/portfolio/internal/odm"
	"github.com/2beens/portfolio/internal/telemetry/metrics"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/internal/users"
	"github.com/2beens/portfolio/pkg"
)

const TokenHeader = "X-PORTFOLIO-TOKEN"

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

type usersRepo interface {
	Save(ctx context.Context, user *users.User) error
	Get(ctx context.Context, id string) (*users.User, error)
	GetByEmail(ctx context.Context, email string) (*users.User, error)
	IsAdminEmail(email string) bool
}

type sessionService interface {
	Login(ctx context.Context, user *users.User, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
}

type Handler struct {
	usersRepo      usersRepo
	sessions       sessionService
	metricsManager *metrics.Manager
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string           `json:"token"`
	User  users.PublicUser `json:"user"`
}

func NewHandler(
	usersRepo usersRepo,
	sessions sessionService,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		usersRepo:      usersRepo,
		sessions:       sessions,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the auth routes on the given subrouter. Login and
// register are wrapped with the limiter middleware, if given.
func (handler *Handler) SetupRoutes(router *mux.Router, limiter mux.MiddlewareFunc) {
	limited := func(h http.HandlerFunc) http.Handler {
		if limiter == nil {
			return h
		}
		return limiter(h)
	}
	router.Handle("/api/auth/register", limited(handler.handleRegister)).Methods("POST", "OPTIONS").Name("register")
	router.Handle("/api/auth/login", limited(handler.handleLogin)).Methods("POST", "OPTIONS").Name("login")
	router.HandleFunc("/api/auth/logout", handler.handleLogout).Methods("POST", "OPTIONS").Name("logout")
	router.HandleFunc("/api/auth/me", handler.handleMe).Methods("GET", "OPTIONS").Name("me")
}

// TokenFromRequest reads the session token from the Authorization bearer
// header, or from the custom token header.
func TokenFromRequest(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); authz != "" {
		if token, ok := strings.CutPrefix(authz, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.Header.Get(TokenHeader)
}

func readCredentials(r *http.Request) (credentialsRequest, error) {
	var req credentialsRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, err
		}
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	return credentialsRequest{
		Name:     r.Form.Get("name"),
		Email:    r.Form.Get("email"),
		Password: r.Form.Get("password"),
	}, nil
}

func (handler *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.register")
	defer span.End()

	req, err := readCredentials(r)
	if err != nil {
		log.Errorf("register, read params: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "error, name, email and password required", http.StatusBadRequest)
		return
	}
	// admin accounts are created with portfolioctl, the email is never verified here
	if handler.usersRepo.IsAdminEmail(req.Email) {
		log.Warnf("register refused for admin email: %s", req.Email)
		http.Error(w, "registration not allowed for this email", http.StatusForbidden)
		return
	}

	user := &users.User{
		Name:  req.Name,
		Email: req.Email,
	}
	user.SetPassword(req.Password)

	if err := handler.usersRepo.Save(ctx, user); err != nil {
		tracing.EndSpanWithErrCheck(span, err)
		var ve *odm.ValidationError
		switch {
		case errors.As(err, &ve):
			http.Error(w, ve.Error(), http.StatusBadRequest)
		case errors.Is(err, users.ErrEmailTaken):
			http.Error(w, "email already registered", http.StatusConflict)
		default:
			log.Errorf("register user: %s", err)
			http.Error(w, "register failed", http.StatusInternalServerError)
		}
		return
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	log.Debugf("new user registered: %s [%s]", user.ID, user.Role)

	pkg.WriteJSON(w, user.Public(), http.StatusCreated)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	req, err := readCredentials(r)
	if err != nil {
		log.Errorf("login, read params: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		http.Error(w, "error, email empty", http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	user, err := handler.usersRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, users.ErrUserNotFound) {
		log.Errorf("login, get user: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}
	if user == nil || !user.CheckPassword(req.Password) {
		log.Tracef("failed login attempt for: %s", req.Email)
		handler.countLogin("failed")
		http.Error(w, "error, wrong credentials", http.StatusUnauthorized)
		return
	}

	token, err := handler.sessions.Login(ctx, user, time.Now())
	if err != nil {
		log.Errorf("login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	handler.countLogin("ok")
	log.Tracef("login success: %s", user.ID)

	pkg.WriteJSON(w, LoginResponse{Token: token, User: user.Public()}, http.StatusOK)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	token := TokenFromRequest(r)
	if token == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.sessions.Logout(ctx, token)
	if err != nil {
		log.Tracef("[failed logout] => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.me")
	defer span.End()

	session, ok := SessionFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	user, err := handler.usersRepo.Get(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			http.Error(w, "no can do", http.StatusUnauthorized)
			return
		}
		log.Errorf("me, get user %s: %s", session.UserID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, user.Public(), http.StatusOK)
}

func (handler *Handler) countLogin(result string) {
	if handler.metricsManager != nil {
		handler.metricsManager.CounterLogins.WithLabelValues(result).Inc()
	}
}
