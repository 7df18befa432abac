package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/portfolio/internal/auth"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/internal/users"
)

const adminPathPrefix = "/api/admin/"

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

// userLookup is used to re-check the stored role on admin routes, so a
// demoted admin loses access before the token expires.
type userLookup interface {
	Get(ctx context.Context, id string) (*users.User, error)
}

type AuthMiddlewareHandler struct {
	loginChecker auth.Checker
	users        userLookup
	sessionPaths map[string]bool
}

func NewAuthMiddlewareHandler(
	loginChecker auth.Checker,
	users userLookup,
) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		loginChecker: loginChecker,
		users:        users,
		// paths that need any logged-in user
		sessionPaths: map[string]bool{
			"/api/auth/me":     true,
			"/api/auth/logout": true,
		},
	}
}

func isAdminPath(path string) bool {
	return path == strings.TrimSuffix(adminPathPrefix, "/") || strings.HasPrefix(path, adminPathPrefix)
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			adminPath := isAdminPath(r.URL.Path)
			if !adminPath && !h.sessionPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "public")
				next.ServeHTTP(w, r)
				return
			}

			authToken := auth.TokenFromRequest(r)
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			session, err := h.loginChecker.Verify(ctx, authToken)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrSessionExpired) || errors.Is(err, auth.ErrSessionRevoked) {
					log.Tracef("[invalid session] [auth middleware] => %s: %s", r.URL.Path, err)
				} else {
					log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
				}
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "not-logged")
				span.RecordError(err)
				return
			}
			span.SetAttributes(attribute.String("user.id", session.UserID))

			if adminPath {
				if !h.isAdmin(ctx, session) {
					log.Warnf("[forbidden] user %s [%s] => %s", session.UserID, session.Role, r.URL.Path)
					http.Error(w, "forbidden", http.StatusForbidden)
					span.SetStatus(codes.Error, "forbidden")
					return
				}
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
		})
	}
}

func (h *AuthMiddlewareHandler) isAdmin(ctx context.Context, session *auth.Session) bool {
	if !session.IsAdmin() {
		return false
	}
	if h.users == nil {
		return true
	}

	user, err := h.users.Get(ctx, session.UserID)
	if err != nil {
		if !errors.Is(err, users.ErrUserNotFound) {
			log.Errorf("[auth middleware] get user %s: %s", session.UserID, err)
		}
		return false
	}
	// keep the session in sync with the stored role
	session.Role = user.Role
	return user.IsAdmin()
}
