package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "portfolio-session||"
	tokensSetKey     = "portfolio-sessions"
	issuer           = "portfolio-backend"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrSessionExpired = errors.New("session expired")
	ErrSessionRevoked = errors.New("session revoked")
)

// Session is the authenticated identity carried by a request.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == "admin"
}

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type sessionCtxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(*Session)
	return s, ok && s != nil
}

// tokenCodec signs and parses HS256 session tokens.
type tokenCodec struct {
	secret []byte
}

func (c tokenCodec) sign(s *Session, issuedAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: s.Email,
		Role:  s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.UserID,
			ID:        s.TokenID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (c tokenCodec) parse(tokenString string, opts ...jwt.ParserOption) (*Session, error) {
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)

	var cl claims
	_, err := jwt.ParseWithClaims(tokenString, &cl, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}
	if cl.ID == "" || cl.Subject == "" {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}

	s := &Session{
		UserID:  cl.Subject,
		Email:   cl.Email,
		Role:    cl.Role,
		TokenID: cl.ID,
	}
	if cl.ExpiresAt != nil {
		s.ExpiresAt = cl.ExpiresAt.Time
	}
	return s, nil
}
