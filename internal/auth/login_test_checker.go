package auth

import "context"

// LoginTestChecker resolves tokens from an in-memory map, for tests and local dev.
type LoginTestChecker struct {
	Sessions map[string]*Session
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		Sessions: map[string]*Session{},
	}
}

func (c *LoginTestChecker) Verify(_ context.Context, token string) (*Session, error) {
	s, ok := c.Sessions[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	return s, nil
}
