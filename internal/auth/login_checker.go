package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// LoginChecker verifies token signatures and checks the session is still
// recorded in redis.
type LoginChecker struct {
	ttl         time.Duration
	codec       tokenCodec
	redisClient *redis.Client
}

func NewLoginChecker(secret string, ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		codec:       tokenCodec{secret: []byte(secret)},
		redisClient: redisClient,
	}
}

func (c *LoginChecker) Verify(ctx context.Context, token string) (*Session, error) {
	session, err := c.codec.parse(token)
	if err != nil {
		return nil, err
	}

	cmd := c.redisClient.Get(ctx, sessionKeyPrefix+session.TokenID)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionRevoked
		}
		return nil, err
	}

	createdAtUnix, err := strconv.ParseInt(cmd.Val(), 10, 64)
	if err != nil {
		return nil, err
	}
	if createdAtUnix <= 0 {
		return nil, ErrSessionRevoked
	}

	if time.Since(time.Unix(createdAtUnix, 0)) > c.ttl {
		return nil, ErrSessionExpired
	}

	return session, nil
}
