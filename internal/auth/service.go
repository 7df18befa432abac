package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/portfolio/internal/users"
	"github.com/2beens/portfolio/pkg"
)

// Service issues and revokes session tokens. Every issued token id is
// kept in redis, so the token can be revoked before it expires.
type Service struct {
	redisClient *redis.Client
	ttl         time.Duration
	codec       tokenCodec
	// ability to inject random string generator func for token ids (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewAuthService(
	secret string,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		ttl:            ttl,
		redisClient:    redisClient,
		codec:          tokenCodec{secret: []byte(secret)},
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (as *Service) TTL() time.Duration {
	return as.ttl
}

func (as *Service) Login(ctx context.Context, user *users.User, createdAt time.Time) (string, error) {
	tokenID, err := as.RandStringFunc(35)
	if err != nil {
		return "", err
	}

	token, err := as.codec.sign(&Session{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		TokenID:   tokenID,
		ExpiresAt: createdAt.Add(as.ttl),
	}, createdAt)
	if err != nil {
		return "", err
	}

	sessionKey := sessionKeyPrefix + tokenID
	cmdSet := as.redisClient.Set(ctx, sessionKey, createdAt.Unix(), 0)
	if err := cmdSet.Err(); err != nil {
		return "", err
	}

	// add token id to the set of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, tokenID)
	if err := cmdSAdd.Err(); err != nil {
		return "", err
	}

	return token, nil
}

// Logout revokes the session of the given token. An expired but otherwise
// valid token can still be logged out.
func (as *Service) Logout(ctx context.Context, token string) (bool, error) {
	session, err := as.codec.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return false, err
	}

	sessionKey := sessionKeyPrefix + session.TokenID
	cmd := as.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	createdAtUnix, err := strconv.ParseInt(cmd.Val(), 10, 64)
	if err != nil {
		return false, err
	}

	if err := as.redisClient.Del(ctx, sessionKey).Err(); err != nil {
		return false, err
	}

	// remove token id from the set of sessions
	if err := as.redisClient.SRem(ctx, tokensSetKey, session.TokenID).Err(); err != nil {
		return false, err
	}

	return createdAtUnix > 0, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old.
// Returns the number of removed sessions.
func (as *Service) ScanAndClean(ctx context.Context) int {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return 0
	}

	tokenIDs := cmd.Val()
	if len(tokenIDs) == 0 {
		log.Debugln("=> auth service, scan and clean abort, no sessions")
		return 0
	}

	log.Debugf("=> auth service, scan and clean [%d sessions] start ...", len(tokenIDs))
	var toRemove []string
	for _, tokenID := range tokenIDs {
		sessionKey := sessionKeyPrefix + tokenID
		cmd := as.redisClient.Get(ctx, sessionKey)
		if err := cmd.Err(); err != nil {
			if errors.Is(err, redis.Nil) {
				// dangling set member
				toRemove = append(toRemove, tokenID)
				continue
			}
			log.Errorf("=> auth service, scan and clean token %s: %s", tokenID, err)
			continue
		}

		createdAtUnix, err := strconv.ParseInt(cmd.Val(), 10, 64)
		if err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", tokenID, err)
			continue
		}

		createdAt := time.Unix(createdAtUnix, 0)
		if time.Since(createdAt) > as.ttl {
			log.Tracef("=>\twill clean the session: %s", tokenID)
			toRemove = append(toRemove, tokenID)
		}
	}

	removed := 0
	for _, tokenID := range toRemove {
		if err := as.redisClient.Del(ctx, sessionKeyPrefix+tokenID).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", tokenID, err)
			continue
		}
		if err := as.redisClient.SRem(ctx, tokensSetKey, tokenID).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", tokenID, err)
			continue
		}
		removed++
	}

	return removed
}
