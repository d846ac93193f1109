package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/luisscruza/variantbox/internal/common/logger"
)

const tokenKeyPrefix = "variantbox:token:"

// TokenIssuer hands out single-use security tokens backed by Redis. A token
// is valid for one submission within the TTL; consumption is atomic via
// GETDEL so a replayed token fails the check.
type TokenIssuer struct {
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewTokenIssuer(rdb *redis.Client, ttl time.Duration, log logger.Logger) *TokenIssuer {
	return &TokenIssuer{
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "notify.tokens"}),
	}
}

// Issue creates a fresh token.
func (t *TokenIssuer) Issue(ctx context.Context) (string, error) {
	token := uuid.New().String()
	if err := t.redis.Set(ctx, tokenKeyPrefix+token, "1", t.ttl).Err(); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Consume validates and burns a token. Returns false for unknown, expired,
// or already-used tokens.
func (t *TokenIssuer) Consume(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	_, err := t.redis.GetDel(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("consume token: %w", err)
	}
	return true, nil
}
