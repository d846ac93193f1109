package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisscruza/variantbox/internal/common/logger"
)

func newTokenFixture(t *testing.T, ttl time.Duration) (*TokenIssuer, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewTokenIssuer(rdb, ttl, logger.NewTestLogger(t)), mr
}

func TestTokenIssuer_IssueAndConsume(t *testing.T) {
	issuer, _ := newTokenFixture(t, time.Minute)
	ctx := context.Background()

	token, err := issuer.Issue(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	ok, err := issuer.Consume(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTokenIssuer_ConsumeIsSingleUse(t *testing.T) {
	issuer, _ := newTokenFixture(t, time.Minute)
	ctx := context.Background()

	token, err := issuer.Issue(ctx)
	require.NoError(t, err)

	ok, err := issuer.Consume(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = issuer.Consume(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok, "a consumed token must not validate again")
}

func TestTokenIssuer_UnknownToken(t *testing.T) {
	issuer, _ := newTokenFixture(t, time.Minute)

	ok, err := issuer.Consume(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenIssuer_EmptyToken(t *testing.T) {
	issuer, _ := newTokenFixture(t, time.Minute)

	ok, err := issuer.Consume(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenIssuer_ExpiredToken(t *testing.T) {
	issuer, mr := newTokenFixture(t, time.Minute)
	ctx := context.Background()

	token, err := issuer.Issue(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	ok, err := issuer.Consume(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}
