package stub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"agencydesk/internal/util"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// challengeTTL bounds how long a temp credential stays redeemable.
const challengeTTL = 5 * time.Minute

// maxChallengeAttempts caps wrong-code retries per temp token.
const maxChallengeAttempts = 5

var (
	errChallengeNotFound = errors.New("challenge not found or expired")
	errTooManyAttempts   = errors.New("too many verification attempts")
)

// challenge is the server-side half of a pending second factor: which
// account it belongs to and the code that completes it.
type challenge struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// CredentialCache holds pending 2FA challenges keyed by temp token,
// expiring them after challengeTTL.
type CredentialCache interface {
	Put(ctx context.Context, tempToken string, ch challenge) error
	Get(ctx context.Context, tempToken string) (challenge, error)
	RecordAttempt(ctx context.Context, tempToken string) error
	Delete(ctx context.Context, tempToken string) error
}

// memoryCredentialCache is the default in-process cache.
type memoryCredentialCache struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	attempts map[string]int
}

type memoryEntry struct {
	ch      challenge
	expires time.Time
}

func newMemoryCredentialCache() *memoryCredentialCache {
	return &memoryCredentialCache{
		entries:  make(map[string]memoryEntry),
		attempts: make(map[string]int),
	}
}

func (c *memoryCredentialCache) Put(_ context.Context, tempToken string, ch challenge) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[tempToken] = memoryEntry{ch: ch, expires: time.Now().Add(challengeTTL)}
	return nil
}

func (c *memoryCredentialCache) Get(_ context.Context, tempToken string) (challenge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[tempToken]
	if !ok || time.Now().After(entry.expires) {
		delete(c.entries, tempToken)
		return challenge{}, errChallengeNotFound
	}
	return entry.ch, nil
}

func (c *memoryCredentialCache) RecordAttempt(_ context.Context, tempToken string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts[tempToken]++
	if c.attempts[tempToken] > maxChallengeAttempts {
		delete(c.entries, tempToken)
		return errTooManyAttempts
	}
	return nil
}

func (c *memoryCredentialCache) Delete(_ context.Context, tempToken string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, tempToken)
	delete(c.attempts, tempToken)
	return nil
}

const (
	challengePrefix        = "challenge:"
	challengeAttemptPrefix = "challenge_attempts:"
)

// redisCredentialCache backs the cache with Redis so several stub
// instances can share pending challenges.
type redisCredentialCache struct {
	client *redis.Client
}

func newRedisCredentialCache(redisURL string) (*redisCredentialCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis health check failed: %w", err)
	}

	return &redisCredentialCache{client: client}, nil
}

func (c *redisCredentialCache) Put(ctx context.Context, tempToken string, ch challenge) error {
	key := challengePrefix + tempToken
	// Code and email packed as two fields; a hash keeps them atomic
	if err := c.client.HSet(ctx, key, "email", ch.Email, "code", ch.Code).Err(); err != nil {
		util.Error("Failed to store challenge", zap.Error(err))
		return fmt.Errorf("failed to store challenge: %w", err)
	}
	if err := c.client.Expire(ctx, key, challengeTTL).Err(); err != nil {
		return fmt.Errorf("failed to expire challenge: %w", err)
	}
	return nil
}

func (c *redisCredentialCache) Get(ctx context.Context, tempToken string) (challenge, error) {
	key := challengePrefix + tempToken
	fields, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		util.Error("Failed to load challenge", zap.Error(err))
		return challenge{}, fmt.Errorf("failed to load challenge: %w", err)
	}
	if len(fields) == 0 {
		return challenge{}, errChallengeNotFound
	}
	return challenge{Email: fields["email"], Code: fields["code"]}, nil
}

func (c *redisCredentialCache) RecordAttempt(ctx context.Context, tempToken string) error {
	key := challengeAttemptPrefix + tempToken
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	if count == 1 {
		if err := c.client.Expire(ctx, key, challengeTTL).Err(); err != nil {
			return fmt.Errorf("failed to expire attempt counter: %w", err)
		}
	}
	if count > maxChallengeAttempts {
		if err := c.Delete(ctx, tempToken); err != nil {
			return err
		}
		return errTooManyAttempts
	}
	return nil
}

func (c *redisCredentialCache) Delete(ctx context.Context, tempToken string) error {
	keys := []string{challengePrefix + tempToken, challengeAttemptPrefix + tempToken}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	return nil
}

// NewCredentialCache picks the Redis cache when a URL is configured
// and falls back to the in-process one otherwise.
func NewCredentialCache(redisURL string) (CredentialCache, error) {
	if redisURL == "" {
		return newMemoryCredentialCache(), nil
	}
	cache, err := newRedisCredentialCache(redisURL)
	if err != nil {
		return nil, err
	}
	util.Info("Challenge cache backed by Redis")
	return cache, nil
}
