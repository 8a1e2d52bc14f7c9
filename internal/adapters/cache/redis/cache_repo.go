// Package redis keeps the translation cache in Redis with a TTL.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"voicecat/internal/domain"
)

type CacheRepo struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// Connect dials Redis at addr and verifies the connection.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewCacheRepo stores entries under prefix; a zero ttl keeps them forever.
func NewCacheRepo(client *goredis.Client, prefix string, ttl time.Duration) *CacheRepo {
	if prefix == "" {
		prefix = "voicecat:tr:"
	}
	return &CacheRepo{client: client, prefix: prefix, ttl: ttl}
}

func (r *CacheRepo) key(src, srcLang, tgtLang, provider, model string) string {
	sum := sha256.Sum256([]byte(src))
	return r.prefix + strings.Join([]string{provider, model, srcLang, tgtLang, hex.EncodeToString(sum[:])}, ":")
}

func (r *CacheRepo) Get(ctx context.Context, src, srcLang, tgtLang, provider, model string) (*domain.CacheEntry, error) {
	raw, err := r.client.Get(ctx, r.key(src, srcLang, tgtLang, provider, model)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading cache: %w", err)
	}
	var e domain.CacheEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return &e, nil
}

func (r *CacheRepo) Put(ctx context.Context, entry *domain.CacheEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	k := r.key(entry.SourceText, entry.SrcLang, entry.TgtLang, entry.Provider, entry.Model)
	if err := r.client.Set(ctx, k, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("error writing cache: %w", err)
	}
	return nil
}
