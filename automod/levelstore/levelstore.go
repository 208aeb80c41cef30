// Package levelstore persists the current antiraid level per community,
// following the usual mem/redis split.
package levelstore

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/warden-bot/warden/automod/engine"
)

// MemLevelStore keeps levels in memory; suitable for tests and single-node
// deployments that accept losing the level on restart.
type MemLevelStore struct {
	mu     sync.Mutex
	levels map[string]string
}

var _ engine.AntiraidLevelStore = (*MemLevelStore)(nil)

func NewMemLevelStore() *MemLevelStore {
	return &MemLevelStore{levels: make(map[string]string)}
}

func (s *MemLevelStore) Get(ctx context.Context, communityID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels[communityID], nil
}

func (s *MemLevelStore) Set(ctx context.Context, communityID, level string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[communityID] = level
	return nil
}

var redisLevelPrefix = "antiraid/"

type RedisLevelStore struct {
	Client *redis.Client
}

var _ engine.AntiraidLevelStore = (*RedisLevelStore)(nil)

func NewRedisLevelStore(redisURL string) (*RedisLevelStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(context.TODO()).Result()
	if err != nil {
		return nil, err
	}
	return &RedisLevelStore{Client: rdb}, nil
}

func (s *RedisLevelStore) Get(ctx context.Context, communityID string) (string, error) {
	v, err := s.Client.Get(ctx, redisLevelPrefix+communityID).Result()
	if err == redis.Nil {
		return "", nil
	} else if err != nil {
		return "", err
	}
	return v, nil
}

func (s *RedisLevelStore) Set(ctx context.Context, communityID, level string) error {
	// no expiration; the level holds until explicitly changed
	return s.Client.Set(ctx, redisLevelPrefix+communityID, level, 0).Err()
}
