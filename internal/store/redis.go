package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/DanielFillol/linkedin-people-scraper/internal/model"
)

const defaultLockTTL = 6 * time.Hour

// unlockScript deletes the lock only if it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisStore keeps records as JSON strings plus a set of scraped ids:
//
//	linkedin:<keyword>:profile:<id>  -> JSON record
//	linkedin:<keyword>:scraped       -> set of ids
//	linkedin:<keyword>:lock          -> run token
type RedisStore struct {
	client  *redis.Client
	prefix  string
	lockTTL time.Duration
}

// NewRedisStore connects to redisURL (redis://host:6379/0) and pings it.
func NewRedisStore(ctx context.Context, redisURL, keyword string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("store: invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("store: redis ping failed: %w", err)
	}
	return NewRedisStoreFromClient(client, keyword)
}

// NewRedisStoreFromClient wraps an existing client. Close closes it.
func NewRedisStoreFromClient(client *redis.Client, keyword string) (*RedisStore, error) {
	if err := validName("keyword", keyword); err != nil {
		return nil, err
	}
	return &RedisStore{client: client, prefix: "linkedin:" + keyword, lockTTL: defaultLockTTL}, nil
}

func (s *RedisStore) setKey() string              { return s.prefix + ":scraped" }
func (s *RedisStore) lockKey() string             { return s.prefix + ":lock" }
func (s *RedisStore) profileKey(id string) string { return s.prefix + ":profile:" + id }

func (s *RedisStore) IsScraped(ctx context.Context, id string) (bool, error) {
	if err := validName("id", id); err != nil {
		return false, err
	}
	ok, err := s.client.SIsMember(ctx, s.setKey(), id).Result()
	if err != nil {
		return false, fmt.Errorf("store: sismember %s: %w", id, err)
	}
	return ok, nil
}

func (s *RedisStore) Save(ctx context.Context, rec model.ProfileRecord, id string) error {
	if err := validName("id", id); err != nil {
		return err
	}
	rec.Normalize()
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", id, err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.profileKey(id), data, 0)
		pipe.SAdd(ctx, s.setKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: save %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) IDs(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.setKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("store: smembers: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *RedisStore) Load(ctx context.Context) ([]model.ProfileRecord, error) {
	ids, err := s.IDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.ProfileRecord, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.profileKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("store: mget: %w", err)
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var rec model.ProfileRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			return nil, fmt.Errorf("store: decode %s: %w", ids[i], err)
		}
		rec.Normalize()
		out = append(out, rec)
	}
	return out, nil
}

// Lock sets the lock key with a TTL so a crashed run cannot hold it
// forever.
func (s *RedisStore) Lock(ctx context.Context) (func() error, error) {
	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, s.lockKey(), token, s.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("store: lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", s.lockKey(), ErrLocked)
	}
	return func() error {
		return unlockScript.Run(context.WithoutCancel(ctx), s.client, []string{s.lockKey()}, token).Err()
	}, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
