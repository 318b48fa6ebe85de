package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/corray333/backend-labs/dukan/internal/dal/interfaces/ikvstore"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// Store keeps every value under prefix+key in Redis.
type Store struct {
	client *goredis.Client
	prefix string
}

// NewStore creates a store on top of an existing client.
func NewStore(client *goredis.Client, prefix string) *Store {
	return &Store{
		client: client,
		prefix: prefix,
	}
}

// MustNewClient creates a Redis client from config and checks the connection.
func MustNewClient() *goredis.Client {
	client := goredis.NewClient(&goredis.Options{
		Addr:     viper.GetString("redis.addr"),
		Password: os.Getenv("DUKAN_REDIS_PASSWORD"),
		DB:       viper.GetInt("redis.db"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}

	return client
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ikvstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	return data, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		// Redis answers writes above maxmemory with an OOM error.
		if strings.HasPrefix(err.Error(), "OOM") {
			return fmt.Errorf("%w: %w", ikvstore.ErrQuotaExceeded, err)
		}

		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

func (s *Store) key(key string) string {
	return s.prefix + key
}
