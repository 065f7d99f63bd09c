package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfirmationCodeStore keeps code hashes in redis and lets key expiry enforce the TTL.
type RedisConfirmationCodeStore struct {
	client *redis.Client
}

// NewRedisClient parses a redis:// URL and verifies the connection
func NewRedisClient(redisURL, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

func NewRedisConfirmationCodeStore(client *redis.Client) *RedisConfirmationCodeStore {
	return &RedisConfirmationCodeStore{client: client}
}

func confirmationKey(userID string) string {
	return fmt.Sprintf("confirmation:user:%s", userID)
}

func (s *RedisConfirmationCodeStore) Save(ctx context.Context, userID, codeHash string, ttl time.Duration) error {
	key := confirmationKey(userID)
	fields := map[string]any{
		"code_hash": codeHash,
		"issued_at": time.Now().UTC().Format(time.RFC3339Nano),
	}

	// One pipeline so a reader never sees the new hash without its expiry
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

func (s *RedisConfirmationCodeStore) Get(ctx context.Context, userID string) (string, error) {
	hash, err := s.client.HGet(ctx, confirmationKey(userID), "code_hash").Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

// Consume deletes the key under WATCH so a concurrent Save or Consume aborts the transaction
func (s *RedisConfirmationCodeStore) Consume(ctx context.Context, userID, codeHash string) error {
	key := confirmationKey(userID)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := tx.HGet(ctx, key, "code_hash").Result()
		if errors.Is(err, redis.Nil) {
			return ErrCodeNotFound
		}
		if err != nil {
			return err
		}
		if stored != codeHash {
			return ErrCodeNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrCodeNotFound
	}
	return err
}
