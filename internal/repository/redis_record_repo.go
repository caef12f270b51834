package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKeyPrefix = "campus:"

type redisRecordRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRecordRepository stores each collection as one Redis string.
func NewRedisRecordRepository(client *redis.Client, prefix string) RecordRepository {
	if prefix == "" {
		prefix = defaultRedisKeyPrefix
	}
	return &redisRecordRepository{client: client, prefix: prefix}
}

func (r *redisRecordRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (r *redisRecordRepository) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *redisRecordRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
