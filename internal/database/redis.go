package database

import (
	"context"
	"errors"
	"time"

	"etalase/internal/config"
	"etalase/internal/errx"

	"github.com/philippgille/gokv"
	"github.com/philippgille/gokv/encoding"
	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 3 * time.Second

// NewRedisClient parses the URL, applies the timeouts and pings the server.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.ReadTimeout = time.Duration(cfg.ReadTimeout) * time.Second
	opts.WriteTimeout = time.Duration(cfg.WriteTimeout) * time.Second
	opts.DialTimeout = time.Duration(cfg.DialTimeout) * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, errx.WrapStorage(err)
	}
	return client, nil
}

type redisStore struct {
	client *redis.Client
	codec  encoding.Codec
}

// NewRedisStore adapts a go-redis client to gokv.Store.
func NewRedisStore(client *redis.Client, codec encoding.Codec) gokv.Store {
	return &redisStore{client: client, codec: codec}
}

func (s *redisStore) Set(k string, v any) error {
	data, err := s.codec.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return errx.WrapStorage(s.client.Set(ctx, k, data, 0).Err())
}

func (s *redisStore) Get(k string, v any) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	data, err := s.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errx.WrapStorage(err)
	}
	return true, s.codec.Unmarshal(data, v)
}

func (s *redisStore) Delete(k string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return errx.WrapStorage(s.client.Del(ctx, k).Err())
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
