/*
 * Copyright 2026 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revisor:settings:"

// RedisStore keeps the flags of each user in one Redis hash.
type RedisStore struct {
	client *redis.Client
}

// DialRedis connects to the Redis of the given config.
func DialRedis(conf *RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(conf.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), conf.ParseDialTimeout())
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisStore(client), nil
}

// NewRedisStore creates a store from an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Flag returns the flag of the user.
func (s *RedisStore) Flag(ctx context.Context, userID string, key Key) (bool, error) {
	value, err := s.client.HGet(ctx, keyPrefix+userID, string(key)).Bool()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get flag %s: %w", key, err)
	}
	return value, nil
}

// SetFlag sets the flag of the user.
func (s *RedisStore) SetFlag(ctx context.Context, userID string, key Key, value bool) error {
	if !value {
		if err := s.client.HDel(ctx, keyPrefix+userID, string(key)).Err(); err != nil {
			return fmt.Errorf("clear flag %s: %w", key, err)
		}
		return nil
	}

	if err := s.client.HSet(ctx, keyPrefix+userID, string(key), true).Err(); err != nil {
		return fmt.Errorf("set flag %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// RedisConfig is the configuration for connecting to Redis.
type RedisConfig struct {
	URL         string `yaml:"URL"`
	DialTimeout string `yaml:"DialTimeout"`
}

// Validate returns an error if the provided RedisConfig is invalidated.
func (c *RedisConfig) Validate() error {
	if _, err := redis.ParseURL(c.URL); err != nil {
		return fmt.Errorf(`invalid argument "%s" for "--redis-url" flag: %w`, c.URL, err)
	}

	if _, err := time.ParseDuration(c.DialTimeout); err != nil {
		return fmt.Errorf(`invalid argument "%s" for "--redis-dial-timeout" flag: %w`, c.DialTimeout, err)
	}

	return nil
}

// ParseDialTimeout returns the dial timeout, falling back to five seconds.
func (c *RedisConfig) ParseDialTimeout() time.Duration {
	timeout, err := time.ParseDuration(c.DialTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return timeout
}
