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

package settings_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/revisor/server/backend/settings"
)

func runStoreTest(t *testing.T, store settings.Store) {
	ctx := context.Background()

	t.Run("unset flag test", func(t *testing.T) {
		shown, err := store.Flag(ctx, "alice", settings.KeyEditSendWarningShown)
		assert.NoError(t, err)
		assert.False(t, shown)
	})

	t.Run("set and clear flag test", func(t *testing.T) {
		assert.NoError(t, store.SetFlag(ctx, "bob", settings.KeyEditSendWarningShown, true))

		shown, err := store.Flag(ctx, "bob", settings.KeyEditSendWarningShown)
		assert.NoError(t, err)
		assert.True(t, shown)

		shown, err = store.Flag(ctx, "carol", settings.KeyEditSendWarningShown)
		assert.NoError(t, err)
		assert.False(t, shown)

		assert.NoError(t, store.SetFlag(ctx, "bob", settings.KeyEditSendWarningShown, false))
		shown, err = store.Flag(ctx, "bob", settings.KeyEditSendWarningShown)
		assert.NoError(t, err)
		assert.False(t, shown)
	})
}

func TestMemoryStore(t *testing.T) {
	store := settings.NewMemoryStore()
	defer func() {
		assert.NoError(t, store.Close())
	}()

	runStoreTest(t, store)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	t.Run("client test", func(t *testing.T) {
		store := settings.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
		defer func() {
			assert.NoError(t, store.Close())
		}()

		runStoreTest(t, store)
	})

	t.Run("dial test", func(t *testing.T) {
		store, err := settings.DialRedis(&settings.RedisConfig{
			URL:         "redis://" + mr.Addr(),
			DialTimeout: "1s",
		})
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, store.Close())
		}()

		require.NoError(t, store.SetFlag(context.Background(), "dave", settings.KeyEditSendWarningShown, true))
		assert.Equal(t, "1", mr.HGet("revisor:settings:dave", string(settings.KeyEditSendWarningShown)))
	})

	t.Run("dial unreachable test", func(t *testing.T) {
		_, err := settings.DialRedis(&settings.RedisConfig{
			URL:         "redis://127.0.0.1:1",
			DialTimeout: "100ms",
		})
		assert.Error(t, err)
	})
}

func TestRedisConfig(t *testing.T) {
	conf := &settings.RedisConfig{URL: "redis://localhost:6379/0", DialTimeout: "2s"}
	assert.NoError(t, conf.Validate())
	assert.Equal(t, 2*time.Second, conf.ParseDialTimeout())

	conf.URL = "localhost:6379"
	assert.Error(t, conf.Validate())

	conf.URL = "redis://localhost:6379/0"
	conf.DialTimeout = "soon"
	assert.Error(t, conf.Validate())
	assert.Equal(t, 5*time.Second, conf.ParseDialTimeout())
}
