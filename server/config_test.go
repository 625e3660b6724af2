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

package server_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/revisor/server"
	"github.com/yorkie-team/revisor/server/profiling"
)

func TestNewConfigFromFile(t *testing.T) {
	t.Run("fail read config file test", func(t *testing.T) {
		conf := server.NewConfig()
		_, err := server.NewConfigFromFile("nowhere.yml")
		assert.Error(t, err)

		assert.NoError(t, conf.Validate())
		assert.Equal(t, server.DefaultEditOutgoingLimit, conf.Edits.OutgoingLimit)
		assert.Equal(t, server.DefaultEditIncomingWindow.String(), conf.Edits.IncomingWindow)
		assert.Nil(t, conf.Mongo)
		assert.Nil(t, conf.Profiling)
	})

	t.Run("read config file test", func(t *testing.T) {
		conf, err := server.NewConfigFromFile("config.sample.yml")
		require.NoError(t, err)
		assert.NoError(t, conf.Validate())

		assert.True(t, conf.Edits.SendEnabled)
		assert.Equal(t, server.DefaultEditIncomingLimit, conf.Edits.IncomingLimit)
		assert.Equal(t, server.DefaultEditOutgoingLimit, conf.Edits.OutgoingLimit)
		assert.Equal(t, server.DefaultEditIncomingWindow, conf.Edits.ParseIncomingWindow())
		assert.Equal(t, server.DefaultEditOutgoingWindow, conf.Edits.ParseOutgoingWindow())
		assert.Equal(t, server.DefaultMessageLockTimeout, conf.Backend.ParseMessageLockTimeout())

		connTimeout, err := time.ParseDuration(conf.Mongo.ConnectionTimeout)
		assert.NoError(t, err)
		assert.Equal(t, server.DefaultMongoConnectionTimeout, connTimeout)
		assert.Equal(t, server.DefaultMongoConnectionURI, conf.Mongo.ConnectionURI)
		assert.Equal(t, server.DefaultMongoRevisorDatabase, conf.Mongo.RevisorDatabase)

		assert.Equal(t, server.DefaultProfilingPort, conf.Profiling.Port)
		assert.Equal(t, profiling.DefaultMetricsPath, conf.Profiling.MetricsPath)
		assert.Nil(t, conf.Postgres)
		assert.Nil(t, conf.Redis)
		assert.Nil(t, conf.Kafka)
	})

	t.Run("default value test", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "revisor.yml")
		require.NoError(t, os.WriteFile(path, []byte(`
Edits:
  SendEnabled: false
  OutgoingLimit: 3
Postgres:
  ConnectionURI: "postgres://localhost:5432/revisor"
Kafka:
  Addresses: "localhost:29092"
`), 0o600))

		conf, err := server.NewConfigFromFile(path)
		require.NoError(t, err)
		assert.NoError(t, conf.Validate())

		assert.False(t, conf.Edits.SendEnabled)
		assert.Equal(t, 3, conf.Edits.OutgoingLimit)
		assert.Equal(t, server.DefaultEditIncomingLimit, conf.Edits.IncomingLimit)
		assert.Equal(t, server.DefaultMessageLockTimeout.String(), conf.Backend.MessageLockTimeout)

		assert.Equal(t, server.DefaultPostgresMaxOpenConns, conf.Postgres.MaxOpenConns)
		assert.Equal(t, server.DefaultPostgresConnMaxLifetime.String(), conf.Postgres.ConnMaxLifetime)

		assert.Equal(t, server.DefaultKafkaTopic, conf.Kafka.Topic)
		assert.Equal(t, server.DefaultKafkaWriteTimeout.String(), conf.Kafka.WriteTimeout)
	})

	t.Run("invalid config test", func(t *testing.T) {
		conf := server.NewConfig()
		conf.Edits.OutgoingWindow = "one day"
		assert.Error(t, conf.Validate())
	})
}
