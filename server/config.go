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

package server

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yorkie-team/revisor/server/backend"
	"github.com/yorkie-team/revisor/server/backend/database/mongo"
	"github.com/yorkie-team/revisor/server/backend/database/postgres"
	"github.com/yorkie-team/revisor/server/backend/receipts"
	"github.com/yorkie-team/revisor/server/backend/settings"
	"github.com/yorkie-team/revisor/server/edits"
	"github.com/yorkie-team/revisor/server/profiling"
)

// Below are the values of the default values of Revisor config.
const (
	DefaultProfilingPort = 8081

	DefaultEditSendEnabled    = true
	DefaultEditIncomingWindow = 48 * time.Hour
	DefaultEditIncomingLimit  = 100
	DefaultEditOutgoingWindow = 24 * time.Hour
	DefaultEditOutgoingLimit  = 10

	DefaultMessageLockTimeout = 10 * time.Second
	DefaultHostname           = ""

	DefaultMongoConnectionURI     = "mongodb://localhost:27017"
	DefaultMongoConnectionTimeout = 5 * time.Second
	DefaultMongoPingTimeout       = 5 * time.Second
	DefaultMongoRevisorDatabase   = "revisor-meta"
	DefaultMongoThreadCacheSize   = 1000

	DefaultPostgresConnectionTimeout = 5 * time.Second
	DefaultPostgresConnMaxLifetime   = 30 * time.Minute
	DefaultPostgresMaxOpenConns      = 16
	DefaultPostgresThreadCacheSize   = 1000

	DefaultRedisDialTimeout = 5 * time.Second

	DefaultKafkaTopic        = "read-receipts"
	DefaultKafkaWriteTimeout = 5 * time.Second
)

// Config is the configuration for creating a Revisor instance.
type Config struct {
	Edits     *edits.Config         `yaml:"Edits"`
	Backend   *backend.Config       `yaml:"Backend"`
	Profiling *profiling.Config     `yaml:"Profiling"`
	Mongo     *mongo.Config         `yaml:"Mongo"`
	Postgres  *postgres.Config      `yaml:"Postgres"`
	Redis     *settings.RedisConfig `yaml:"Redis"`
	Kafka     *receipts.Config      `yaml:"Kafka"`
}

// NewConfig returns a Config struct that contains reasonable defaults
// for most of the configurations.
func NewConfig() *Config {
	return &Config{
		Edits: &edits.Config{
			SendEnabled:    DefaultEditSendEnabled,
			IncomingWindow: DefaultEditIncomingWindow.String(),
			IncomingLimit:  DefaultEditIncomingLimit,
			OutgoingWindow: DefaultEditOutgoingWindow.String(),
			OutgoingLimit:  DefaultEditOutgoingLimit,
		},
		Backend: &backend.Config{
			MessageLockTimeout: DefaultMessageLockTimeout.String(),
			Hostname:           DefaultHostname,
		},
	}
}

// NewConfigFromFile returns a Config struct for the given conf file.
func NewConfigFromFile(path string) (*Config, error) {
	conf := &Config{}
	bytes, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err = yaml.Unmarshal(bytes, conf); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	conf.ensureDefaultValue()
	return conf, nil
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if err := c.Edits.Validate(); err != nil {
		return err
	}

	if err := c.Backend.Validate(); err != nil {
		return err
	}

	if c.Profiling != nil {
		if err := c.Profiling.Validate(); err != nil {
			return err
		}
	}

	if c.Mongo != nil {
		if err := c.Mongo.Validate(); err != nil {
			return err
		}
	}

	if c.Postgres != nil {
		if err := c.Postgres.Validate(); err != nil {
			return err
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Validate(); err != nil {
			return err
		}
	}

	if c.Kafka != nil && c.Kafka.Addresses != "" {
		if err := c.Kafka.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ensureDefaultValue sets the value of the option to which the default value
// should be applied when the user does not input it.
func (c *Config) ensureDefaultValue() {
	if c.Edits == nil {
		c.Edits = &edits.Config{SendEnabled: DefaultEditSendEnabled}
	}
	if c.Edits.IncomingWindow == "" {
		c.Edits.IncomingWindow = DefaultEditIncomingWindow.String()
	}
	if c.Edits.IncomingLimit == 0 {
		c.Edits.IncomingLimit = DefaultEditIncomingLimit
	}
	if c.Edits.OutgoingWindow == "" {
		c.Edits.OutgoingWindow = DefaultEditOutgoingWindow.String()
	}
	if c.Edits.OutgoingLimit == 0 {
		c.Edits.OutgoingLimit = DefaultEditOutgoingLimit
	}

	if c.Backend == nil {
		c.Backend = &backend.Config{}
	}
	if c.Backend.MessageLockTimeout == "" {
		c.Backend.MessageLockTimeout = DefaultMessageLockTimeout.String()
	}

	if c.Profiling != nil && c.Profiling.Port == 0 {
		c.Profiling.Port = DefaultProfilingPort
	}

	if c.Mongo != nil {
		if c.Mongo.ConnectionURI == "" {
			c.Mongo.ConnectionURI = DefaultMongoConnectionURI
		}
		if c.Mongo.ConnectionTimeout == "" {
			c.Mongo.ConnectionTimeout = DefaultMongoConnectionTimeout.String()
		}
		if c.Mongo.PingTimeout == "" {
			c.Mongo.PingTimeout = DefaultMongoPingTimeout.String()
		}
		if c.Mongo.RevisorDatabase == "" {
			c.Mongo.RevisorDatabase = DefaultMongoRevisorDatabase
		}
		if c.Mongo.ThreadCacheSize == 0 {
			c.Mongo.ThreadCacheSize = DefaultMongoThreadCacheSize
		}
	}

	if c.Postgres != nil {
		if c.Postgres.ConnectionTimeout == "" {
			c.Postgres.ConnectionTimeout = DefaultPostgresConnectionTimeout.String()
		}
		if c.Postgres.ConnMaxLifetime == "" {
			c.Postgres.ConnMaxLifetime = DefaultPostgresConnMaxLifetime.String()
		}
		if c.Postgres.MaxOpenConns == 0 {
			c.Postgres.MaxOpenConns = DefaultPostgresMaxOpenConns
		}
		if c.Postgres.ThreadCacheSize == 0 {
			c.Postgres.ThreadCacheSize = DefaultPostgresThreadCacheSize
		}
	}

	if c.Redis != nil && c.Redis.DialTimeout == "" {
		c.Redis.DialTimeout = DefaultRedisDialTimeout.String()
	}

	if c.Kafka != nil && c.Kafka.Addresses != "" {
		if c.Kafka.Topic == "" {
			c.Kafka.Topic = DefaultKafkaTopic
		}
		if c.Kafka.WriteTimeout == "" {
			c.Kafka.WriteTimeout = DefaultKafkaWriteTimeout.String()
		}
	}
}
