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

// Package backend provides the backend implementation of the Revisor.
// This package is responsible for managing the database and other
// resources required to run Revisor.
package backend

import (
	"errors"
	"fmt"
	"os"

	"github.com/yorkie-team/revisor/pkg/locker"
	"github.com/yorkie-team/revisor/server/backend/database"
	memdb "github.com/yorkie-team/revisor/server/backend/database/memory"
	"github.com/yorkie-team/revisor/server/backend/database/mongo"
	"github.com/yorkie-team/revisor/server/backend/database/postgres"
	"github.com/yorkie-team/revisor/server/backend/receipts"
	"github.com/yorkie-team/revisor/server/backend/settings"
	"github.com/yorkie-team/revisor/server/logging"
	"github.com/yorkie-team/revisor/server/profiling/prometheus"
)

// Backend manages Revisor's backend such as Database, the settings store and
// the read receipt dispatcher. It also provides the message lockers.
type Backend struct {
	Config *Config

	// Lockers serializes edits of the same message within this process.
	Lockers *locker.Locker[string]

	// Metrics is used to expose metrics.
	Metrics *prometheus.Metrics
	// DB is the database instance.
	DB database.Database
	// Settings keeps per-user flags.
	Settings settings.Store
	// Receipts delivers read receipts.
	Receipts receipts.Dispatcher

	batches *batchLimiter
}

// New creates a new instance of Backend.
func New(
	conf *Config,
	mongoConf *mongo.Config,
	postgresConf *postgres.Config,
	redisConf *settings.RedisConfig,
	kafkaConf *receipts.Config,
	metrics *prometheus.Metrics,
) (*Backend, error) {
	// 01. Build the server info with the given hostname or the hostname of the
	// current machine.
	if conf.Hostname == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("os.Hostname: %w", err)
		}
		conf.Hostname = hostname
	}

	// 02. Create the database instance. PostgreSQL is preferred over MongoDB
	// when both are configured. Otherwise, create a memory database instance.
	db, dbInfo, err := dialDatabase(mongoConf, postgresConf)
	if err != nil {
		return nil, err
	}

	// 03. Create the settings store.
	var store settings.Store
	if redisConf != nil {
		store, err = settings.DialRedis(redisConf)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
	} else {
		store = settings.NewMemoryStore()
	}

	// 04. Create the read receipt dispatcher.
	dispatcher := receipts.Ensure(kafkaConf)

	logging.DefaultLogger().Infof("backend created: db: %s", dbInfo)

	return &Backend{
		Config: conf,

		Lockers: locker.New[string](),

		Metrics:  metrics,
		DB:       db,
		Settings: store,
		Receipts: dispatcher,

		batches: newBatchLimiter(maxDispatchConcurrency),
	}, nil
}

func dialDatabase(
	mongoConf *mongo.Config,
	postgresConf *postgres.Config,
) (database.Database, string, error) {
	switch {
	case postgresConf != nil:
		db, err := postgres.Dial(postgresConf)
		if err != nil {
			return nil, "", err
		}
		return db, "postgres", nil
	case mongoConf != nil:
		db, err := mongo.Dial(mongoConf)
		if err != nil {
			return nil, "", err
		}
		return db, mongoConf.ConnectionURI, nil
	default:
		db, err := memdb.New()
		if err != nil {
			return nil, "", err
		}
		return db, "memory", nil
	}
}

// Shutdown closes all resources of this instance.
func (b *Backend) Shutdown() error {
	var errs []error

	if err := b.Receipts.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := b.Settings.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := b.DB.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	logging.DefaultLogger().Infof("backend stopped")
	return nil
}
