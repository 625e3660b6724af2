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

// Package server provides the Revisor server which wires the edit manager to
// its storage, settings and receipt transport.
package server

import (
	gosync "sync"

	"github.com/yorkie-team/revisor/server/backend"
	"github.com/yorkie-team/revisor/server/edits"
	"github.com/yorkie-team/revisor/server/logging"
	"github.com/yorkie-team/revisor/server/profiling"
	"github.com/yorkie-team/revisor/server/profiling/prometheus"
)

// Revisor is a server of Revisor. It applies incoming and local edits of
// messages and serves their edit history.
type Revisor struct {
	lock gosync.Mutex

	conf            *Config
	backend         *backend.Backend
	edits           *edits.Manager
	profilingServer *profiling.Server

	shutdown   bool
	shutdownCh chan struct{}
}

// New creates a new instance of Revisor.
func New(conf *Config, opts ...edits.Option) (*Revisor, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	metrics, err := prometheus.NewMetrics()
	if err != nil {
		return nil, err
	}

	be, err := backend.New(
		conf.Backend,
		conf.Mongo,
		conf.Postgres,
		conf.Redis,
		conf.Kafka,
		metrics,
	)
	if err != nil {
		return nil, err
	}

	var profilingServer *profiling.Server
	if conf.Profiling != nil {
		profilingServer = profiling.NewServer(conf.Profiling, metrics)
	}

	return &Revisor{
		conf:            conf,
		backend:         be,
		edits:           edits.New(conf.Edits, be, opts...),
		profilingServer: profilingServer,
		shutdownCh:      make(chan struct{}),
	}, nil
}

// Start starts the profiling server if it is configured.
func (r *Revisor) Start() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.profilingServer != nil {
		if err := r.profilingServer.Start(); err != nil {
			return err
		}
	}

	logging.DefaultLogger().Infof("revisor started on %s", r.backend.Config.Hostname)
	return nil
}

// Shutdown shuts down this Revisor server.
func (r *Revisor) Shutdown(graceful bool) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.shutdown {
		return nil
	}

	if r.profilingServer != nil {
		r.profilingServer.Shutdown(graceful)
	}

	if err := r.backend.Shutdown(); err != nil {
		return err
	}

	close(r.shutdownCh)
	r.shutdown = true
	return nil
}

// ShutdownCh returns the shutdown channel.
func (r *Revisor) ShutdownCh() <-chan struct{} {
	return r.shutdownCh
}

// Edits returns the edit manager of this server.
func (r *Revisor) Edits() *edits.Manager {
	return r.edits
}

// Metrics returns the metrics of this server.
func (r *Revisor) Metrics() *prometheus.Metrics {
	return r.backend.Metrics
}
