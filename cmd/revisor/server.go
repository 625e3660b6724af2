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

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yorkie-team/revisor/server"
	"github.com/yorkie-team/revisor/server/backend/database/mongo"
	"github.com/yorkie-team/revisor/server/backend/database/postgres"
	"github.com/yorkie-team/revisor/server/backend/receipts"
	"github.com/yorkie-team/revisor/server/backend/settings"
	"github.com/yorkie-team/revisor/server/logging"
	"github.com/yorkie-team/revisor/server/profiling"
)

var (
	gracefulTimeout = 10 * time.Second
)

var (
	flagLogFormat string

	profilingPort        int
	profilingMetricsPath string
	enablePprof          bool

	incomingWindow     time.Duration
	outgoingWindow     time.Duration
	messageLockTimeout time.Duration

	mongoConnectionURI    string
	postgresConnectionURI string
	redisURL              string
	kafkaAddresses        string
	kafkaTopic            string

	conf = server.NewConfig()
)

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server [options]",
		Short: "Start Revisor server",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf.Edits.IncomingWindow = incomingWindow.String()
			conf.Edits.OutgoingWindow = outgoingWindow.String()
			conf.Backend.MessageLockTimeout = messageLockTimeout.String()

			if profilingPort != 0 {
				conf.Profiling = &profiling.Config{
					Port:        profilingPort,
					MetricsPath: profilingMetricsPath,
					EnablePprof: enablePprof,
				}
			}
			if mongoConnectionURI != "" {
				conf.Mongo = &mongo.Config{
					ConnectionURI:     mongoConnectionURI,
					ConnectionTimeout: server.DefaultMongoConnectionTimeout.String(),
					PingTimeout:       server.DefaultMongoPingTimeout.String(),
					RevisorDatabase:   server.DefaultMongoRevisorDatabase,
					ThreadCacheSize:   server.DefaultMongoThreadCacheSize,
				}
			}
			if postgresConnectionURI != "" {
				conf.Postgres = &postgres.Config{
					ConnectionURI:     postgresConnectionURI,
					ConnectionTimeout: server.DefaultPostgresConnectionTimeout.String(),
					ConnMaxLifetime:   server.DefaultPostgresConnMaxLifetime.String(),
					MaxOpenConns:      server.DefaultPostgresMaxOpenConns,
					ThreadCacheSize:   server.DefaultPostgresThreadCacheSize,
				}
			}
			if redisURL != "" {
				conf.Redis = &settings.RedisConfig{
					URL:         redisURL,
					DialTimeout: server.DefaultRedisDialTimeout.String(),
				}
			}
			if kafkaAddresses != "" {
				conf.Kafka = &receipts.Config{
					Addresses:    kafkaAddresses,
					Topic:        kafkaTopic,
					WriteTimeout: server.DefaultKafkaWriteTimeout.String(),
				}
			}

			// If config file is given, command-line arguments will be overwritten.
			if path := viper.GetString("config"); path != "" {
				parsed, err := server.NewConfigFromFile(path)
				if err != nil {
					return err
				}
				conf = parsed
			}

			if err := logging.SetLogFormat(flagLogFormat); err != nil {
				return err
			}
			if err := logging.SetLogLevel(viper.GetString("log-level")); err != nil {
				return err
			}

			r, err := server.New(conf)
			if err != nil {
				return err
			}

			if err := r.Start(); err != nil {
				return err
			}

			if code := handleSignal(r); code != 0 {
				return fmt.Errorf("exit code: %d", code)
			}

			return nil
		},
	}
}

func handleSignal(r *server.Revisor) int {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	var sig os.Signal
	select {
	case s := <-sigCh:
		sig = s
	case <-r.ShutdownCh():
		return 0
	}

	graceful := false
	if sig == syscall.SIGINT || sig == syscall.SIGTERM {
		graceful = true
	}

	gracefulCh := make(chan struct{})
	go func() {
		if err := r.Shutdown(graceful); err != nil {
			return
		}
		close(gracefulCh)
	}()

	select {
	case <-sigCh:
		return 1
	case <-time.After(gracefulTimeout):
		return 1
	case <-gracefulCh:
		return 0
	}
}

func init() {
	cmd := newServerCmd()
	cmd.Flags().StringVar(
		&flagLogFormat,
		"log-format",
		"console",
		"Log format: console, json",
	)
	cmd.Flags().IntVar(
		&profilingPort,
		"profiling-port",
		0,
		"Profiling port, the profiling server is disabled when 0",
	)
	cmd.Flags().StringVar(
		&profilingMetricsPath,
		"profiling-metrics-path",
		profiling.DefaultMetricsPath,
		"Path the metrics are served on",
	)
	cmd.Flags().BoolVar(
		&enablePprof,
		"enable-pprof",
		false,
		"Enable runtime profiling data via HTTP server.",
	)
	cmd.Flags().BoolVar(
		&conf.Edits.SendEnabled,
		"edit-send-enabled",
		server.DefaultEditSendEnabled,
		"Whether the local user may edit sent messages",
	)
	cmd.Flags().DurationVar(
		&incomingWindow,
		"edit-incoming-window",
		server.DefaultEditIncomingWindow,
		"How long after the original server timestamp an incoming edit is accepted",
	)
	cmd.Flags().IntVar(
		&conf.Edits.IncomingLimit,
		"edit-incoming-limit",
		server.DefaultEditIncomingLimit,
		"Number of incoming edits accepted per message",
	)
	cmd.Flags().DurationVar(
		&outgoingWindow,
		"edit-outgoing-window",
		server.DefaultEditOutgoingWindow,
		"How long after sending the local user may edit a message",
	)
	cmd.Flags().IntVar(
		&conf.Edits.OutgoingLimit,
		"edit-outgoing-limit",
		server.DefaultEditOutgoingLimit,
		"Number of edits the local user may make per message",
	)
	cmd.Flags().DurationVar(
		&messageLockTimeout,
		"message-lock-timeout",
		server.DefaultMessageLockTimeout,
		"How long an edit waits for a concurrent edit of the same message",
	)
	cmd.Flags().StringVar(
		&conf.Backend.Hostname,
		"hostname",
		server.DefaultHostname,
		"Hostname of the server, defaults to the hostname of the machine",
	)
	cmd.Flags().StringVar(
		&mongoConnectionURI,
		"mongo-connection-uri",
		"",
		"MongoDB's connection URI",
	)
	cmd.Flags().StringVar(
		&postgresConnectionURI,
		"postgres-connection-uri",
		"",
		"PostgreSQL's connection URI, preferred over MongoDB",
	)
	cmd.Flags().StringVar(
		&redisURL,
		"redis-url",
		"",
		"Redis URL of the settings store",
	)
	cmd.Flags().StringVar(
		&kafkaAddresses,
		"kafka-addresses",
		"",
		"Comma separated Kafka addresses read receipts are written to",
	)
	cmd.Flags().StringVar(
		&kafkaTopic,
		"kafka-topic",
		server.DefaultKafkaTopic,
		"Kafka topic of read receipts",
	)
	rootCmd.AddCommand(cmd)
}
