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

package mongo

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config is the configuration for creating a Client instance.
type Config struct {
	ConnectionTimeout string `yaml:"ConnectionTimeout"`
	ConnectionURI     string `yaml:"ConnectionURI"`
	RevisorDatabase   string `yaml:"RevisorDatabase"`
	PingTimeout       string `yaml:"PingTimeout"`

	// ThreadCacheSize is the number of threads kept in the LRU cache of
	// the client. Threads are immutable once created.
	ThreadCacheSize int `yaml:"ThreadCacheSize"`
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.ConnectionURI, "mongodb://") &&
		!strings.HasPrefix(c.ConnectionURI, "mongodb+srv://") {
		return fmt.Errorf(
			`invalid argument "%s" for "--mongo-connection-uri" flag: must start with mongodb:// or mongodb+srv://`,
			c.ConnectionURI,
		)
	}

	for flag, value := range map[string]string{
		"--mongo-connection-timeout": c.ConnectionTimeout,
		"--mongo-ping-timeout":       c.PingTimeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf(`invalid argument "%s" for "%s" flag: %w`, value, flag, err)
		}
	}

	if c.RevisorDatabase == "" {
		return fmt.Errorf(`invalid argument "" for "--mongo-revisor-database" flag: must not be empty`)
	}

	if c.ThreadCacheSize <= 0 {
		return fmt.Errorf(
			`invalid argument "%d" for "--mongo-thread-cache-size" flag: must be positive`,
			c.ThreadCacheSize,
		)
	}

	return nil
}

// ParseConnectionTimeout returns the timeout of dialling MongoDB.
func (c *Config) ParseConnectionTimeout() time.Duration {
	return mustParseDuration("connection timeout", c.ConnectionTimeout)
}

// ParsePingTimeout returns the timeout of the ping issued after dialling.
func (c *Config) ParsePingTimeout() time.Duration {
	return mustParseDuration("ping timeout", c.PingTimeout)
}

// mustParseDuration exits the process on a value Validate would reject.
func mustParseDuration(name, value string) time.Duration {
	result, err := time.ParseDuration(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", name, err)
		os.Exit(1)
	}

	return result
}
