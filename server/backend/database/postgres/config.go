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

package postgres

import (
	"fmt"
	"os"
	"time"
)

// Config is the configuration for creating a Client instance.
type Config struct {
	ConnectionURI     string `yaml:"ConnectionURI"`
	ConnectionTimeout string `yaml:"ConnectionTimeout"`
	ConnMaxLifetime   string `yaml:"ConnMaxLifetime"`
	MaxOpenConns      int    `yaml:"MaxOpenConns"`
	ThreadCacheSize   int    `yaml:"ThreadCacheSize"`
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if c.ConnectionURI == "" {
		return fmt.Errorf(`invalid argument "" for "--postgres-connection-uri" flag: must not be empty`)
	}

	if _, err := time.ParseDuration(c.ConnectionTimeout); err != nil {
		return fmt.Errorf(
			`invalid argument "%s" for "--postgres-connection-timeout" flag: %w`,
			c.ConnectionTimeout,
			err,
		)
	}

	if _, err := time.ParseDuration(c.ConnMaxLifetime); err != nil {
		return fmt.Errorf(
			`invalid argument "%s" for "--postgres-conn-max-lifetime" flag: %w`,
			c.ConnMaxLifetime,
			err,
		)
	}

	if c.MaxOpenConns <= 0 {
		return fmt.Errorf(
			`invalid argument "%d" for "--postgres-max-open-conns" flag: must be positive`,
			c.MaxOpenConns,
		)
	}

	if c.ThreadCacheSize <= 0 {
		return fmt.Errorf(
			`invalid argument "%d" for "--postgres-thread-cache-size" flag: must be positive`,
			c.ThreadCacheSize,
		)
	}

	return nil
}

// ParseConnectionTimeout returns connection timeout duration.
func (c *Config) ParseConnectionTimeout() time.Duration {
	result, err := time.ParseDuration(c.ConnectionTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse connection timeout: %v\n", err)
		os.Exit(1)
	}

	return result
}

// ParseConnMaxLifetime returns the maximum lifetime of a pooled connection.
func (c *Config) ParseConnMaxLifetime() time.Duration {
	result, err := time.ParseDuration(c.ConnMaxLifetime)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse conn max lifetime: %v\n", err)
		os.Exit(1)
	}

	return result
}
