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

package backend

import (
	"fmt"
	"os"
	"time"
)

// Config is the configuration for creating a Backend instance.
type Config struct {
	// MessageLockTimeout is the longest an edit waits for a concurrent edit
	// of the same message in this process. Default is "10s".
	MessageLockTimeout string `yaml:"MessageLockTimeout"`

	// Hostname is the revisor server hostname. hostname is used by logs.
	Hostname string `yaml:"Hostname"`
}

// Validate validates this config.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.MessageLockTimeout); err != nil {
		return fmt.Errorf(
			`invalid argument "%s" for "--message-lock-timeout" flag: %w`,
			c.MessageLockTimeout,
			err,
		)
	}

	return nil
}

// ParseMessageLockTimeout returns the message lock timeout.
func (c *Config) ParseMessageLockTimeout() time.Duration {
	result, err := time.ParseDuration(c.MessageLockTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse message lock timeout: %v\n", err)
		os.Exit(1)
	}

	return result
}
