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

package edits

import (
	"fmt"
	"time"
)

// Config is the edit policy.
type Config struct {
	// SendEnabled tells whether the local user may edit sent messages.
	SendEnabled bool `yaml:"SendEnabled"`

	// IncomingWindow is how long after the original server timestamp an
	// incoming edit is still accepted. Default is "48h".
	IncomingWindow string `yaml:"IncomingWindow"`

	// IncomingLimit is the number of incoming edits accepted per message.
	// Default is 100.
	IncomingLimit int `yaml:"IncomingLimit"`

	// OutgoingWindow is how long after sending the local user may edit a
	// message. Default is "24h".
	OutgoingWindow string `yaml:"OutgoingWindow"`

	// OutgoingLimit is the number of edits the local user may make per
	// message. Default is 10.
	OutgoingLimit int `yaml:"OutgoingLimit"`
}

// Validate validates this config.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.IncomingWindow); err != nil {
		return fmt.Errorf(
			`invalid argument "%s" for "--edit-incoming-window" flag: %w`,
			c.IncomingWindow,
			err,
		)
	}

	if _, err := time.ParseDuration(c.OutgoingWindow); err != nil {
		return fmt.Errorf(
			`invalid argument "%s" for "--edit-outgoing-window" flag: %w`,
			c.OutgoingWindow,
			err,
		)
	}

	if c.IncomingLimit <= 0 {
		return fmt.Errorf(
			`invalid argument "%d" for "--edit-incoming-limit" flag: must be positive`,
			c.IncomingLimit,
		)
	}

	if c.OutgoingLimit <= 0 {
		return fmt.Errorf(
			`invalid argument "%d" for "--edit-outgoing-limit" flag: must be positive`,
			c.OutgoingLimit,
		)
	}

	return nil
}

// ParseIncomingWindow returns the incoming edit window.
func (c *Config) ParseIncomingWindow() time.Duration {
	result, err := time.ParseDuration(c.IncomingWindow)
	if err != nil {
		return 0
	}
	return result
}

// ParseOutgoingWindow returns the outgoing edit window.
func (c *Config) ParseOutgoingWindow() time.Duration {
	result, err := time.ParseDuration(c.OutgoingWindow)
	if err != nil {
		return 0
	}
	return result
}
