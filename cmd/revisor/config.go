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
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/yorkie-team/revisor/server"
	"github.com/yorkie-team/revisor/server/logging"
)

// loadConfig returns the config at the configured path, or the defaults.
func loadConfig() (*server.Config, error) {
	if err := logging.SetLogLevel(viper.GetString("log-level")); err != nil {
		return nil, err
	}

	path := viper.GetString("config")
	if path == "" {
		return server.NewConfig(), nil
	}

	return server.NewConfigFromFile(path)
}

// open creates a Revisor on the configured storage. The caller shuts it down.
func open() (*server.Revisor, error) {
	conf, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return server.New(conf)
}

// validateOutput validates the output format option.
func validateOutput() error {
	output := viper.GetString("output")
	if output != "" && output != "yaml" && output != "json" {
		return errors.New(`--output must be 'yaml' or 'json'`)
	}

	return nil
}

// printStructured prints v in the requested output format. It returns false
// when the table output is requested.
func printStructured(v any) (bool, error) {
	switch viper.GetString("output") {
	case "yaml":
		marshalled, err := yaml.Marshal(v)
		if err != nil {
			return true, errors.New("failed to marshal YAML")
		}
		fmt.Println(string(marshalled))
		return true, nil
	case "json":
		marshalled, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, errors.New("failed to marshal JSON")
		}
		fmt.Println(string(marshalled))
		return true, nil
	}

	return false, nil
}

func parseInt64(name, value string) (int64, error) {
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return parsed, nil
}
