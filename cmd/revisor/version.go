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
	"runtime"

	"github.com/spf13/cobra"

	"github.com/yorkie-team/revisor/internal/version"
)

// VersionInfo is the version of this binary.
type VersionInfo struct {
	RevisorVersion string `json:"revisor_version" yaml:"revisor_version"`
	GoVersion      string `json:"go_version" yaml:"go_version"`
	BuildDate      string `json:"build_date" yaml:"build_date"`
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of Revisor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(); err != nil {
				return err
			}

			info := &VersionInfo{
				RevisorVersion: version.Version,
				GoVersion:      runtime.Version(),
				BuildDate:      version.BuildDate,
			}
			if ok, err := printStructured(info); ok {
				return err
			}

			cmd.Printf("Revisor: %s\n", info.RevisorVersion)
			cmd.Printf("Go: %s\n", info.GoVersion)
			cmd.Printf("Build Date: %s\n", info.BuildDate)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
