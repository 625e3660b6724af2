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
	"context"
	"errors"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [message id]",
		Short: "Show the edit history of a message",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("message id is required")
			}
			if err := validateOutput(); err != nil {
				return err
			}

			id, err := parseInt64("message id", args[0])
			if err != nil {
				return err
			}

			r, err := open()
			if err != nil {
				return err
			}
			defer func() {
				_ = r.Shutdown(true)
			}()

			history, err := r.Edits().EditHistory(context.Background(), id)
			if err != nil {
				return err
			}

			if ok, err := printStructured(history); ok {
				return err
			}

			tw := table.NewWriter()
			tw.Style().Options.DrawBorder = false
			tw.Style().Options.SeparateColumns = false
			tw.Style().Options.SeparateFooter = false
			tw.Style().Options.SeparateHeader = false
			tw.Style().Options.SeparateRows = false
			tw.AppendHeader(table.Row{
				"ID",
				"REVISION",
				"STATE",
				"READ",
				"BODY",
			})
			tw.AppendRow(table.Row{
				history.Current.ID,
				history.Current.RevisionTimestamp,
				history.Current.EditState,
				history.Current.Read,
				history.Current.Body,
			})
			for _, rev := range history.Revisions {
				tw.AppendRow(table.Row{
					rev.Message.ID,
					rev.Message.RevisionTimestamp,
					rev.Message.EditState,
					rev.Record.Read,
					rev.Message.Body,
				})
			}
			cmd.Printf("%s\n", tw.Render())
			return nil
		},
	}
}

var revisionsOnly bool

func newMarkReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-read [message id]",
		Short: "Mark a message and its past revisions read",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("message id is required")
			}

			id, err := parseInt64("message id", args[0])
			if err != nil {
				return err
			}

			r, err := open()
			if err != nil {
				return err
			}
			defer func() {
				_ = r.Shutdown(true)
			}()

			ctx := context.Background()
			var dispatched int
			if revisionsOnly {
				dispatched, err = r.Edits().MarkEditRevisionsAsRead(ctx, id)
			} else {
				dispatched, err = r.Edits().MarkAsRead(ctx, id)
			}
			if err != nil {
				return err
			}

			cmd.Printf("%d read receipts dispatched\n", dispatched)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newHistoryCmd())

	cmd := newMarkReadCmd()
	cmd.Flags().BoolVar(
		&revisionsOnly,
		"revisions-only",
		false,
		"Mark only the past revisions read, as when the edit history is viewed",
	)
	rootCmd.AddCommand(cmd)
}
