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
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/server/backend/database"
)

var (
	threadGroupID    string
	threadNoteToSelf bool
	messageAuthor    string
)

func newThreadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "thread",
		Short: "Create a thread",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := open()
			if err != nil {
				return err
			}
			defer func() {
				_ = r.Shutdown(true)
			}()

			thread, err := r.Edits().CreateThread(context.Background(), types.ID(threadGroupID), threadNoteToSelf)
			if err != nil {
				return err
			}

			if ok, err := printStructured(thread); ok {
				return err
			}
			cmd.Printf("%s\n", thread.ID)
			return nil
		},
	}
}

func newMessageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "message [thread id] [body]",
		Short: "Store a sent message, or a received one with --author",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("thread id and body are required")
			}

			r, err := open()
			if err != nil {
				return err
			}
			defer func() {
				_ = r.Shutdown(true)
			}()

			now := time.Now().UnixMilli()
			msg := &database.MessageInfo{
				ThreadID:  types.ID(args[0]),
				Direction: types.DirectionOutgoing,
				Timestamp: now,
				Body:      args[1],
				Read:      true,
			}
			if messageAuthor != "" {
				msg.Direction = types.DirectionIncoming
				msg.AuthorID = messageAuthor
				msg.ServerTimestamp = now
				msg.Read = false
			}

			info, err := r.Edits().InsertMessage(context.Background(), msg)
			if err != nil {
				return err
			}

			if ok, err := printStructured(info); ok {
				return err
			}
			printMessages(cmd, info)
			return nil
		},
	}
}

func printMessages(cmd *cobra.Command, msgs ...*database.MessageInfo) {
	tw := table.NewWriter()
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.SeparateFooter = false
	tw.Style().Options.SeparateHeader = false
	tw.Style().Options.SeparateRows = false
	tw.AppendHeader(table.Row{
		"ID",
		"TIMESTAMP",
		"REVISION",
		"DIRECTION",
		"STATE",
		"EDITS",
		"BODY",
	})
	for _, msg := range msgs {
		tw.AppendRow(table.Row{
			msg.ID,
			msg.Timestamp,
			msg.RevisionTimestamp,
			msg.Direction,
			msg.EditState,
			msg.EditCount,
			msg.Body,
		})
	}
	cmd.Printf("%s\n", tw.Render())
}

func init() {
	threadCmd := newThreadCmd()
	threadCmd.Flags().StringVar(
		&threadGroupID,
		"group",
		"",
		"Group of the thread",
	)
	threadCmd.Flags().BoolVar(
		&threadNoteToSelf,
		"note-to-self",
		false,
		"Whether the thread is the note to self thread",
	)
	rootCmd.AddCommand(threadCmd)

	messageCmd := newMessageCmd()
	messageCmd.Flags().StringVar(
		&messageAuthor,
		"author",
		"",
		"Remote author of a received message",
	)
	rootCmd.AddCommand(messageCmd)
}
