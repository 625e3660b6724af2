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

	"github.com/spf13/cobra"

	"github.com/yorkie-team/revisor/api/types"
)

var (
	editKeepQuote       bool
	editAuthor          string
	editServerTimestamp int64
)

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [thread id] [sent timestamp] [body]",
		Short: "Edit a sent message, or apply a received edit with --author",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				return errors.New("thread id, sent timestamp and body are required")
			}

			targetTimestamp, err := parseInt64("sent timestamp", args[1])
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
			content := types.EditContent{Body: args[2], HasQuote: editKeepQuote}

			if editAuthor == "" {
				out, err := r.Edits().SendEdit(ctx, &types.LocalEdit{
					ThreadID:        types.ID(args[0]),
					TargetTimestamp: targetTimestamp,
					Content:         content,
				})
				if err != nil {
					return err
				}

				if ok, err := printStructured(out); ok {
					return err
				}
				printMessages(cmd, out.Message)
				return nil
			}

			now := time.Now().UnixMilli()
			serverTimestamp := editServerTimestamp
			if serverTimestamp == 0 {
				serverTimestamp = now
			}
			result, err := r.Edits().ProcessIncomingEdit(ctx, &types.IncomingEdit{
				ThreadID:        types.ID(args[0]),
				TargetTimestamp: targetTimestamp,
				AuthorID:        editAuthor,
				Content:         content,
				Timestamp:       now,
				ServerTimestamp: serverTimestamp,
			})
			if err != nil {
				return err
			}
			if result == nil {
				cmd.Printf("edit dropped\n")
				return nil
			}

			if ok, err := printStructured(result); ok {
				return err
			}
			printMessages(cmd, result.Current)
			return nil
		},
	}
}

func newCanEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "can-edit [thread id] [sent timestamp]",
		Short: "Check whether a sent message can be edited",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("thread id and sent timestamp are required")
			}

			targetTimestamp, err := parseInt64("sent timestamp", args[1])
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

			if err := r.Edits().ValidateCanSendEdit(context.Background(), types.ID(args[0]), targetTimestamp); err != nil {
				return err
			}

			cmd.Printf("editable\n")
			return nil
		},
	}
}

func init() {
	cmd := newEditCmd()
	cmd.Flags().BoolVar(
		&editKeepQuote,
		"keep-quote",
		false,
		"Keep the quote of the message",
	)
	cmd.Flags().StringVar(
		&editAuthor,
		"author",
		"",
		"Remote author of a received edit",
	)
	cmd.Flags().Int64Var(
		&editServerTimestamp,
		"server-timestamp",
		0,
		"Server timestamp of a received edit, defaults to now",
	)
	rootCmd.AddCommand(cmd)
	rootCmd.AddCommand(newCanEditCmd())
}
