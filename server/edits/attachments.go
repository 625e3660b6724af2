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
	"github.com/yorkie-team/revisor/api/types"
	"github.com/yorkie-team/revisor/server/backend/database"
)

// reconcileAttachments returns the attachments of the edited message. Media
// of the original carries forward unchanged. The oversize text of the edit
// replaces the prior one, and an edit without oversize text drops it since
// the edit replaces the whole body.
func reconcileAttachments(original *database.MessageInfo, oversize *types.Attachment) []*types.Attachment {
	var attachments []*types.Attachment
	for _, a := range original.BodyAttachments() {
		attachments = append(attachments, a.DeepCopy())
	}

	if oversize != nil {
		text := oversize.DeepCopy()
		text.Kind = types.AttachmentKindOversizeText
		attachments = append(attachments, text)
	}

	return attachments
}

// reconcileQuote returns the quote of the edited message. An edit can keep or
// clear the quote but never introduce one.
func reconcileQuote(quote *types.Quote, hasQuote bool) *types.Quote {
	if !hasQuote {
		return nil
	}
	return quote.DeepCopy()
}
