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
	"context"

	"github.com/yorkie-team/revisor/api/types"
)

// GroupResolver resolves the group context embedded in an incoming edit to
// the id of a local group thread.
type GroupResolver interface {
	ResolveGroupID(ctx context.Context, embedded types.ID) (types.ID, error)
}

// GroupResolverFunc is an adapter to use a function as a GroupResolver.
type GroupResolverFunc func(ctx context.Context, embedded types.ID) (types.ID, error)

// ResolveGroupID calls f(ctx, embedded).
func (f GroupResolverFunc) ResolveGroupID(ctx context.Context, embedded types.ID) (types.ID, error) {
	return f(ctx, embedded)
}

// identityGroupResolver treats embedded group ids as local group ids.
type identityGroupResolver struct{}

func (identityGroupResolver) ResolveGroupID(_ context.Context, embedded types.ID) (types.ID, error) {
	return embedded, nil
}

// LinkPreviewBuilder builds the link preview of an edit from its draft. It may
// fetch the page and its image, so it runs before the edit transaction.
type LinkPreviewBuilder interface {
	BuildLinkPreview(ctx context.Context, draft *types.LinkPreviewDraft) (*types.LinkPreview, error)
}

// LinkPreviewBuilderFunc is an adapter to use a function as a
// LinkPreviewBuilder.
type LinkPreviewBuilderFunc func(ctx context.Context, draft *types.LinkPreviewDraft) (*types.LinkPreview, error)

// BuildLinkPreview calls f(ctx, draft).
func (f LinkPreviewBuilderFunc) BuildLinkPreview(
	ctx context.Context,
	draft *types.LinkPreviewDraft,
) (*types.LinkPreview, error) {
	return f(ctx, draft)
}

// draftLinkPreviewBuilder keeps the text of drafts and drops their images.
type draftLinkPreviewBuilder struct{}

func (draftLinkPreviewBuilder) BuildLinkPreview(
	_ context.Context,
	draft *types.LinkPreviewDraft,
) (*types.LinkPreview, error) {
	return &types.LinkPreview{
		URL:         draft.URL,
		Title:       draft.Title,
		Description: draft.Description,
		Date:        draft.Date,
	}, nil
}
