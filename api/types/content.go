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

package types

// Direction tells whether a message was received or sent by the local user.
type Direction string

const (
	// DirectionIncoming is a message authored by a remote participant.
	DirectionIncoming Direction = "incoming"

	// DirectionOutgoing is a message authored by the local user.
	DirectionOutgoing Direction = "outgoing"
)

// DeliveryStatus is the per-recipient delivery state of an outgoing message.
type DeliveryStatus string

const (
	// DeliverySending means the message has not been acknowledged yet.
	DeliverySending DeliveryStatus = "sending"

	// DeliverySent means the server accepted the message.
	DeliverySent DeliveryStatus = "sent"

	// DeliveryDelivered means the recipient device received the message.
	DeliveryDelivered DeliveryStatus = "delivered"

	// DeliveryRead means the recipient read the message.
	DeliveryRead DeliveryStatus = "read"

	// DeliveryFailed means sending failed.
	DeliveryFailed DeliveryStatus = "failed"
)

// AttachmentKind is the role an attachment plays in a message.
type AttachmentKind string

const (
	// AttachmentKindBody is a media attachment shown with the message.
	AttachmentKindBody AttachmentKind = "body"

	// AttachmentKindOversizeText holds the remainder of a body that exceeds
	// the inline size limit.
	AttachmentKindOversizeText AttachmentKind = "oversize_text"
)

// Attachment is a reference to attachment bytes stored elsewhere.
type Attachment struct {
	ID             ID             `bson:"id" json:"id" validate:"required,hexid"`
	Kind           AttachmentKind `bson:"kind" json:"kind" validate:"required,oneof=body oversize_text"`
	ContentType    string         `bson:"content_type" json:"content_type" validate:"required,content_type"`
	ByteCount      int64          `bson:"byte_count" json:"byte_count" validate:"gte=0"`
	IsVoiceMessage bool           `bson:"is_voice_message" json:"is_voice_message"`
}

// DeepCopy returns a deep copy of the Attachment.
func (a *Attachment) DeepCopy() *Attachment {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

// BodyRange is a styled or mention range in a message body.
type BodyRange struct {
	Start     int    `bson:"start" json:"start" validate:"gte=0"`
	Length    int    `bson:"length" json:"length" validate:"gt=0"`
	Style     string `bson:"style,omitempty" json:"style,omitempty"`
	MentionID string `bson:"mention_id,omitempty" json:"mention_id,omitempty"`
}

// Quote is a reference to another message quoted by a reply.
type Quote struct {
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
	AuthorID  string `bson:"author_id" json:"author_id"`
	Body      string `bson:"body" json:"body"`
}

// DeepCopy returns a deep copy of the Quote.
func (q *Quote) DeepCopy() *Quote {
	if q == nil {
		return nil
	}
	clone := *q
	return &clone
}

// LinkPreview is a built preview of a URL found in a message body.
type LinkPreview struct {
	URL               string `bson:"url" json:"url"`
	Title             string `bson:"title,omitempty" json:"title,omitempty"`
	Description       string `bson:"description,omitempty" json:"description,omitempty"`
	ImageAttachmentID ID     `bson:"image_attachment_id,omitempty" json:"image_attachment_id,omitempty"`
	Date              int64  `bson:"date,omitempty" json:"date,omitempty"`
}

// DeepCopy returns a deep copy of the LinkPreview.
func (p *LinkPreview) DeepCopy() *LinkPreview {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// LinkPreviewDraft is an unbuilt link preview as it arrives with an edit.
type LinkPreviewDraft struct {
	URL              string `json:"url" validate:"required,url"`
	Title            string `json:"title,omitempty"`
	Description      string `json:"description,omitempty"`
	ImageContentType string `json:"image_content_type,omitempty" validate:"omitempty,content_type"`
	Date             int64  `json:"date,omitempty"`
}

// ContactShare is a shared contact card.
type ContactShare struct {
	Name   string   `bson:"name" json:"name"`
	Phones []string `bson:"phones,omitempty" json:"phones,omitempty"`
}

// DeepCopy returns a deep copy of the ContactShare.
func (c *ContactShare) DeepCopy() *ContactShare {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Phones = append([]string(nil), c.Phones...)
	return &clone
}

// Sticker is a sticker sent as the whole content of a message.
type Sticker struct {
	PackID    string `bson:"pack_id" json:"pack_id"`
	StickerID int    `bson:"sticker_id" json:"sticker_id"`
}

// DeepCopy returns a deep copy of the Sticker.
func (s *Sticker) DeepCopy() *Sticker {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}
