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

package receipts

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// KafkaDispatcher is a producer of read receipts for Kafka.
type KafkaDispatcher struct {
	writer *kafka.Writer
}

// newKafkaDispatcher creates a new instance of KafkaDispatcher.
func newKafkaDispatcher(conf *Config) *KafkaDispatcher {
	return &KafkaDispatcher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(conf.SplitAddresses()...),
			Topic:        conf.Topic,
			WriteTimeout: conf.MustParseWriteTimeout(),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Dispatch writes the receipts to Kafka in one batch. Receipts are keyed by
// thread so the receipts of one thread keep their order.
func (d *KafkaDispatcher) Dispatch(ctx context.Context, receipts ...ReadReceipt) error {
	if len(receipts) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(receipts))
	for _, receipt := range receipts {
		value, err := receipt.Marshal()
		if err != nil {
			return fmt.Errorf("marshal receipt: %w", err)
		}

		messages = append(messages, kafka.Message{
			Key:   []byte(receipt.ThreadID.String()),
			Value: value,
		})
	}

	if err := d.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("write receipts to kafka: %w", err)
	}

	return nil
}

// Close closes the KafkaDispatcher.
func (d *KafkaDispatcher) Close() error {
	if err := d.writer.Close(); err != nil {
		return fmt.Errorf("close kafka writer: %w", err)
	}

	return nil
}
