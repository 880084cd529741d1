// Copyright 2018 Ewout Prangsma
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Author Ewout Prangsma
//

package logging

import (
	"context"
	"sync/atomic"
)

// Publisher delivers a JSON encoded message into a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg interface{}) error
}

const (
	// DefaultMQTTQueueSize is the number of log lines buffered by an MQTTWriter.
	DefaultMQTTQueueSize = 512
)

// MQTTWriter is a log output that publishes every log line into an MQTT topic.
// Writes never block: when the queue is full the oldest line is dropped.
type MQTTWriter struct {
	topic     string
	publisher Publisher
	lines     chan []byte
	dropped   atomic.Int64
}

// LogLine is the message published for a single log line.
type LogLine struct {
	Message string `json:"message"`
	// Number of lines dropped before this one
	Dropped int64 `json:"dropped,omitempty"`
}

// NewMQTTWriter creates a writer for the given topic.
// Lines are published only while Run is active.
func NewMQTTWriter(topic string, publisher Publisher, queueSize int) *MQTTWriter {
	if queueSize <= 0 {
		queueSize = DefaultMQTTQueueSize
	}
	return &MQTTWriter{
		topic:     topic,
		publisher: publisher,
		lines:     make(chan []byte, queueSize),
	}
}

// Write queues a copy of the given line.
func (w *MQTTWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	// zerolog reuses its buffer
	line := append([]byte(nil), p...)
	for {
		select {
		case w.lines <- line:
			return len(p), nil
		default:
		}
		select {
		case <-w.lines:
			w.dropped.Add(1)
		default:
		}
	}
}

// Dropped returns the number of lines dropped since the last published line.
func (w *MQTTWriter) Dropped() int64 {
	return w.dropped.Load()
}

// Run publishes queued lines until the given context is canceled.
// Publication failures are ignored, they cannot be logged.
func (w *MQTTWriter) Run(ctx context.Context) error {
	for {
		select {
		case line := <-w.lines:
			w.publisher.Publish(ctx, w.topic, LogLine{
				Message: string(line),
				Dropped: w.dropped.Swap(0),
			})
		case <-ctx.Done():
			return nil
		}
	}
}
