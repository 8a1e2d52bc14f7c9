// Package events provides EventEmitter implementations.
package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"voicecat/internal/ports"
)

// Log writes every event to the logger at debug level.
type Log struct{ Logger *slog.Logger }

func (l Log) Emit(name string, payload any) {
	l.Logger.Debug("event", "name", name, "payload", payload)
}

// Envelope is the wire form of an event published to a queue.
type Envelope struct {
	Name    string    `json:"name"`
	Time    time.Time `json:"ts"`
	Payload any       `json:"payload"`
}

// Queue publishes events as JSON envelopes. Publishing is best effort;
// failures are logged and dropped.
type Queue struct {
	Publisher ports.MessagePublisher
	Name      string
	Logger    *slog.Logger
	now       func() time.Time
}

func NewQueue(pub ports.MessagePublisher, queue string, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{Publisher: pub, Name: queue, Logger: logger, now: time.Now}
}

func (q *Queue) Emit(name string, payload any) {
	b, err := json.Marshal(Envelope{Name: name, Time: q.now().UTC(), Payload: payload})
	if err != nil {
		q.Logger.Warn("event not serializable", "name", name, "error", err)
		return
	}
	if err := q.Publisher.Publish(q.Name, b); err != nil {
		q.Logger.Warn("event publish failed", "name", name, "queue", q.Name, "error", err)
	}
}

// Multi fans an event out to every emitter.
type Multi []ports.EventEmitter

func (m Multi) Emit(name string, payload any) {
	for _, e := range m {
		if e != nil {
			e.Emit(name, payload)
		}
	}
}
