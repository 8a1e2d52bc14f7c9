package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type recordingPublisher struct {
	queue string
	body  []byte
	err   error
}

func (r *recordingPublisher) Publish(queue string, body []byte) error {
	r.queue, r.body = queue, body
	return r.err
}

func TestQueueEmit(t *testing.T) {
	pub := &recordingPublisher{}
	q := NewQueue(pub, "events", nil)
	q.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	q.Emit("catalog.entry.created", map[string]any{"id": "e1"})

	if pub.queue != "events" {
		t.Errorf("queue = %q", pub.queue)
	}
	var env struct {
		Name    string            `json:"name"`
		Time    string            `json:"ts"`
		Payload map[string]string `json:"payload"`
	}
	if err := json.Unmarshal(pub.body, &env); err != nil {
		t.Fatal(err)
	}
	if env.Name != "catalog.entry.created" || env.Time != "2024-01-02T03:04:05Z" || env.Payload["id"] != "e1" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestQueueEmitLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	NewQueue(&recordingPublisher{err: errors.New("channel closed")}, "events", logger).Emit("job.progress", nil)
	NewQueue(&recordingPublisher{}, "events", logger).Emit("bad", func() {})
	out := buf.String()
	if !strings.Contains(out, "channel closed") || !strings.Contains(out, "event not serializable") {
		t.Errorf("log output = %q", out)
	}
}

type countEmitter struct{ n int }

func (c *countEmitter) Emit(string, any) { c.n++ }

func TestMulti(t *testing.T) {
	a, b := &countEmitter{}, &countEmitter{}
	Multi{a, nil, b}.Emit("x", nil)
	if a.n != 1 || b.n != 1 {
		t.Errorf("counts = %d, %d", a.n, b.n)
	}
}
