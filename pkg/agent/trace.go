package agent

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const traceBufferSize = 50

// TraceEvent records what one message processing run did, for the debug
// endpoint. Events live in a fixed-size ring; only the last 50 survive.
type TraceEvent struct {
	ID           string        `json:"id"`
	CharacterID  string        `json:"character_id"`
	UserID       string        `json:"user_id"`
	Intent       string        `json:"intent"`
	IntentSource string        `json:"intent_source"`
	NSFWLevel    int           `json:"nsfw_level"`
	Level        int           `json:"level"`
	PointsChange int           `json:"points_change"`
	Mood         string        `json:"mood"`
	ImageWanted  bool          `json:"image_wanted"`
	ImageURL     string        `json:"image_url,omitempty"`
	ReplySource  string        `json:"reply_source"`
	Took         time.Duration `json:"took_ns"`
	Timestamp    time.Time     `json:"timestamp"`
}

type traceBuffer struct {
	mu     sync.Mutex
	events []TraceEvent
	next   int
	filled bool
}

func newTraceBuffer() *traceBuffer {
	return &traceBuffer{events: make([]TraceEvent, traceBufferSize)}
}

func (b *traceBuffer) add(ev TraceEvent) string {
	ev.ID = uuid.NewString()
	ev.Timestamp = time.Now()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[b.next] = ev
	b.next = (b.next + 1) % traceBufferSize
	if b.next == 0 {
		b.filled = true
	}
	return ev.ID
}

// recent returns events newest first.
func (b *traceBuffer) recent() []TraceEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	size := b.next
	if b.filled {
		size = traceBufferSize
	}
	out := make([]TraceEvent, 0, size)
	for i := 0; i < size; i++ {
		idx := (b.next - 1 - i + traceBufferSize) % traceBufferSize
		out = append(out, b.events[idx])
	}
	return out
}
