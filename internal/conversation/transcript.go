// Package conversation holds the in-memory chat transcript shared by a
// session.
package conversation

import "sync"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Transcript is an append-only message log. All methods are safe for
// concurrent use.
type Transcript struct {
	mu   sync.Mutex
	msgs []Message
}

func New() *Transcript {
	return &Transcript{}
}

func (t *Transcript) Append(role Role, content string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.msgs = append(t.msgs, Message{Role: role, Content: content})
}

// Reset drops every message.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.msgs = nil
}

// All returns a copy of the log in insertion order.
func (t *Transcript) All() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Message, len(t.msgs))
	copy(out, t.msgs)
	return out
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.msgs)
}
