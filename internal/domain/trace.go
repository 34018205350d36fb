package domain

import "sync"

// Invocation records one external call made during a turn.
type Invocation struct {
	Tool      string `json:"tool"`
	Args      string `json:"args,omitempty"`
	ResultTag string `json:"result"`
}

// Common result tags.
const (
	TagOK       = "ok"
	TagEmpty    = "empty"
	TagError    = "error"
	TagFallback = "fallback"
	TagDeferred = "deferred"
	TagRetry    = "retry"
)

// Trace is the append-only record of tool invocations for one turn. It is
// created per turn and passed through the stages rather than held globally;
// writes preserve order and readers take a snapshot after the turn completes.
type Trace struct {
	mu      sync.Mutex
	entries []Invocation
}

// Append records an invocation. Entries are never modified or removed.
func (t *Trace) Append(tool, args, resultTag string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Invocation{Tool: tool, Args: args, ResultTag: resultTag})
}

// Entries returns a copy of the recorded invocations in call order.
func (t *Trace) Entries() []Invocation {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Invocation, len(t.entries))
	copy(out, t.entries)
	return out
}

// Calls counts invocations of a given tool.
func (t *Trace) Calls(tool string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, e := range t.entries {
		if e.Tool == tool {
			n++
		}
	}
	return n
}
