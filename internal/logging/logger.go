// Package logging provides leveled logging and attribution tracing for stylo.
//
// Operational output goes to a leveled slog.Logger on stderr. At debug level
// and below, every attribution is also appended to a JSONL decision log
// (.stylo/decisions.jsonl) so a result can be traced back to the scores
// that produced it.
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LevelTrace sits below Debug. At this level decision events carry the
// full candidate ranking rather than just the winner.
const LevelTrace = slog.LevelDebug - 4

// DecisionsFile is the name of the decision log inside the data directory.
const DecisionsFile = "decisions.jsonl"

// ParseLevel maps "info", "debug" or "trace" (any case) to a slog.Level.
// Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled text logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Candidate is one scored reference in an attribution event.
type Candidate struct {
	Author string  `json:"author"`
	Score  float64 `json:"score"`
	Source string  `json:"source,omitempty"`
}

// Attribution describes one author attribution for the decision log.
type Attribution struct {
	Mystery     string
	Winner      string
	Score       float64
	Fingerprint string
	Candidates  []Candidate
}

// DecisionLogger appends decision events to a JSONL file. It is safe for
// concurrent use, and every method is a no-op on a nil receiver.
type DecisionLogger struct {
	mu    sync.Mutex
	file  *os.File
	trace bool
}

// NewDecisionLogger opens dir/decisions.jsonl for append. At info level it
// returns nil and creates nothing. It also returns nil if the file cannot be
// opened, since tracing must never block an attribution.
func NewDecisionLogger(dir string, level string) *DecisionLogger {
	lvl := ParseLevel(level)
	if lvl == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	f, err := os.OpenFile(filepath.Join(dir, DecisionsFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &DecisionLogger{file: f, trace: lvl <= LevelTrace}
}

// Log writes event as one JSONL line with a "time" field added. The
// caller's map is left untouched.
func (dl *DecisionLogger) Log(event map[string]any) {
	if dl == nil || dl.file == nil {
		return
	}

	entry := make(map[string]any, len(event)+1)
	for k, v := range event {
		entry[k] = v
	}
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	dl.mu.Lock()
	defer dl.mu.Unlock()

	if dl.file == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = dl.file.Write(data)
}

// LogAttribution records an attribution under a fresh run id and returns
// that id. The ranking is included only at trace level. On a nil receiver
// nothing is written and the id is empty.
func (dl *DecisionLogger) LogAttribution(a Attribution) string {
	if dl == nil {
		return ""
	}

	runID := uuid.NewString()
	event := map[string]any{
		"event":       "attribution",
		"run_id":      runID,
		"mystery":     a.Mystery,
		"winner":      a.Winner,
		"score":       a.Score,
		"fingerprint": a.Fingerprint,
		"candidates":  len(a.Candidates),
	}
	if dl.trace {
		event["ranking"] = a.Candidates
	}
	dl.Log(event)
	return runID
}

// Close closes the underlying file.
func (dl *DecisionLogger) Close() {
	if dl == nil {
		return
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()

	if dl.file == nil {
		return
	}
	dl.file.Close()
	dl.file = nil
}
