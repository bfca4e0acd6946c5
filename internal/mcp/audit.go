package mcp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nvandessel/stylo/internal/config"
)

// AuditFile is the tool audit log name inside the data directory.
const AuditFile = "audit.jsonl"

// AuditEntry records one MCP tool invocation. It carries metadata only,
// never text content or full paths.
type AuditEntry struct {
	Timestamp  time.Time         `json:"timestamp"`
	Tool       string            `json:"tool"`
	DurationMs int64             `json:"duration_ms"`
	Status     string            `json:"status"` // "success" or "error"
	Error      string            `json:"error,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
}

// AuditLogger appends entries to <root>/.stylo/audit.jsonl. It is safe
// for concurrent use, and a nil AuditLogger ignores every call.
type AuditLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewAuditLogger opens the audit log under root. When the file cannot be
// opened a warning goes to stderr and nil is returned.
func NewAuditLogger(root string) *AuditLogger {
	dir := filepath.Join(root, config.DataDir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot create audit log directory %s: %v\n", dir, err)
		return nil
	}

	path := filepath.Join(dir, AuditFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot open audit log %s: %v\n", path, err)
		return nil
	}
	return &AuditLogger{file: f}
}

// Log appends entry as one JSON line.
func (a *AuditLogger) Log(entry AuditEntry) {
	if a == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return
	}
	_, _ = a.file.Write(data)
}

// Close closes the log file.
func (a *AuditLogger) Close() error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}

// sanitizeToolParams keeps the values of harmless parameters, records only
// the presence of ones that may identify files or people, and drops the
// rest. "_param_count" always reports how many parameters were given.
func sanitizeToolParams(params map[string]any) map[string]string {
	if params == nil {
		return nil
	}

	safeValue := map[string]bool{
		"use_library": true,
		"top":         true,
		"save":        true,
	}
	presenceOnly := map[string]bool{
		"path":   true,
		"url":    true,
		"author": true,
		"out":    true,
	}

	result := make(map[string]string)
	for key, val := range params {
		switch {
		case safeValue[key]:
			result[key] = fmt.Sprintf("%v", val)
		case presenceOnly[key]:
			if val != nil && fmt.Sprintf("%v", val) != "" {
				result[key] = "(set)"
			}
		}
	}
	result["_param_count"] = fmt.Sprintf("%d", len(params))
	return result
}

// auditTool records a finished tool call.
func (s *Server) auditTool(tool string, start time.Time, err error, params map[string]string) {
	status, msg := "success", ""
	if err != nil {
		status, msg = "error", err.Error()
	}
	s.auditLogger.Log(AuditEntry{
		Timestamp:  start,
		Tool:       tool,
		DurationMs: time.Since(start).Milliseconds(),
		Status:     status,
		Error:      msg,
		Params:     params,
	})
}
