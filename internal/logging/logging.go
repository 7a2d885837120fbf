// Package logging writes one JSON object per line, the format shared by the
// request logger, the migration runner and the upload services.
package logging

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Logger emits JSON log lines. The zero value is not usable; call New.
type Logger struct {
	mu        *sync.Mutex
	enc       *json.Encoder
	loc       *time.Location
	component string
}

// New returns a Logger writing to w with timestamps rendered in loc.
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{mu: &sync.Mutex{}, enc: json.NewEncoder(w), loc: loc}
}

// With returns a Logger that stamps every entry with the given component.
func (l *Logger) With(component string) *Logger {
	cp := *l
	cp.component = component
	return &cp
}

// Log writes data as-is after adding ts, level and component.
// level defaults to "error" when status is "error", "info" otherwise.
func (l *Logger) Log(data map[string]any) {
	data["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}
	if l.component != "" {
		if _, ok := data["component"]; !ok {
			data["component"] = l.component
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.enc.Encode(data)
}

// Info logs an event at info level.
func (l *Logger) Info(event string, fields map[string]any) {
	data := merge(fields)
	data["event"] = event
	data["level"] = "info"
	l.Log(data)
}

// Warn logs an event at warn level.
func (l *Logger) Warn(event string, fields map[string]any) {
	data := merge(fields)
	data["event"] = event
	data["level"] = "warn"
	l.Log(data)
}

// Error logs an event at error level with the error message attached.
func (l *Logger) Error(event string, err error, fields map[string]any) {
	data := merge(fields)
	data["event"] = event
	data["level"] = "error"
	if err != nil {
		data["error_message"] = err.Error()
	}
	l.Log(data)
}

func merge(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		out[k] = v
	}
	return out
}
