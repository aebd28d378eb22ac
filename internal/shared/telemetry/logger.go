package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	outMu sync.Mutex
	out   io.Writer = os.Stdout
)

// SetOutput redirects log lines and returns a func that restores the previous writer.
func SetOutput(w io.Writer) (restore func()) {
	outMu.Lock()
	prev := out
	out = w
	outMu.Unlock()
	return func() {
		outMu.Lock()
		out = prev
		outMu.Unlock()
	}
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	write("info", msg, nil, fields)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	write("warn", msg, nil, fields)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	write("error", msg, nil, fields)
}

// Logger carries fields that are added to every line it writes.
type Logger struct {
	base map[string]any
}

// With returns a Logger that adds fields to every line.
func With(fields map[string]any) Logger {
	base := make(map[string]any, len(fields))
	for k, v := range fields {
		base[k] = v
	}
	return Logger{base: base}
}

func (l Logger) Info(msg string, fields map[string]any)  { write("info", msg, l.base, fields) }
func (l Logger) Warn(msg string, fields map[string]any)  { write("warn", msg, l.base, fields) }
func (l Logger) Error(msg string, fields map[string]any) { write("error", msg, l.base, fields) }

func write(level, msg string, base, fields map[string]any) {
	entry := make(map[string]any, len(base)+len(fields)+3)
	for k, v := range base {
		entry[k] = v
	}
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		entry[k] = v
	}
	entry["ts"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = level
	entry["msg"] = msg

	outMu.Lock()
	defer outMu.Unlock()
	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(out, `{"ts":"%s","level":"error","msg":"logger marshal failed","err":%q}`+"\n", time.Now().UTC().Format(time.RFC3339), err.Error())
		return
	}
	fmt.Fprintln(out, string(data))
}
