// Package logger emits one JSON object per line so the entries can be
// shipped and queried without a parsing step.
package logger

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

type entry struct {
	Timestamp string                 `json:"ts"`
	Level     string                 `json:"level"`
	Message   string                 `json:"msg"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

var (
	stdout = log.New(os.Stdout, "", 0)
	stderr = log.New(os.Stderr, "", 0)
)

func emit(out *log.Logger, level, msg string, extra map[string]interface{}) {
	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Message:   msg,
		Extra:     extra,
	}
	data, _ := json.Marshal(e)
	out.Println(string(data))
}

func Info(msg string, extra map[string]interface{}) {
	emit(stdout, "info", msg, extra)
}

func Warn(msg string, extra map[string]interface{}) {
	emit(stdout, "warn", msg, extra)
}

// Error goes to stderr so supervisors that split streams keep failures
// visible even when stdout is sampled.
func Error(msg string, extra map[string]interface{}) {
	emit(stderr, "error", msg, extra)
}
