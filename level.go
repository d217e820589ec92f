package lfslog

import (
	"fmt"
	"strings"
)

// Level represents log severity
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelWarn
	LevelError
)

// String returns the lower-case level name
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses a level name as printed by String
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelTrace, fmt.Errorf("unknown log level %q", s)
}
