// Package event describes the progress notifications emitted while the
// engine scans, stages and applies.
package event

import (
	"fmt"
	"log/slog"
)

// Type identifies the kind of event.
type Type int

const (
	Phase Type = iota + 1
	Copied
	Updated
	Moved
	Deleted
	Skipped
	Warning
	Failed
)

var typeNames = [...]string{
	Phase:   "Phase",
	Copied:  "Copied",
	Updated: "Updated",
	Moved:   "Moved",
	Deleted: "Deleted",
	Skipped: "Skipped",
	Warning: "Warning",
	Failed:  "Failed",
}

func (t Type) String() string {
	if int(t) > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event is a single progress notification.
type Event struct {
	Type   Type
	Op     string // what was attempted, e.g. "copying", "staging move"
	Path   string // relative path
	Dest   string // MOVE destination
	Size   int64
	Reason string // Skipped/Warning detail
	Error  error
}

// Message renders the event as a one-line human-readable string.
func (e Event) Message() string {
	switch e.Type {
	case Phase:
		return e.Op
	case Copied:
		return "Copied: " + e.Path
	case Updated:
		return "Updated: " + e.Path
	case Moved:
		return fmt.Sprintf("Moved: %s -> %s", e.Path, e.Dest)
	case Deleted:
		return "Deleted: " + e.Path
	case Skipped:
		return fmt.Sprintf("Skipped (%s): %s", e.Reason, e.Path)
	case Warning:
		return fmt.Sprintf("Warning: %s %s", e.Reason, e.Path)
	case Failed:
		return fmt.Sprintf("Error %s %s: %v", e.Op, e.Path, e.Error)
	default:
		return e.Path
	}
}

// Level is the slog level the event should be logged at.
func (e Event) Level() slog.Level {
	switch e.Type {
	case Phase:
		return slog.LevelInfo
	case Warning, Failed:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}

// Attrs returns the structured log attributes for the event.
func (e Event) Attrs() []slog.Attr {
	attrs := []slog.Attr{slog.String("type", e.Type.String())}
	if e.Path != "" {
		attrs = append(attrs, slog.String("path", e.Path))
	}
	if e.Dest != "" {
		attrs = append(attrs, slog.String("dest", e.Dest))
	}
	if e.Size > 0 {
		attrs = append(attrs, slog.Int64("size", e.Size))
	}
	if e.Error != nil {
		attrs = append(attrs, slog.String("error", e.Error.Error()))
	}
	return attrs
}
