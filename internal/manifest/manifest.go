// Package manifest defines the instruction list handed from the home side
// to the offsite side through the removable medium.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bamsammich/sneaker/internal/platform"
)

// ErrCorrupt is returned by Load when the manifest cannot be decoded.
var ErrCorrupt = errors.New("manifest corrupt")

// Action is the kind of change an Instruction applies.
type Action string

const (
	Copy   Action = "COPY"
	Move   Action = "MOVE"
	Delete Action = "DELETE"
)

// Instruction is one change to the offsite tree. Paths are relative and use
// platform separators.
type Instruction struct {
	Action      Action
	Source      string
	Destination string // empty for DELETE
	SizeBytes   int64  // COPY only
}

// NewCopy returns a COPY of relPath onto itself.
func NewCopy(relPath string, size int64) Instruction {
	return Instruction{Action: Copy, Source: relPath, Destination: relPath, SizeBytes: size}
}

// NewMove returns a MOVE from src to dst.
func NewMove(src, dst string) Instruction {
	return Instruction{Action: Move, Source: src, Destination: dst}
}

// NewDelete returns a DELETE of relPath.
func NewDelete(relPath string) Instruction {
	return Instruction{Action: Delete, Source: relPath}
}

// SizeInfo is the human-readable size column shown next to an instruction.
func (in Instruction) SizeInfo() string {
	if in.Action != Copy {
		return "-"
	}
	return fmt.Sprintf("%.2f MB", float64(in.SizeBytes)/1024/1024)
}

// Validate checks that the instruction is well formed and that every path
// stays inside the tree it will be applied to.
func (in Instruction) Validate() error {
	switch in.Action {
	case Copy, Move:
		if err := checkRelPath(in.Destination); err != nil {
			return fmt.Errorf("%s destination: %w", in.Action, err)
		}
	case Delete:
	default:
		return fmt.Errorf("unknown action %q", in.Action)
	}
	if err := checkRelPath(in.Source); err != nil {
		return fmt.Errorf("%s source: %w", in.Action, err)
	}
	if in.Action == Copy && in.Source != in.Destination {
		return fmt.Errorf("COPY source %q differs from destination %q", in.Source, in.Destination)
	}
	return nil
}

func (in Instruction) String() string {
	if in.Action == Move {
		return fmt.Sprintf("%s %s -> %s", in.Action, in.Source, in.Destination)
	}
	return fmt.Sprintf("%s %s", in.Action, in.Source)
}

func checkRelPath(p string) error {
	if p == "" {
		return errors.New("empty path")
	}
	if filepath.IsAbs(p) || filepath.VolumeName(p) != "" || strings.HasPrefix(filepath.ToSlash(p), "/") {
		return fmt.Errorf("absolute path %q", p)
	}
	clean := filepath.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %q escapes the tree", p)
	}
	return nil
}

// Counts tallies instructions per action.
func Counts(list []Instruction) (copies, moves, deletes int) {
	for _, in := range list {
		switch in.Action {
		case Copy:
			copies++
		case Move:
			moves++
		case Delete:
			deletes++
		}
	}
	return copies, moves, deletes
}

// TotalBytes sums the payload size of all COPY instructions.
func TotalBytes(list []Instruction) int64 {
	var n int64
	for _, in := range list {
		if in.Action == Copy {
			n += in.SizeBytes
		}
	}
	return n
}

// wireInstruction is the on-medium JSON shape.
type wireInstruction struct {
	Action       string `json:"Action"`
	Source       string `json:"Source"`
	Destination  string `json:"Destination,omitempty"`
	SizeInfo     string `json:"SizeInfo"`
	RawSizeBytes int64  `json:"RawSizeBytes"`
}

// Load reads a manifest file. A missing file yields an empty list; an
// undecodable one yields ErrCorrupt.
func Load(path string) ([]Instruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var wire []wireInstruction
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	list := make([]Instruction, len(wire))
	for i, w := range wire {
		list[i] = Instruction{
			Action:      Action(strings.ToUpper(strings.TrimSpace(w.Action))),
			Source:      filepath.FromSlash(w.Source),
			Destination: filepath.FromSlash(w.Destination),
			SizeBytes:   w.RawSizeBytes,
		}
	}
	return list, nil
}

// Save replaces the manifest file at path with list.
func Save(path string, list []Instruction) error {
	wire := make([]wireInstruction, len(list))
	for i, in := range list {
		wire[i] = wireInstruction{
			Action:       string(in.Action),
			Source:       filepath.ToSlash(in.Source),
			Destination:  filepath.ToSlash(in.Destination),
			SizeInfo:     in.SizeInfo(),
			RawSizeBytes: in.SizeBytes,
		}
	}

	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := platform.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
