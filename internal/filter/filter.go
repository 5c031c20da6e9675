// Package filter decides which relative paths of a home tree are in scope
// for synchronization.
package filter

import (
	"path/filepath"
	"strings"
)

// Matcher holds a set of exclusion rules. A nil or empty Matcher excludes
// nothing.
type Matcher struct {
	rules []*compiledPattern
}

// New compiles patterns into a Matcher. Patterns are trimmed and blank
// patterns are ignored.
func New(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range patterns {
		if err := m.Add(p); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add compiles one more exclusion pattern. Blank patterns are ignored.
func (m *Matcher) Add(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return nil
	}
	cp, err := compilePattern(pattern)
	if err != nil {
		return err
	}
	m.rules = append(m.rules, cp)
	return nil
}

// Empty reports whether the matcher has no rules.
func (m *Matcher) Empty() bool {
	return m == nil || len(m.rules) == 0
}

// Patterns returns the original pattern strings in the order they were added.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.rules))
	for i, r := range m.rules {
		out[i] = r.original
	}
	return out
}

// Excluded reports whether relPath is out of scope. relPath is relative to
// the scanned root and may use either platform or '/' separators. isDir
// reports whether relPath itself names a directory.
func (m *Matcher) Excluded(relPath string, isDir bool) bool {
	if m.Empty() {
		return false
	}
	p := strings.Trim(filepath.ToSlash(relPath), "/")
	if p == "" || p == "." {
		return false
	}
	for _, rule := range m.rules {
		if rule.match(p, isDir) {
			return true
		}
	}
	return false
}
