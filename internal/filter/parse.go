package filter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadPatterns reads exclusion patterns from a file, one per line. Blank
// lines and lines starting with '#' are skipped.
func ReadPatterns(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open exclude file: %w", err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read exclude file %s: %w", path, err)
	}
	return patterns, nil
}

// LoadFile reads exclusion patterns from a file and adds them to the
// matcher.
func (m *Matcher) LoadFile(path string) error {
	patterns, err := ReadPatterns(path)
	if err != nil {
		return err
	}
	for i, p := range patterns {
		if err := m.Add(p); err != nil {
			return fmt.Errorf("exclude file %s pattern %d: %w", path, i+1, err)
		}
	}
	return nil
}
