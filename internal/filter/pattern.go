package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// compiledPattern is a compiled exclusion glob.
type compiledPattern struct {
	re       *regexp.Regexp
	original string
	dirOnly  bool // pattern ends with a separator
	pathwise bool // pattern names a path from the root instead of a single name
}

// compilePattern converts an exclusion glob into a case-insensitive,
// fully anchored matcher. Both '/' and '\' act as separators.
func compilePattern(pattern string) (*compiledPattern, error) {
	cp := &compiledPattern{original: pattern}

	p := strings.ReplaceAll(strings.TrimSpace(pattern), `\`, "/")

	// Trailing separator scopes the rule to directories.
	if strings.HasSuffix(p, "/") {
		cp.dirOnly = true
		p = strings.TrimRight(p, "/")
	}

	// Leading separator anchors to the root; so does any inner separator.
	if strings.HasPrefix(p, "/") {
		cp.pathwise = true
		p = strings.TrimLeft(p, "/")
	}
	if strings.Contains(p, "/") {
		cp.pathwise = true
	}

	if p == "" {
		return nil, fmt.Errorf("empty pattern %q", pattern)
	}

	re, err := regexp.Compile("(?i)^" + globToRegex(p) + "$")
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	cp.re = re
	return cp, nil
}

// match reports whether the pattern covers relPath. relPath uses '/'
// separators; isDir reports whether relPath itself is a directory.
//
// A name pattern is tested against every segment, a path pattern against
// every leading prefix of segments, so a matching directory covers
// everything beneath it. Directory-scoped patterns never test the final
// segment of a file.
func (cp *compiledPattern) match(relPath string, isDir bool) bool {
	segments := strings.Split(relPath, "/")
	limit := len(segments)
	if cp.dirOnly && !isDir {
		limit--
	}

	for i := range limit {
		candidate := segments[i]
		if cp.pathwise {
			candidate = strings.Join(segments[:i+1], "/")
		}
		if cp.re.MatchString(candidate) {
			return true
		}
	}
	return false
}

// globToRegex converts a glob pattern to a regex string. Only '*', '?'
// and '**' are special; everything else is literal.
func globToRegex(pattern string) string {
	var b strings.Builder
	i := 0
	for i < len(pattern) {
		c := pattern[i]
		switch c {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				// ** spans directories
				if i+2 < len(pattern) && pattern[i+2] == '/' {
					b.WriteString("(.*/)?")
					i += 3
				} else {
					b.WriteString(".*")
					i += 2
				}
			} else {
				b.WriteString("[^/]*")
				i++
			}
		case '?':
			b.WriteString("[^/]")
			i++
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
			i++
		}
	}
	return b.String()
}
