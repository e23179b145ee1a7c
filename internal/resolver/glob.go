package resolver

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// matcher holds the validated patterns of one rule.
type matcher struct {
	include []string
	exclude []string
}

func compileRule(index int, r Rule) (matcher, error) {
	if len(r.Files) == 0 {
		return matcher{}, &InvalidGlobError{
			Rule: index, Files: r.Files,
			Err: fmt.Errorf("%w: no file patterns", doublestar.ErrBadPattern),
		}
	}
	include, err := compilePatterns(index, r.Files, r.Files)
	if err != nil {
		return matcher{}, err
	}
	exclude, err := compilePatterns(index, r.Files, r.ExcludeFiles)
	if err != nil {
		return matcher{}, err
	}
	return matcher{include: include, exclude: exclude}, nil
}

func compilePatterns(index int, files, patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		np := normalizePattern(p)
		if np == "" || !doublestar.ValidatePattern(np) {
			return nil, &InvalidGlobError{Rule: index, Files: files, Pattern: p, Err: doublestar.ErrBadPattern}
		}
		out = append(out, np)
	}
	return out, nil
}

// match reports whether file (normalized) is selected by m. A pattern
// without a slash is matched against the base name only.
func (m matcher) match(file, base string) bool {
	return matchAny(m.include, file, base) && !matchAny(m.exclude, file, base)
}

func matchAny(patterns []string, file, base string) bool {
	for _, p := range patterns {
		target := file
		if !strings.Contains(p, "/") {
			target = base
		}
		// Patterns were validated at compile time, so Match cannot fail.
		if ok, _ := doublestar.Match(p, target); ok {
			return true
		}
	}
	return false
}

func normalizePattern(p string) string {
	p = strings.TrimSpace(p)
	p = strings.TrimPrefix(p, "./")
	return strings.TrimPrefix(p, "/")
}

// normalizePath converts file to a slash-separated, cleaned path without a
// leading "./".
func normalizePath(file string) string {
	return path.Clean(filepath.ToSlash(file))
}
