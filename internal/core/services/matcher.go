package services

import (
	"fmt"
	"regexp"
	"strings"
)

// regexpPrefix and regexpIgnoreCasePrefix mark a pattern as a regular
// expression instead of a literal path prefix (§4.3).
const (
	regexpPrefix           = "regexp:"
	regexpIgnoreCasePrefix = "regexpIgnoreCase:"
)

// pattern is one compiled include/exclude entry.
type pattern struct {
	source string
	// literal is set for plain prefix patterns; re is set for regexp
	// patterns. Exactly one is non-empty/non-nil.
	literal string
	re      *regexp.Regexp
}

func (p pattern) matches(path string) bool {
	if p.re != nil {
		// regexp.MatchString on the whole string is single-line-safe: Go's
		// ^ and $ anchor to the start/end of the input, not to each
		// embedded line, unless the pattern itself sets (?m). We never set
		// it, so CR, LF, CRLF, NEL, LS, PS embedded in path cannot
		// terminate matching early.
		return p.re.MatchString(path)
	}
	return strings.HasPrefix(path, p.literal)
}

func compilePattern(s string) (pattern, error) {
	switch {
	case strings.HasPrefix(s, regexpIgnoreCasePrefix):
		expr := s[len(regexpIgnoreCasePrefix):]
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return pattern{}, fmt.Errorf("compile pattern %q: %w", s, err)
		}
		return pattern{source: s, re: re}, nil
	case strings.HasPrefix(s, regexpPrefix):
		expr := s[len(regexpPrefix):]
		re, err := regexp.Compile(expr)
		if err != nil {
			return pattern{}, fmt.Errorf("compile pattern %q: %w", s, err)
		}
		return pattern{source: s, re: re}, nil
	default:
		return pattern{source: s, literal: s}, nil
	}
}

// FilePatternMatcher implements the include/exclude admission filter (C3).
// A path is accepted iff at least one include pattern matches AND no
// exclude pattern matches.
type FilePatternMatcher struct {
	includes []pattern
	excludes []pattern
}

// NewFilePatternMatcher compiles includes and excludes. Each entry is
// either a literal path prefix or a regexp:/regexpIgnoreCase: pattern.
func NewFilePatternMatcher(includes, excludes []string) (*FilePatternMatcher, error) {
	m := &FilePatternMatcher{}
	for _, s := range includes {
		p, err := compilePattern(s)
		if err != nil {
			return nil, err
		}
		m.includes = append(m.includes, p)
	}
	for _, s := range excludes {
		p, err := compilePattern(s)
		if err != nil {
			return nil, err
		}
		m.excludes = append(m.excludes, p)
	}
	return m, nil
}

// Accept reports whether path is admitted by this matcher.
func (m *FilePatternMatcher) Accept(path string) bool {
	included := false
	for _, p := range m.includes {
		if p.matches(path) {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, p := range m.excludes {
		if p.matches(path) {
			return false
		}
	}
	return true
}
