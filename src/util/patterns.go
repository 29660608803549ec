package util

import (
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"

	"code-analyzer/src/config"
)

// ExclusionMatcher matches files, types and methods against exclusion patterns
type ExclusionMatcher struct {
	filePatterns   []string
	files          map[string]bool
	typePatterns   []*regexp.Regexp
	methodPatterns []*regexp.Regexp
}

// NewExclusionMatcher creates a new exclusion matcher from config.
// Invalid regular expressions are skipped with a warning.
func NewExclusionMatcher(cfg config.ExclusionsConfig) *ExclusionMatcher {
	m := &ExclusionMatcher{files: make(map[string]bool, len(cfg.Files))}

	for _, f := range cfg.Files {
		m.files[filepath.ToSlash(f)] = true
	}
	for _, p := range cfg.FilePatterns {
		if !doublestar.ValidatePattern(p) {
			Warn("Ignoring invalid file pattern %q", p)
			continue
		}
		m.filePatterns = append(m.filePatterns, p)
	}
	m.typePatterns = compileAll(cfg.TypePatterns)
	m.methodPatterns = compileAll(cfg.MethodPatterns)

	return m
}

func compileAll(patterns []string) []*regexp.Regexp {
	var out []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			Warn("Ignoring invalid pattern %q: %v", p, err)
			continue
		}
		out = append(out, re)
	}
	return out
}

// MatchesFile checks whether a slash-separated path relative to the scan root is excluded
func (m *ExclusionMatcher) MatchesFile(path string) bool {
	path = filepath.ToSlash(path)
	if m.files[path] {
		return true
	}
	for _, pattern := range m.filePatterns {
		if MatchGlob(pattern, path) {
			return true
		}
	}
	return false
}

// Matches checks if an entity should be excluded. Empty names are not matched.
func (m *ExclusionMatcher) Matches(filePath, typeName, methodName string) bool {
	if filePath != "" && m.MatchesFile(filePath) {
		return true
	}
	if typeName != "" {
		for _, re := range m.typePatterns {
			if re.MatchString(typeName) {
				return true
			}
		}
	}
	if methodName != "" {
		for _, re := range m.methodPatterns {
			if re.MatchString(methodName) {
				return true
			}
		}
	}
	return false
}

// MatchGlob matches a slash-separated path against a glob pattern with ** support
func MatchGlob(pattern, path string) bool {
	matched, err := doublestar.Match(pattern, filepath.ToSlash(path))
	return err == nil && matched
}
