package cache

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Matcher syntaxes accepted by MatcherFactory.
const (
	MatcherRegex  = "regex"
	MatcherGlob   = "glob"
	MatcherPrefix = "prefix"
)

// Matcher selects keys for bulk invalidation.
type Matcher interface {
	Match(key string) bool
}

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(key string) bool

// Match calls f(key).
func (f MatcherFunc) Match(key string) bool { return f(key) }

// RegexMatcher compiles pattern as a regular expression. Matching is a
// substring search: the pattern is not anchored unless it anchors itself, so
// "stocks:" matches "stocks:all" and "portfolio:stocks:positions".
func RegexMatcher(pattern string) (Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return MatcherFunc(re.MatchString), nil
}

// PrefixMatcher matches keys starting with prefix.
func PrefixMatcher(prefix string) Matcher {
	return MatcherFunc(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
}

// GlobMatcher matches whole keys against a path.Match pattern such as
// "stocks:*". Note that '*' does not cross '/' in keys.
func GlobMatcher(pattern string) (Matcher, error) {
	// Validate once so a bad pattern fails here instead of matching nothing.
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, err
	}
	return MatcherFunc(func(key string) bool {
		ok, _ := path.Match(pattern, key)
		return ok
	}), nil
}

// MatcherFactory returns the pattern compiler for a matcher syntax name. The
// empty name selects MatcherRegex.
func MatcherFactory(name string) (func(pattern string) (Matcher, error), error) {
	switch name {
	case "", MatcherRegex:
		return RegexMatcher, nil
	case MatcherGlob:
		return GlobMatcher, nil
	case MatcherPrefix:
		return func(prefix string) (Matcher, error) { return PrefixMatcher(prefix), nil }, nil
	default:
		return nil, fmt.Errorf("unknown matcher %q (want %q, %q or %q)", name, MatcherRegex, MatcherGlob, MatcherPrefix)
	}
}
