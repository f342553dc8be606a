// Package wildcard implements case-insensitive shell-style pattern matching.
//
// Patterns support `*`, `?`, character classes (`[abc]`, `[!a-z]`) and
// alternation (`{foo,bar}`). Separators are not special: `*` matches any run
// of characters, including `/` and `#`, so that patterns can be applied to
// URIs directly.
package wildcard

import (
	"log/slog"

	"github.com/gobwas/glob"
	"golang.org/x/text/cases"

	lru "github.com/hashicorp/golang-lru/v2"
)

const cacheSize = 512

// Any is the absent pattern. It matches all text.
const Any = ""

var cache = mustNewCache()

// compiled holds a compiled pattern. A nil glob means the pattern could not be
// compiled and is compared literally instead.
type compiled struct {
	g glob.Glob
}

func mustNewCache() *lru.Cache[string, compiled] {
	c, err := lru.New[string, compiled](cacheSize)
	if err != nil {
		panic(err)
	}

	return c
}

// Match reports whether text matches pattern. An empty pattern ([Any]) always
// matches. Matching ignores case. An invalid pattern degrades to a
// case-insensitive literal comparison.
func Match(pattern, text string) bool {
	if pattern == Any {
		return true
	}

	p := fold(pattern)
	t := fold(text)

	c := compile(p)
	if c.g == nil {
		return p == t
	}

	return c.g.Match(t)
}

// Validate returns an error if pattern is not a valid wildcard pattern. Such
// patterns can still be used with [Match], where they are compared literally.
func Validate(pattern string) error {
	if pattern == Any {
		return nil
	}

	_, err := glob.Compile(fold(pattern))
	if err != nil {
		return err //nolint:wrapcheck // Return the original error.
	}

	return nil
}

func compile(pattern string) compiled {
	if c, ok := cache.Get(pattern); ok {
		return c
	}

	g, err := glob.Compile(pattern)
	if err != nil {
		slog.Debug("invalid wildcard pattern, using literal comparison",
			slog.String("pattern", pattern),
			slog.Any("err", err),
		)
	}

	c := compiled{g: g}
	cache.Add(pattern, c)

	return c
}

func fold(s string) string {
	return cases.Fold().String(s)
}
