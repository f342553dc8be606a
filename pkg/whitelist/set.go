package whitelist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Kind identifies one of the registries in a [Set].
type Kind string

const (
	// KindTest excludes a (subject, test name) pair from failing the run.
	KindTest Kind = "test"
	// KindSymbol excludes an exported binary symbol from the symbol check.
	KindSymbol Kind = "symbol"
	// KindLibrary excludes a linked shared library from the library check.
	KindLibrary Kind = "library"
)

var (
	ErrUnknownKind = errors.New("unknown whitelist kind")
	ErrSyntax      = errors.New("syntax error")

	AllKinds = []string{
		string(KindTest),
		string(KindSymbol),
		string(KindLibrary),
	}
)

// Set groups the three independent whitelist registries.
type Set struct {
	Tests     *Registry
	Symbols   *Registry
	Libraries *Registry
}

// NewSet creates a new, empty [Set].
func NewSet() *Set {
	return &Set{
		Tests:     New(),
		Symbols:   New(),
		Libraries: New(),
	}
}

// Registry returns the registry for the given [Kind].
func (s *Set) Registry(k Kind) (*Registry, error) {
	switch k {
	case KindTest:
		return s.Tests, nil
	case KindSymbol:
		return s.Symbols, nil
	case KindLibrary:
		return s.Libraries, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
}

// Load reads whitelist entries from r and registers them.
//
// Each non-empty line has the form:
//
//	KIND [SUBJECT] PATTERN
//
// Where KIND is one of "test", "symbol" or "library". Words are split using
// shell quoting rules, and `#` starts a comment. A line that cannot be parsed
// is reported as an error, but entries registered before it are kept.
func (s *Set) Load(r io.Reader) error {
	parser := shellwords.NewParser()

	scanner := bufio.NewScanner(r)

	var lineNum int
	for scanner.Scan() {
		lineNum++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		words, err := parser.Parse(line)
		if err != nil {
			return fmt.Errorf("line %d: %w: %w", lineNum, ErrSyntax, err)
		}

		err = s.register(words)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	err := scanner.Err()
	if err != nil {
		return fmt.Errorf("read whitelist: %w", err)
	}

	return nil
}

func (s *Set) register(words []string) error {
	// Drop trailing comments.
	for i, w := range words {
		if strings.HasPrefix(w, "#") {
			words = words[:i]

			break
		}
	}

	var subject, pattern string

	switch len(words) {
	case 2:
		pattern = words[1]
	case 3:
		subject = words[1]
		pattern = words[2]
	default:
		return fmt.Errorf("%w: expected KIND [SUBJECT] PATTERN, got %d words", ErrSyntax, len(words))
	}

	reg, err := s.Registry(Kind(strings.ToLower(words[0])))
	if err != nil {
		return err
	}

	reg.Register(subject, pattern)

	return nil
}
