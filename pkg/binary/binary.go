// Package binary inspects plugin shared libraries.
package binary

import (
	"debug/elf"
	"errors"
	"fmt"
	"slices"
)

var ErrNotELF = errors.New("not an ELF file")

// File is an opened shared library.
type File struct {
	f    *elf.File
	path string
}

// Open opens the shared library at path.
func Open(path string) (*File, error) {
	f, err := elf.Open(path)
	if err != nil {
		var formatErr *elf.FormatError
		if errors.As(err, &formatErr) {
			return nil, fmt.Errorf("%s: %w: %w", path, ErrNotELF, err)
		}

		return nil, fmt.Errorf("open binary: %w", err)
	}

	return &File{f: f, path: path}, nil
}

// Path returns the path the file was opened from.
func (b *File) Path() string {
	return b.path
}

// Symbols returns the names of the global function and object symbols the
// library defines in its dynamic symbol table, sorted and deduplicated.
func (b *File) Symbols() ([]string, error) {
	syms, err := b.f.DynamicSymbols()
	if errors.Is(err, elf.ErrNoSymbols) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read dynamic symbols: %w", b.path, err)
	}

	var names []string

	for _, s := range syms {
		if s.Section == elf.SHN_UNDEF || s.Name == "" {
			continue
		}

		switch elf.ST_BIND(s.Info) {
		case elf.STB_GLOBAL, elf.STB_WEAK:
		default:
			continue
		}

		switch elf.ST_TYPE(s.Info) {
		case elf.STT_FUNC, elf.STT_OBJECT:
		default:
			continue
		}

		names = append(names, s.Name)
	}

	slices.Sort(names)

	return slices.Compact(names), nil
}

// Libraries returns the shared libraries the file links to (DT_NEEDED).
func (b *File) Libraries() ([]string, error) {
	libs, err := b.f.ImportedLibraries()
	if err != nil {
		return nil, fmt.Errorf("%s: read imported libraries: %w", b.path, err)
	}

	return libs, nil
}

// Close closes the file.
func (b *File) Close() error {
	err := b.f.Close()
	if err != nil {
		return fmt.Errorf("close binary: %w", err)
	}

	return nil
}
