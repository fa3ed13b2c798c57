// Package content reads verse corpora and draws random records from them.
//
// Every source yields records in the canonical line form
// "book|chapter|verse|text", regardless of the on-disk format, so the verse
// package parses all of them the same way.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrCorpusUnavailable is returned when the corpus cannot be opened or read as a corpus
	ErrCorpusUnavailable = errors.New("corpus unavailable")
	// ErrCorpusEmpty is returned when the corpus holds no records
	ErrCorpusEmpty = errors.New("corpus empty")
)

// Separator delimits the fields of a canonical record
const Separator = "|"

// Source streams corpus records in file order
type Source interface {
	// Next returns the next record, false at end of corpus or on error
	Next() (string, bool)
	// Err reports the first read error, if any
	Err() error
	Close() error
}

// Format identifies the on-disk corpus layout
type Format uint8

const (
	FormatText Format = iota
	FormatXZ
	FormatSQLite
	FormatZefania
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatXZ:
		return "xz"
	case FormatSQLite:
		return "sqlite"
	case FormatZefania:
		return "zefania"
	default:
		return "unknown"
	}
}

// DetectFormat picks the corpus format from the file extension, text being the fallback
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz":
		return FormatXZ
	case ".sqlite", ".sqlite3", ".db", ".bbl":
		return FormatSQLite
	case ".xml":
		return FormatZefania
	default:
		return FormatText
	}
}

// Open opens the corpus at path with the reader matching its extension
func Open(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorpusUnavailable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrCorpusUnavailable, path)
	}

	switch DetectFormat(path) {
	case FormatXZ:
		return openXZ(path)
	case FormatSQLite:
		return openSQLite(path)
	case FormatZefania:
		return openZefania(path)
	default:
		return openText(path)
	}
}

// Record joins fields into the canonical record form
func Record(book, chapter, verse, text string) string {
	return strings.Join([]string{book, chapter, verse, text}, Separator)
}
