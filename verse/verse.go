// Package verse selects a random verse from a corpus and formats it for display
package verse

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lixenwraith/verse-saver/content"
	"github.com/lixenwraith/verse-saver/core"
)

const entryFields = 4

var (
	// ErrMalformedEntry is returned when the chosen record has fewer than four fields
	ErrMalformedEntry = errors.New("malformed verse entry")
	// ErrInvalidLineLength is returned for a non-positive wrap width
	ErrInvalidLineLength = errors.New("line length must be positive")
)

// EntryError carries the record that failed to parse
type EntryError struct {
	Line   string
	Fields int
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("malformed verse entry: %d field(s) in %q, want %d", e.Fields, e.Line, entryFields)
}

func (e *EntryError) Unwrap() error {
	return ErrMalformedEntry
}

// Entry is one corpus record
type Entry struct {
	Book    string
	Chapter string
	Verse   string
	Text    string
}

// ParseEntry splits a "book|chapter|verse|text" record, trimming each field.
// Fields past the fourth are dropped, so a '|' inside the text truncates it.
func ParseEntry(line string) (Entry, error) {
	fields := strings.Split(line, content.Separator)
	if len(fields) < entryFields {
		return Entry{}, &EntryError{Line: line, Fields: len(fields)}
	}

	return Entry{
		Book:    strings.TrimSpace(fields[0]),
		Chapter: strings.TrimSpace(fields[1]),
		Verse:   strings.TrimSpace(fields[2]),
		Text:    strings.TrimSpace(fields[3]),
	}, nil
}

// Reference returns "<book> <chapter>:<verse>"
func (e Entry) Reference() string {
	return e.Book + " " + e.Chapter + ":" + e.Verse
}

// Compose returns the display string "[<reference>] <text>"
func (e Entry) Compose() string {
	return "[" + e.Reference() + "] " + e.Text
}

// Formatted is a verse wrapped into display lines; it is never modified after Select builds it
type Formatted struct {
	Entry Entry
	lines []string
}

// NewFormatted wraps entry to lineLength
func NewFormatted(entry Entry, lineLength int) Formatted {
	return Formatted{Entry: entry, lines: Wrap(entry.Compose(), lineLength)}
}

// Lines returns a copy of the wrapped lines
func (f Formatted) Lines() []string {
	out := make([]string, len(f.lines))
	copy(out, f.lines)
	return out
}

// Len returns the number of wrapped lines
func (f Formatted) Len() int { return len(f.lines) }

// String joins the wrapped lines for plain text output
func (f Formatted) String() string {
	return strings.Join(f.lines, "\n")
}

// Wrap breaks text into lines on word boundaries.
//
// The per-line budget counts word characters only: the single space written
// after every word (including the last one on a line) is not charged, so a
// line may be lineLength+words characters long in total. A line is broken
// before a word that would push the count over lineLength, unless the line is
// still empty; a word longer than lineLength therefore sits alone on its line.
// At least one line is always returned.
func Wrap(text string, lineLength int) []string {
	var (
		lines []string
		b     strings.Builder
		count int
	)

	for _, word := range strings.Fields(text) {
		n := utf8.RuneCountInString(word)
		if count > 0 && count+n > lineLength {
			lines = append(lines, b.String())
			b.Reset()
			count = 0
		}
		count += n
		b.WriteString(word)
		b.WriteByte(' ')
	}

	if b.Len() > 0 || len(lines) == 0 {
		lines = append(lines, b.String())
	}
	return lines
}

// Select samples one record from src and formats it.
// A malformed pick is an error; the corpus is not re-sampled.
func Select(src content.Source, lineLength int, rng core.Rand) (Formatted, error) {
	if lineLength <= 0 {
		return Formatted{}, fmt.Errorf("%w: %d", ErrInvalidLineLength, lineLength)
	}

	record, err := content.Sample(src, rng)
	if err != nil {
		return Formatted{}, err
	}

	entry, err := ParseEntry(record)
	if err != nil {
		return Formatted{}, err
	}
	return NewFormatted(entry, lineLength), nil
}

// SelectFile opens the corpus at path and selects one verse from it
func SelectFile(path string, lineLength int, rng core.Rand) (Formatted, error) {
	if lineLength <= 0 {
		return Formatted{}, fmt.Errorf("%w: %d", ErrInvalidLineLength, lineLength)
	}

	src, err := content.Open(path)
	if err != nil {
		return Formatted{}, err
	}
	defer src.Close()

	return Select(src, lineLength, rng)
}
