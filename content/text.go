package content

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

// maxLineSize bounds a single corpus line; whole chapters on one line still fit
const maxLineSize = 1 << 20

// lineSource yields every line of a text stream, blank lines included
type lineSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
}

// NewLineSource wraps an already open text stream, closing c on Close if non-nil
func NewLineSource(r io.Reader, c io.Closer) Source {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &lineSource{scanner: scanner, closer: c}
}

func (s *lineSource) Next() (string, bool) {
	if !s.scanner.Scan() {
		return "", false
	}
	return s.scanner.Text(), true
}

func (s *lineSource) Err() error {
	if err := s.scanner.Err(); err != nil {
		return fmt.Errorf("read corpus: %w", err)
	}
	return nil
}

func (s *lineSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func openText(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorpusUnavailable, err)
	}
	return NewLineSource(f, f), nil
}

func openXZ(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorpusUnavailable, err)
	}
	zr, err := xz.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: xz stream %s: %w", ErrCorpusUnavailable, path, err)
	}
	return NewLineSource(zr, f), nil
}
