package content

import (
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	sqliteDriver = "sqlite"
	verseQuery   = "SELECT book, chapter, verse, text FROM verses"
)

// sqliteSource streams rows of a verses(book, chapter, verse, text) table
type sqliteSource struct {
	db   *sql.DB
	rows *sql.Rows
	err  error
}

// sqliteDSN builds a file: URI for path; '?', '#' and '%' in the path are escaped
func sqliteDSN(path, mode string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: url.Values{"mode": {mode}}.Encode(),
	}
	return u.String(), nil
}

func openSQLite(path string) (Source, error) {
	dsn, err := sqliteDSN(path, "ro")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorpusUnavailable, err)
	}
	db, err := sql.Open(sqliteDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorpusUnavailable, err)
	}

	rows, err := db.Query(verseQuery)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: query verses in %s: %w", ErrCorpusUnavailable, path, err)
	}

	return &sqliteSource{db: db, rows: rows}, nil
}

func (s *sqliteSource) Next() (string, bool) {
	if s.err != nil || !s.rows.Next() {
		return "", false
	}

	var book, chapter, verse, text sql.NullString
	if err := s.rows.Scan(&book, &chapter, &verse, &text); err != nil {
		s.err = fmt.Errorf("scan verse row: %w", err)
		return "", false
	}
	return Record(book.String, chapter.String, verse.String, text.String), true
}

func (s *sqliteSource) Err() error {
	if s.err != nil {
		return s.err
	}
	if err := s.rows.Err(); err != nil {
		return fmt.Errorf("read verses: %w", err)
	}
	return nil
}

func (s *sqliteSource) Close() error {
	s.rows.Close()
	return s.db.Close()
}
