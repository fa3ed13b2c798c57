package content

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"

	"github.com/lixenwraith/verse-saver/core"
)

const genesis = "Genesis|1|1|In the beginning God created the heaven and the earth."

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"bible.txt", FormatText},
		{"bible", FormatText},
		{"bible.TXT.xz", FormatXZ},
		{"kjv.sqlite", FormatSQLite},
		{"kjv.db", FormatSQLite},
		{"kjv.bbl", FormatSQLite},
		{"kjv.xml", FormatZefania},
	}

	for _, tt := range tests {
		if got := DetectFormat(tt.path); got != tt.want {
			t.Errorf("DetectFormat(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSampleFile_SingleLine(t *testing.T) {
	path := writeFile(t, "bible.txt", genesis+"\n")
	rng := core.NewSeededRand(1)

	for i := 0; i < 20; i++ {
		got, err := SampleFile(path, rng)
		if err != nil {
			t.Fatalf("SampleFile failed: %v", err)
		}
		if got != genesis {
			t.Fatalf("SampleFile = %q, want %q", got, genesis)
		}
	}
}

func TestSampleFile_Missing(t *testing.T) {
	_, err := SampleFile(filepath.Join(t.TempDir(), "nope.txt"), core.NewSeededRand(1))
	if !errors.Is(err, ErrCorpusUnavailable) {
		t.Fatalf("Expected ErrCorpusUnavailable, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestSampleFile_Directory(t *testing.T) {
	_, err := SampleFile(t.TempDir(), core.NewSeededRand(1))
	if !errors.Is(err, ErrCorpusUnavailable) {
		t.Fatalf("Expected ErrCorpusUnavailable, got %v", err)
	}
}

func TestSampleFile_Empty(t *testing.T) {
	path := writeFile(t, "empty.txt", "")
	_, err := SampleFile(path, core.NewSeededRand(1))
	if !errors.Is(err, ErrCorpusEmpty) {
		t.Fatalf("Expected ErrCorpusEmpty, got %v", err)
	}
}

func TestSample_BlankLinesCount(t *testing.T) {
	// Blank lines are records too; a file of one blank line is not empty
	src := NewLineSource(strings.NewReader("\n"), nil)
	got, err := Sample(src, core.NewSeededRand(1))
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if got != "" {
		t.Errorf("Sample = %q, want empty record", got)
	}
}

func TestSample_Uniform(t *testing.T) {
	lines := []string{"a|1|1|one", "b|1|2|two", "c|1|3|three", "d|1|4|four", "e|1|5|five"}
	corpus := strings.Join(lines, "\n") + "\n"
	rng := core.NewSeededRand(42)

	const trials = 20000
	counts := make(map[string]int, len(lines))
	for i := 0; i < trials; i++ {
		got, err := Sample(NewLineSource(strings.NewReader(corpus), nil), rng)
		if err != nil {
			t.Fatalf("Sample failed: %v", err)
		}
		counts[got]++
	}

	expected := float64(trials) / float64(len(lines))
	var chi2 float64
	for _, line := range lines {
		d := float64(counts[line]) - expected
		chi2 += d * d / expected
	}
	// df=4: p=0.001 critical value is 18.47, allow generous slack
	if chi2 > 30 {
		t.Errorf("Distribution not uniform: chi2=%.2f counts=%v", chi2, counts)
	}
	if len(counts) != len(lines) {
		t.Errorf("Expected all %d lines sampled, got %v", len(lines), counts)
	}
}

type failingSource struct{ err error }

func (f *failingSource) Next() (string, bool) { return "", false }
func (f *failingSource) Err() error           { return f.err }
func (f *failingSource) Close() error         { return nil }

func TestSample_ReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := Sample(&failingSource{err: boom}, core.NewSeededRand(1))
	if !errors.Is(err, boom) || !errors.Is(err, ErrCorpusUnavailable) {
		t.Fatalf("Expected wrapped read error, got %v", err)
	}
}

func TestOpen_XZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bible.txt.xz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create: %v", err)
	}
	w, err := xz.NewWriter(f)
	if err != nil {
		t.Fatalf("xz.NewWriter failed: %v", err)
	}
	if _, err := w.Write([]byte(genesis + "\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("xz close failed: %v", err)
	}
	f.Close()

	got, err := SampleFile(path, core.NewSeededRand(1))
	if err != nil {
		t.Fatalf("SampleFile failed: %v", err)
	}
	if got != genesis {
		t.Errorf("SampleFile = %q, want %q", got, genesis)
	}
}

func TestOpen_XZCorrupt(t *testing.T) {
	path := writeFile(t, "bible.xz", "not an xz stream")
	_, err := Open(path)
	if !errors.Is(err, ErrCorpusUnavailable) {
		t.Fatalf("Expected ErrCorpusUnavailable, got %v", err)
	}
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kjv.sqlite")
	db, err := sql.Open(sqliteDriver, path)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	stmts := []string{
		`CREATE TABLE verses (id TEXT, book TEXT, chapter INTEGER, verse INTEGER, text TEXT)`,
		`INSERT INTO verses VALUES ('Gen.1.1', 'Genesis', 1, 1, 'In the beginning God created the heaven and the earth.')`,
		`INSERT INTO verses VALUES ('John.11.35', 'John', 11, 35, 'Jesus wept.')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Exec %q failed: %v", stmt, err)
		}
	}
	db.Close()

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	var records []string
	for {
		r, ok := src.Next()
		if !ok {
			break
		}
		records = append(records, r)
	}
	if err := src.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}

	want := []string{genesis, "John|11|35|Jesus wept."}
	if len(records) != len(want) {
		t.Fatalf("Got %d records, want %d: %v", len(records), len(want), records)
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("record %d = %q, want %q", i, records[i], want[i])
		}
	}
}

func TestSQLiteDSN_EscapesPath(t *testing.T) {
	got, err := sqliteDSN("/srv/bibles/kjv?v=2#draft%1.sqlite", "ro")
	if err != nil {
		t.Fatalf("sqliteDSN failed: %v", err)
	}
	want := "file:///srv/bibles/kjv%3Fv=2%23draft%251.sqlite?mode=ro"
	if got != want {
		t.Errorf("sqliteDSN = %q, want %q", got, want)
	}
}

func TestOpen_SQLiteAwkwardPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kjv?v=2#draft%1.sqlite")
	dsn, err := sqliteDSN(path, "rwc")
	if err != nil {
		t.Fatalf("sqliteDSN failed: %v", err)
	}
	db, err := sql.Open(sqliteDriver, dsn)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE verses (book TEXT, chapter INTEGER, verse INTEGER, text TEXT)`); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO verses VALUES ('John', 11, 35, 'Jesus wept.')`); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	db.Close()

	// The database must land at the literal path, not at a name cut short by '?' or '#'
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database not created at %q: %v", path, err)
	}

	record, err := SampleFile(path, core.NewSeededRand(1))
	if err != nil {
		t.Fatalf("SampleFile failed: %v", err)
	}
	if record != "John|11|35|Jesus wept." {
		t.Errorf("record = %q", record)
	}
}

func TestOpen_SQLiteWithoutVersesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open(sqliteDriver, path)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE meta (title TEXT)`); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	db.Close()

	_, err = Open(path)
	if !errors.Is(err, ErrCorpusUnavailable) {
		t.Fatalf("Expected ErrCorpusUnavailable, got %v", err)
	}
}

func TestOpen_Zefania(t *testing.T) {
	doc := `<?xml version="1.0" encoding="utf-8"?>
<XMLBIBLE biblename="KJV">
  <BIBLEBOOK bnumber="1" bname="Genesis">
    <CHAPTER cnumber="1">
      <VERS vnumber="1">In the beginning God created
        the heaven and the earth.</VERS>
      <VERS vnumber="2">And the earth was without form, and void.</VERS>
    </CHAPTER>
  </BIBLEBOOK>
</XMLBIBLE>`
	path := writeFile(t, "kjv.xml", doc)

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	first, ok := src.Next()
	if !ok {
		t.Fatal("Expected first verse")
	}
	if first != genesis {
		t.Errorf("first = %q, want %q", first, genesis)
	}
	second, ok := src.Next()
	if !ok || second != "Genesis|1|2|And the earth was without form, and void." {
		t.Errorf("second = %q (ok=%v)", second, ok)
	}
	if _, ok := src.Next(); ok {
		t.Error("Expected end of corpus")
	}
}
