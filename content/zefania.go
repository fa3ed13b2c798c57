package content

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
)

// zefaniaVerses selects every verse element of a Zefania XML bible
const zefaniaVerses = "//BIBLEBOOK/CHAPTER/VERS"

// zefaniaSource walks the VERS elements of a parsed Zefania document in document order
type zefaniaSource struct {
	nodes []*xmlquery.Node
	pos   int
}

func openZefania(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorpusUnavailable, err)
	}
	defer f.Close()

	doc, err := xmlquery.Parse(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrCorpusUnavailable, path, err)
	}

	nodes, err := xmlquery.QueryAll(doc, zefaniaVerses)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", ErrCorpusUnavailable, path, err)
	}

	return &zefaniaSource{nodes: nodes}, nil
}

func (s *zefaniaSource) Next() (string, bool) {
	if s.pos >= len(s.nodes) {
		return "", false
	}
	n := s.nodes[s.pos]
	s.pos++

	var book, chapter string
	if ch := n.Parent; ch != nil {
		chapter = ch.SelectAttr("cnumber")
		if bk := ch.Parent; bk != nil {
			book = bk.SelectAttr("bname")
		}
	}
	// Verse text may be split across child markup; collapse it to one line
	text := strings.Join(strings.Fields(n.InnerText()), " ")

	return Record(book, chapter, n.SelectAttr("vnumber"), text), true
}

func (s *zefaniaSource) Err() error { return nil }

func (s *zefaniaSource) Close() error { return nil }
