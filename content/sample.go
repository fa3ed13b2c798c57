// @lixen: #focus{corpus[sample,reservoir]}
package content

import (
	"fmt"

	"github.com/lixenwraith/verse-saver/core"
)

// Sample draws one record uniformly at random in a single pass over src.
// Reservoir of capacity 1: the k-th record replaces the candidate with probability 1/k.
func Sample(src Source, rng core.Rand) (string, error) {
	var (
		candidate string
		seen      int
	)

	for {
		record, ok := src.Next()
		if !ok {
			break
		}
		seen++
		if rng.IntN(seen) == 0 {
			candidate = record
		}
	}

	if err := src.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCorpusUnavailable, err)
	}
	if seen == 0 {
		return "", ErrCorpusEmpty
	}
	return candidate, nil
}

// SampleFile opens path and samples one record from it
func SampleFile(path string, rng core.Rand) (string, error) {
	src, err := Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	return Sample(src, rng)
}
