package pipeline

import (
	"bufio"
	"fmt"
	"io"

	"github.com/matzehuels/macroscout/pkg/integrations/crates"
)

// WriteMatches writes one "<downloads> <name>" line per candidate, in the
// order given.
func WriteMatches(w io.Writer, matches []crates.Candidate) error {
	bw := bufio.NewWriter(w)
	for _, c := range matches {
		if _, err := fmt.Fprintf(bw, "%d %s\n", c.Downloads, c.Name); err != nil {
			return err
		}
	}
	return bw.Flush()
}
