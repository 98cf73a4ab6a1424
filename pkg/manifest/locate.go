package manifest

import (
	"io"
	"path"

	"github.com/matzehuels/macroscout/pkg/archive"
)

// EntryReader yields archive entries in order, returning io.EOF at the end.
// [*archive.Reader] implements it.
type EntryReader interface {
	Next() (*archive.Entry, error)
}

// Locate returns the parsed content of the first entry whose base name is
// exactly filename. The scan stops at that entry.
//
// If no entry matches, Locate returns ok=false and a nil error. Archive
// errors are returned unchanged; a matching entry that cannot be parsed
// yields a MANIFEST_PARSE error.
func Locate(r EntryReader, filename string) (Value, bool, error) {
	for {
		e, err := r.Next()
		if err == io.EOF {
			return Value{}, false, nil
		}
		if err != nil {
			return Value{}, false, err
		}
		if path.Base(e.Name) != filename {
			continue
		}

		data, err := io.ReadAll(e)
		if err != nil {
			return Value{}, false, err
		}
		m, err := Parse(data)
		if err != nil {
			return Value{}, false, err
		}
		return m, true, nil
	}
}
