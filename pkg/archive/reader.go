package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"iter"

	"github.com/klauspost/compress/gzip"

	macroerrors "github.com/matzehuels/macroscout/pkg/errors"
)

// Entry is a regular file inside an archive.
//
// An Entry's content is only readable until the next call to [Reader.Next];
// after that, reads return whatever the underlying tar stream yields for the
// following entry and must not be relied on.
type Entry struct {
	Name string // Path inside the archive (e.g., "serde-1.0.0/Cargo.toml")
	Size int64  // Uncompressed content size in bytes

	r io.Reader
}

// Read reads the entry's content. Corrupt data is reported as an
// ARCHIVE_FORMAT error; io.EOF marks the end of the entry.
func (e *Entry) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil && err != io.EOF {
		err = macroerrors.Wrap(macroerrors.ErrCodeArchiveFormat, err, "read entry %s", e.Name)
	}
	return n, err
}

// Reader walks the regular files of a gzip-compressed tar stream.
// It is not safe for concurrent use.
type Reader struct {
	gz  *gzip.Reader
	tar *tar.Reader
	err error
}

// NewReader starts decompressing r. The gzip header is validated
// immediately; tar headers are read lazily by [Reader.Next].
func NewReader(r io.Reader) (*Reader, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, macroerrors.Wrap(macroerrors.ErrCodeArchiveFormat, err, "open gzip stream")
	}
	return &Reader{gz: gz, tar: tar.NewReader(gz)}, nil
}

// Open is NewReader over an in-memory archive.
func Open(data []byte) (*Reader, error) {
	return NewReader(bytes.NewReader(data))
}

// Next advances to the next regular file and returns it.
// Directories, links and other non-file headers are skipped.
// At the end of the archive Next returns io.EOF; once Next has returned an
// error it keeps returning that error.
func (r *Reader) Next() (*Entry, error) {
	if r.err != nil {
		return nil, r.err
	}
	for {
		hdr, err := r.tar.Next()
		if errors.Is(err, io.EOF) {
			r.err = io.EOF
			return nil, io.EOF
		}
		if err != nil {
			r.err = macroerrors.Wrap(macroerrors.ErrCodeArchiveFormat, err, "read tar header")
			return nil, r.err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		return &Entry{Name: hdr.Name, Size: hdr.Size, r: r.tar}, nil
	}
}

// All returns an iterator over the remaining entries. Iteration stops after
// the first error, which is yielded with a nil entry; io.EOF is not yielded.
func (r *Reader) All() iter.Seq2[*Entry, error] {
	return func(yield func(*Entry, error) bool) {
		for {
			e, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(e, err) || err != nil {
				return
			}
		}
	}
}

// Close releases the decompressor. It does not close the underlying reader.
func (r *Reader) Close() error {
	return r.gz.Close()
}
