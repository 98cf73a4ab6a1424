package manifest

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"testing"

	"github.com/matzehuels/macroscout/pkg/archive"
	macroerrors "github.com/matzehuels/macroscout/pkg/errors"
)

type entry struct{ name, content string }

func crateArchive(t *testing.T, entries ...entry) *archive.Reader {
	t.Helper()

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for _, e := range entries {
		if err := tw.WriteHeader(&tar.Header{Name: e.name, Mode: 0o644, Size: int64(len(e.content)), Typeflag: tar.TypeReg}); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(e.content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := archive.Open(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestLocate_Absent(t *testing.T) {
	r := crateArchive(t,
		entry{"demo-0.1.0/src/lib.rs", "fn main() {}"},
		entry{"demo-0.1.0/Cargo.toml.orig", "[lib]\nproc-macro = true\n"},
		entry{"demo-0.1.0/cargo.toml", "[lib]\nproc-macro = true\n"},
	)

	_, ok, err := Locate(r, Filename)
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if ok {
		t.Error("Locate() found a manifest in an archive without one")
	}
}

func TestLocate_ProcMacro(t *testing.T) {
	r := crateArchive(t,
		entry{"demo-0.1.0/src/lib.rs", "fn main() {}"},
		entry{"demo-0.1.0/Cargo.toml", "[lib]\nproc-macro = true"},
	)

	m, ok, err := Locate(r, Filename)
	if err != nil || !ok {
		t.Fatalf("Locate() = %v, %v", ok, err)
	}
	if !IsProcMacro(m) {
		t.Error("IsProcMacro() = false, want true")
	}
}

func TestLocate_StopsAtFirstMatch(t *testing.T) {
	r := crateArchive(t,
		entry{"demo-0.1.0/Cargo.toml", "[package]\nname = \"first\"\n"},
		entry{"demo-0.1.0/nested/Cargo.toml", "not = [valid"},
		entry{"demo-0.1.0/tail.txt", "tail"},
	)

	m, ok, err := Locate(r, Filename)
	if err != nil || !ok {
		t.Fatalf("Locate() = %v, %v", ok, err)
	}
	if name, _ := PackageID(m); name != "first" {
		t.Errorf("package name = %q, want first", name)
	}

	next, err := r.Next()
	if err != nil {
		t.Fatalf("Next() after Locate: %v", err)
	}
	if next.Name != "demo-0.1.0/nested/Cargo.toml" {
		t.Errorf("Locate consumed past the first match; next entry = %s", next.Name)
	}
}

func TestLocate_ManifestNotLast(t *testing.T) {
	r := crateArchive(t,
		entry{"demo-0.1.0/Cargo.toml", "[lib]\nproc-macro = true\n"},
		entry{"demo-0.1.0/Cargo.lock", "version = 3\n"},
		entry{"demo-0.1.0/src/lib.rs", ""},
	)

	m, ok, err := Locate(r, Filename)
	if err != nil || !ok || !IsProcMacro(m) {
		t.Errorf("Locate() = %v, %v; IsProcMacro = %v", ok, err, IsProcMacro(m))
	}
}

func TestLocate_ParseError(t *testing.T) {
	r := crateArchive(t,
		entry{"demo-0.1.0/Cargo.toml", "[lib\nproc-macro = true\n"},
		entry{"demo-0.1.0/other/Cargo.toml", "[lib]\nproc-macro = true\n"},
	)

	_, ok, err := Locate(r, Filename)
	if ok {
		t.Error("Locate() ok = true on unparsable manifest")
	}
	if !macroerrors.Is(err, macroerrors.ErrCodeManifestParse) {
		t.Errorf("got %v, want MANIFEST_PARSE", err)
	}
}

type failingReader struct{ err error }

func (f failingReader) Next() (*archive.Entry, error) { return nil, f.err }

func TestLocate_ArchiveErrorPassesThrough(t *testing.T) {
	want := macroerrors.New(macroerrors.ErrCodeArchiveFormat, "bad header")

	_, ok, err := Locate(failingReader{err: want}, Filename)
	if ok {
		t.Error("ok = true on archive error")
	}
	if !errors.Is(err, want) {
		t.Errorf("got %v, want %v", err, want)
	}
	if macroerrors.Is(err, macroerrors.ErrCodeManifestParse) {
		t.Error("archive errors must not be reported as MANIFEST_PARSE")
	}
}

func TestLocate_EmptyArchive(t *testing.T) {
	_, ok, err := Locate(failingReader{err: io.EOF}, Filename)
	if ok || err != nil {
		t.Errorf("Locate() = %v, %v; want false, nil", ok, err)
	}
}
