// Package cratetest provides an in-memory crates.io double for tests.
package cratetest

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// File is one file packed into a crate archive.
type File struct {
	Name    string
	Content string
}

// Archive packs files into a gzip-compressed tar, in order.
func Archive(t testing.TB, files ...File) []byte {
	t.Helper()

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for _, f := range files {
		hdr := &tar.Header{Name: f.Name, Mode: 0o644, Size: int64(len(f.Content)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(f.Content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// Manifest returns a crate archive containing only a Cargo.toml with the
// given body under the conventional "<name>-<version>/" prefix.
func Manifest(t testing.TB, name, version, body string) []byte {
	t.Helper()
	root := name + "-" + version + "/"
	return Archive(t,
		File{Name: root + "Cargo.toml.orig", Content: body},
		File{Name: root + "src/lib.rs", Content: "// generated\n"},
		File{Name: root + "Cargo.toml", Content: body},
	)
}

// ProcMacro returns a crate archive whose manifest sets lib.proc-macro.
func ProcMacro(t testing.TB, name, version string, flag bool) []byte {
	t.Helper()
	body := fmt.Sprintf("[package]\nname = %q\nversion = %q\n\n[lib]\nproc-macro = %t\n", name, version, flag)
	return Manifest(t, name, version, body)
}

// Crate describes one crate served by a [Registry].
type Crate struct {
	Name      string
	Version   string
	Downloads int64
	Archive   []byte // .crate payload; served as-is

	MetadataStatus int // non-zero: answer the metadata endpoint with this status
	DownloadStatus int // non-zero: answer the download endpoint with this status
}

// Registry is an httptest server speaking the subset of the crates.io API
// used by macroscout.
type Registry struct {
	*httptest.Server

	mu       sync.Mutex
	anchor   string
	crates   []Crate
	requests map[string]int

	// ReverseStatus, when non-zero, is returned by the reverse
	// dependencies endpoint.
	ReverseStatus int
}

// NewRegistry starts a registry whose reverse dependencies of anchor are
// crates, in the given order. The server is closed when the test ends.
func NewRegistry(t testing.TB, anchor string, crates ...Crate) *Registry {
	t.Helper()
	r := &Registry{anchor: anchor, crates: crates, requests: map[string]int{}}
	r.Server = httptest.NewServer(http.HandlerFunc(r.serve))
	t.Cleanup(r.Close)
	return r
}

// APIURL is the base URL of the JSON API.
func (r *Registry) APIURL() string { return r.URL + "/api/v1" }

// DownloadURL is the host that download paths are relative to.
func (r *Registry) DownloadURL() string { return r.URL }

// Requests returns how often path was requested.
func (r *Registry) Requests(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests[path]
}

func (r *Registry) serve(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.requests[req.URL.Path]++
	r.mu.Unlock()

	parts := strings.Split(strings.TrimPrefix(req.URL.Path, "/api/v1/crates/"), "/")
	switch {
	case !strings.HasPrefix(req.URL.Path, "/api/v1/crates/"):
		w.WriteHeader(http.StatusNotFound)
	case len(parts) == 2 && parts[1] == "reverse_dependencies":
		r.serveReverse(w, parts[0])
	case len(parts) == 1:
		r.serveCrate(w, parts[0])
	case len(parts) == 3 && parts[2] == "download":
		r.serveDownload(w, parts[0], parts[1])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (r *Registry) serveReverse(w http.ResponseWriter, anchor string) {
	if r.ReverseStatus != 0 {
		w.WriteHeader(r.ReverseStatus)
		return
	}
	if anchor != r.anchor {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	type version struct {
		ID        int64  `json:"id"`
		Crate     string `json:"crate"`
		Num       string `json:"num"`
		Downloads int64  `json:"downloads"`
	}
	resp := struct {
		Versions []version      `json:"versions"`
		Meta     map[string]int `json:"meta"`
	}{Meta: map[string]int{"total": len(r.crates)}}
	for i, c := range r.crates {
		resp.Versions = append(resp.Versions, version{ID: int64(i + 1), Crate: c.Name, Num: c.Version, Downloads: c.Downloads})
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (r *Registry) serveCrate(w http.ResponseWriter, name string) {
	c, id, ok := r.lookup(name)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if c.MetadataStatus != 0 {
		w.WriteHeader(c.MetadataStatus)
		return
	}

	// Include an older release to make sure the newest one is picked.
	fmt.Fprintf(w, `{
		"crate": {"name": %q, "versions": [%d, %d]},
		"versions": [
			{"id": %d, "num": "0.0.1", "dl_path": "/api/v1/crates/%s/0.0.1/download"},
			{"id": %d, "num": %q, "dl_path": "/api/v1/crates/%s/%s/download"}
		]
	}`, c.Name, 1000+id, 2000+id, 2000+id, c.Name, 1000+id, c.Version, c.Name, c.Version)
}

func (r *Registry) serveDownload(w http.ResponseWriter, name, version string) {
	c, _, ok := r.lookup(name)
	if !ok || version != c.Version {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if c.DownloadStatus != 0 {
		w.WriteHeader(c.DownloadStatus)
		return
	}
	w.Header().Set("Content-Type", "application/gzip")
	_, _ = w.Write(c.Archive)
}

func (r *Registry) lookup(name string) (Crate, int, bool) {
	for i, c := range r.crates {
		if c.Name == name {
			return c, i, true
		}
	}
	return Crate{}, 0, false
}
