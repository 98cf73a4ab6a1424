package classify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/matzehuels/macroscout/internal/cratetest"
	macroerrors "github.com/matzehuels/macroscout/pkg/errors"
	"github.com/matzehuels/macroscout/pkg/integrations/crates"
)

func newClassifier(reg *cratetest.Registry) *Classifier {
	return New(crates.NewClient(crates.Config{APIURL: reg.APIURL(), DownloadURL: reg.DownloadURL()}))
}

func TestClassify(t *testing.T) {
	reg := cratetest.NewRegistry(t, "quote",
		cratetest.Crate{Name: "derive-it", Version: "1.2.0", Archive: cratetest.ProcMacro(t, "derive-it", "1.2.0", true)},
		cratetest.Crate{Name: "plain-lib", Version: "0.3.0", Archive: cratetest.ProcMacro(t, "plain-lib", "0.3.0", false)},
		cratetest.Crate{Name: "no-lib", Version: "0.1.0", Archive: cratetest.Manifest(t, "no-lib", "0.1.0", "[package]\nname = \"no-lib\"\n")},
		cratetest.Crate{Name: "lib-no-flag", Version: "0.1.0", Archive: cratetest.Manifest(t, "lib-no-flag", "0.1.0", "[lib]\nname = \"x\"\n")},
		cratetest.Crate{Name: "gone", Version: "1.0.0", MetadataStatus: http.StatusNotFound},
		cratetest.Crate{Name: "blocked", Version: "1.0.0", DownloadStatus: http.StatusForbidden},
		cratetest.Crate{Name: "garbage", Version: "1.0.0", Archive: []byte("this is not gzip")},
		cratetest.Crate{Name: "no-manifest", Version: "1.0.0", Archive: cratetest.Archive(t, cratetest.File{Name: "no-manifest-1.0.0/src/lib.rs"})},
		cratetest.Crate{Name: "bad-toml", Version: "1.0.0", Archive: cratetest.Manifest(t, "bad-toml", "1.0.0", "[lib\nproc-macro = true")},
	)
	c := newClassifier(reg)

	tests := []struct {
		crate      string
		wantMatch  bool
		wantReason macroerrors.Code // empty: classified
	}{
		{"derive-it", true, ""},
		{"plain-lib", false, ""},
		{"no-lib", false, ""},
		{"lib-no-flag", false, ""},
		{"gone", false, macroerrors.ErrCodeRegistry},
		{"blocked", false, macroerrors.ErrCodeRegistry},
		{"garbage", false, macroerrors.ErrCodeArchiveFormat},
		{"no-manifest", false, macroerrors.ErrCodeManifestNotFound},
		{"bad-toml", false, macroerrors.ErrCodeManifestParse},
	}

	for _, tt := range tests {
		t.Run(tt.crate, func(t *testing.T) {
			got := c.Classify(context.Background(), tt.crate)

			if got.Match() != tt.wantMatch {
				t.Errorf("Match() = %v, want %v (%s)", got.Match(), tt.wantMatch, got)
			}
			if tt.wantReason == "" {
				if !got.IsClassified() {
					t.Errorf("unexpected reason: %v", got.Reason())
				}
				return
			}
			if got.IsClassified() {
				t.Fatalf("expected unclassifiable outcome, got %s", got)
			}
			if code := macroerrors.GetCode(got.Reason()); code != tt.wantReason {
				t.Errorf("reason code = %s, want %s (%v)", code, tt.wantReason, got.Reason())
			}
		})
	}
}

func TestClassify_RegistryErrorCarriesIdentity(t *testing.T) {
	reg := cratetest.NewRegistry(t, "quote",
		cratetest.Crate{Name: "blocked", Version: "1.0.0", DownloadStatus: http.StatusServiceUnavailable},
	)

	got := newClassifier(reg).Classify(context.Background(), "blocked")

	var re *macroerrors.RegistryError
	if !errors.As(got.Reason(), &re) {
		t.Fatalf("Reason() = %v, want RegistryError", got.Reason())
	}
	if re.Status != http.StatusServiceUnavailable || re.Identifier != "blocked" {
		t.Errorf("got %+v", re)
	}
}

func TestFetchManifest_UsesNewestRelease(t *testing.T) {
	reg := cratetest.NewRegistry(t, "quote",
		cratetest.Crate{Name: "demo", Version: "2.0.0", Archive: cratetest.ProcMacro(t, "demo", "2.0.0", true)},
	)

	m, rel, err := newClassifier(reg).FetchManifest(context.Background(), "demo")
	if err != nil {
		t.Fatalf("FetchManifest() error: %v", err)
	}
	if rel.Version != "2.0.0" {
		t.Errorf("release = %s, want 2.0.0", rel.Version)
	}
	if v := m.LookupString("", "package", "version"); v != "2.0.0" {
		t.Errorf("manifest version = %q", v)
	}
	if n := reg.Requests("/api/v1/crates/demo/0.0.1/download"); n != 0 {
		t.Errorf("old release downloaded %d times", n)
	}
}

type stubRegistry struct {
	rel  *crates.Release
	body string
	err  error
}

func (s stubRegistry) ResolveRelease(context.Context, string) (*crates.Release, error) {
	return s.rel, s.err
}

func (s stubRegistry) DownloadArchive(context.Context, string, *crates.Release) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func TestClassify_ResolveError(t *testing.T) {
	want := errors.New("dns failure")
	got := New(stubRegistry{err: want}).Classify(context.Background(), "demo")

	if got.Match() || !errors.Is(got.Reason(), want) {
		t.Errorf("got %s, want unclassifiable wrapping %v", got, want)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name       string
		outcome    Outcome
		match      bool
		classified bool
		str        string
	}{
		{"zero", Outcome{}, false, true, "not a proc-macro"},
		{"true", Classified(true), true, true, "proc-macro"},
		{"false", Classified(false), false, true, "not a proc-macro"},
		{"unclassifiable", Unclassifiable(errors.New("boom")), false, false, "unclassifiable: boom"},
		{"nil reason", Unclassifiable(nil), false, true, "not a proc-macro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.outcome.Match() != tt.match {
				t.Errorf("Match() = %v, want %v", tt.outcome.Match(), tt.match)
			}
			if tt.outcome.IsClassified() != tt.classified {
				t.Errorf("IsClassified() = %v, want %v", tt.outcome.IsClassified(), tt.classified)
			}
			if tt.outcome.String() != tt.str {
				t.Errorf("String() = %q, want %q", tt.outcome.String(), tt.str)
			}
		})
	}
}
