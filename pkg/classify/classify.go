// Package classify decides whether a published crate is a procedural-macro
// crate by downloading its newest release and reading its manifest.
//
// Classification never fails as a whole. Every problem on the way (a
// registry error, a malformed archive, a missing or unparsable Cargo.toml)
// is recorded as an Unclassifiable [Outcome], so callers can keep going and
// still find out why a crate was excluded.
package classify

import (
	"context"
	"fmt"
	"io"

	"github.com/matzehuels/macroscout/pkg/archive"
	macroerrors "github.com/matzehuels/macroscout/pkg/errors"
	"github.com/matzehuels/macroscout/pkg/integrations/crates"
	"github.com/matzehuels/macroscout/pkg/manifest"
)

// Registry resolves and downloads crate releases. [*crates.Client]
// implements it.
type Registry interface {
	ResolveRelease(ctx context.Context, crate string) (*crates.Release, error)
	DownloadArchive(ctx context.Context, crate string, rel *crates.Release) (io.ReadCloser, error)
}

// Classifier classifies crates against a registry.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	registry Registry
}

// New creates a Classifier backed by registry.
func New(registry Registry) *Classifier {
	return &Classifier{registry: registry}
}

// Classify reports whether the newest release of crate declares
// lib.proc-macro = true.
func (c *Classifier) Classify(ctx context.Context, crate string) Outcome {
	m, _, err := c.FetchManifest(ctx, crate)
	if err != nil {
		return Unclassifiable(err)
	}
	return Classified(manifest.IsProcMacro(m))
}

// FetchManifest downloads the newest release of crate and returns its parsed
// Cargo.toml together with the release it came from. The archive is streamed
// and decompressed in memory; the scan stops at the first Cargo.toml entry.
//
// A release without a Cargo.toml yields a MANIFEST_NOT_FOUND error.
func (c *Classifier) FetchManifest(ctx context.Context, crate string) (manifest.Value, *crates.Release, error) {
	rel, err := c.registry.ResolveRelease(ctx, crate)
	if err != nil {
		return manifest.Value{}, nil, fmt.Errorf("resolve release: %w", err)
	}

	body, err := c.registry.DownloadArchive(ctx, crate, rel)
	if err != nil {
		return manifest.Value{}, rel, fmt.Errorf("download %s %s: %w", crate, rel.Version, err)
	}
	defer body.Close()

	r, err := archive.NewReader(body)
	if err != nil {
		return manifest.Value{}, rel, err
	}
	defer r.Close()

	m, ok, err := manifest.Locate(r, manifest.Filename)
	if err != nil {
		return manifest.Value{}, rel, err
	}
	if !ok {
		return manifest.Value{}, rel, macroerrors.New(macroerrors.ErrCodeManifestNotFound,
			"%s not found in %s %s", manifest.Filename, crate, rel.Version)
	}
	return m, rel, nil
}
