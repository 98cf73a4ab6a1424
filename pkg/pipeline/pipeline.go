// Package pipeline provides the crate inspection pipeline for macroscout.
//
// The pipeline finds the procedural-macro crates among the reverse
// dependencies of an anchor crate:
//
//  1. Fetch: list the releases that depend on the anchor (one registry page)
//  2. Rank: stable-sort the candidates by download count, most popular first
//  3. Classify: inspect every candidate's newest manifest concurrently
//
// The result keeps every candidate with its classification outcome, so
// callers can report why a crate was excluded, and the list of matches in
// ranked order.
//
// # Usage
//
//	client := crates.NewClient(crates.Config{})
//	runner := pipeline.NewRunner(client, classify.New(client), logger)
//
//	result, err := runner.Run(ctx, pipeline.Options{Anchor: "quote", Count: 50})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pipeline.WriteMatches(os.Stdout, result.Matches)
package pipeline

import (
	"time"

	"github.com/matzehuels/macroscout/pkg/classify"
	macroerrors "github.com/matzehuels/macroscout/pkg/errors"
	"github.com/matzehuels/macroscout/pkg/integrations/crates"
	"github.com/matzehuels/macroscout/pkg/parallel"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultAnchor is the crate whose dependents are scanned when none is given.
	// Nearly every procedural macro depends on quote.
	DefaultAnchor = "quote"

	// DefaultCount is the number of reverse dependencies requested.
	DefaultCount = 50

	// DefaultConcurrency runs every classification at once.
	DefaultConcurrency = parallel.Unbounded
)

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	Anchor      string // Crate whose reverse dependencies are scanned
	Count       int    // Number of reverse dependencies to request; 0 selects DefaultCount
	Concurrency int    // Max classifications in flight; <= 0 means unbounded
}

// ValidateAndSetDefaults fills in the anchor and count when unset and
// rejects invalid values.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Anchor == "" {
		o.Anchor = DefaultAnchor
	}
	if o.Count == 0 {
		o.Count = DefaultCount
	}
	if o.Count < 0 {
		return macroerrors.New(macroerrors.ErrCodeInvalidInput, "count must be positive, got %d", o.Count)
	}
	if o.Concurrency < 0 {
		o.Concurrency = parallel.Unbounded
	}
	return macroerrors.ValidateCrateName(o.Anchor)
}

// =============================================================================
// Results
// =============================================================================

// Classification pairs a candidate with its outcome.
type Classification struct {
	Candidate crates.Candidate
	Outcome   classify.Outcome
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Anchor is the crate whose dependents were scanned.
	Anchor string

	// Classifications holds every candidate in ranked order.
	Classifications []Classification

	// Matches holds the proc-macro candidates in ranked order.
	Matches []crates.Candidate

	// Stats contains counts and timings.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Candidates     int
	Matches        int
	Unclassifiable int
	FetchTime      time.Duration
	ClassifyTime   time.Duration
}

// Skipped returns the candidates that could not be classified.
func (r *Result) Skipped() []Classification {
	var out []Classification
	for _, c := range r.Classifications {
		if !c.Outcome.IsClassified() {
			out = append(out, c)
		}
	}
	return out
}
