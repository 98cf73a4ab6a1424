package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/macroscout/pkg/classify"
	"github.com/matzehuels/macroscout/pkg/integrations/crates"
	"github.com/matzehuels/macroscout/pkg/observability"
	"github.com/matzehuels/macroscout/pkg/parallel"
)

// Source lists the releases that depend on a crate. [*crates.Client]
// implements it.
type Source interface {
	ReverseDependencies(ctx context.Context, crate string, count int) ([]crates.Candidate, error)
}

// Classifier decides whether one crate is a procedural-macro crate.
// [*classify.Classifier] implements it.
type Classifier interface {
	Classify(ctx context.Context, crate string) classify.Outcome
}

// Runner executes the pipeline.
//
// The Runner is stateless apart from its collaborators - it doesn't store
// results. Multiple goroutines can safely use the same Runner.
type Runner struct {
	Source     Source
	Classifier Classifier
	Logger     *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(src Source, cls Classifier, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source:     src,
		Classifier: cls,
		Logger:     logger,
	}
}

// Run fetches the anchor's reverse dependencies, ranks them by downloads and
// classifies all of them concurrently.
//
// Only a failure to fetch the candidate list, or cancellation of ctx, is
// returned as an error. Failures while classifying a candidate are recorded
// in its outcome.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	runID := uuid.NewString()
	logger := r.Logger.With("run", runID[:8])
	hooks := observability.Scan()
	start := time.Now()

	result := &Result{RunID: runID, Anchor: opts.Anchor}

	// Stage 1: Fetch
	candidates, err := r.Source.ReverseDependencies(ctx, opts.Anchor, opts.Count)
	if err != nil {
		hooks.OnScanComplete(ctx, opts.Anchor, 0, time.Since(start), err)
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	result.Stats.FetchTime = time.Since(start)
	result.Stats.Candidates = len(candidates)

	logger.Info("fetched reverse dependencies",
		"anchor", opts.Anchor,
		"candidates", len(candidates),
		"duration", result.Stats.FetchTime)

	// Stage 2: Rank
	ranked := SortByDownloads(candidates)

	// Stage 3: Classify
	hooks.OnScanStart(ctx, opts.Anchor, len(ranked))
	classifyStart := time.Now()
	outcomes := parallel.Evaluate(ctx, ranked, opts.Concurrency, r.classify)
	result.Stats.ClassifyTime = time.Since(classifyStart)

	// Outcomes of an interrupted batch say nothing about the candidates.
	if err := ctx.Err(); err != nil {
		hooks.OnScanComplete(ctx, opts.Anchor, 0, time.Since(start), err)
		return nil, fmt.Errorf("classify candidates: %w", err)
	}

	result.Classifications = make([]Classification, len(ranked))
	for i, c := range ranked {
		outcome := outcomes[i].Value
		if outcomes[i].Err != nil {
			outcome = classify.Unclassifiable(outcomes[i].Err)
		}
		result.Classifications[i] = Classification{Candidate: c, Outcome: outcome}

		switch {
		case outcome.Match():
			result.Matches = append(result.Matches, c)
		case !outcome.IsClassified():
			result.Stats.Unclassifiable++
			logger.Debug("skipped candidate", "crate", c.Name, "reason", outcome.Reason())
		}
	}
	result.Stats.Matches = len(result.Matches)

	logger.Info("classified candidates",
		"matches", result.Stats.Matches,
		"unclassifiable", result.Stats.Unclassifiable,
		"duration", result.Stats.ClassifyTime)
	hooks.OnScanComplete(ctx, opts.Anchor, result.Stats.Matches, time.Since(start), nil)

	return result, nil
}

func (r *Runner) classify(ctx context.Context, c crates.Candidate) (classify.Outcome, error) {
	start := time.Now()
	outcome := r.Classifier.Classify(ctx, c.Name)
	observability.Scan().OnClassified(ctx, c.Name, outcome.Match(), outcome.Reason(), time.Since(start))
	return outcome, nil
}

// SortByDownloads returns a copy of candidates ordered by download count,
// highest first. Candidates with equal counts keep their relative order.
func SortByDownloads(candidates []crates.Candidate) []crates.Candidate {
	ranked := make([]crates.Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Downloads > ranked[j].Downloads
	})
	return ranked
}
