// Package pkg provides the libraries behind macroscout.
//
// # Overview
//
// Macroscout answers one question: which of the most popular crates that
// depend on an anchor crate are procedural-macro crates? The data flow is:
//
//	crates.io reverse dependencies
//	         ↓
//	    [pipeline] rank by downloads, fan out
//	         ↓
//	    [classify] per candidate: resolve newest release, stream the .crate
//	         ↓
//	    [archive] gzip + tar entries
//	         ↓
//	    [manifest] locate and parse Cargo.toml, test lib.proc-macro
//	         ↓
//	    "<downloads> <name>" lines
//
// # Main Packages
//
// [integrations/crates] - crates.io API client (reverse dependencies,
// release metadata, archive downloads) built on the shared
// [integrations] HTTP client.
//
// [archive] - Streaming reader for gzip-compressed tar archives.
//
// [manifest] - Generic TOML document model, manifest lookup inside an
// archive, and the Cargo proc-macro predicate.
//
// [classify] - Turns one crate name into a Classified or Unclassifiable
// outcome.
//
// [parallel] - Order-preserving concurrent evaluation with per-item error
// and panic isolation.
//
// [pipeline] - Orchestration (fetch → rank → classify → output).
//
// [errors] - Error codes and the registry status error.
//
// [observability] - Optional hooks for scan and HTTP events.
//
// [buildinfo] - Version information injected at build time.
package pkg
