// Package crates provides an HTTP client for the crates.io API.
//
// # Overview
//
// This package covers the three crates.io endpoints the inspection pipeline
// needs (https://crates.io):
//
//   - [Client.ReverseDependencies]: releases that depend on a crate
//   - [Client.ResolveRelease]: the newest release of a crate and its download path
//   - [Client.DownloadArchive]: the gzip-compressed tarball of a release
//
// # Usage
//
//	client := crates.NewClient(crates.Config{})
//
//	candidates, err := client.ReverseDependencies(ctx, "quote", 50)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rel, err := client.ResolveRelease(ctx, candidates[0].Name)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	body, err := client.DownloadArchive(ctx, candidates[0].Name, rel)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer body.Close()
//
// # Errors
//
// A non-success status from any endpoint is returned as
// [errors.RegistryError] with the crate name filled in. Each request is
// attempted once.
//
// # User-Agent
//
// The client includes a User-Agent header as requested by crates.io policy.
package crates
