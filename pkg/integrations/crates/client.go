package crates

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	macroerrors "github.com/matzehuels/macroscout/pkg/errors"
	"github.com/matzehuels/macroscout/pkg/integrations"
)

// Default endpoints and identity for crates.io.
const (
	DefaultAPIURL      = "https://crates.io/api/v1"
	DefaultDownloadURL = "https://crates.io"
	DefaultUserAgent   = "macroscout/1.0 (https://github.com/matzehuels/macroscout)"
)

// Candidate is a crate release that depends on an anchor crate.
//
// Candidates are produced by [Client.ReverseDependencies] and are never
// modified afterwards. ID is unique within one response.
type Candidate struct {
	Name      string // Crate name (e.g., "serde_derive")
	Version   string // Version of the depending release (e.g., "1.0.193")
	Downloads int64  // Download count reported by the registry
	ID        int64  // Registry id of the depending release
}

// Release identifies a published crate version and where to download it.
type Release struct {
	ID           int64  // Registry version id
	Version      string // Version number (e.g., "1.0.193")
	DownloadPath string // Path relative to the download host (e.g., "/api/v1/crates/serde/1.0.193/download")
}

// Config configures a [Client]. Zero fields fall back to the defaults.
type Config struct {
	APIURL      string        // Base URL of the JSON API (default DefaultAPIURL)
	DownloadURL string        // Host that DownloadPath values are relative to (default DefaultDownloadURL)
	UserAgent   string        // User-Agent header (default DefaultUserAgent)
	Timeout     time.Duration // Per-request timeout; 0 disables it
}

// Client provides access to the crates.io package registry API.
//
// All methods are safe for concurrent use by multiple goroutines.
//
// Note: crates.io requires a User-Agent header; this client sets one automatically.
type Client struct {
	*integrations.Client
	apiURL      string
	downloadURL string
}

// NewClient creates a crates.io client from cfg.
func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.DownloadURL == "" {
		cfg.DownloadURL = DefaultDownloadURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	headers := map[string]string{
		"User-Agent": cfg.UserAgent,
	}
	return &Client{
		Client:      integrations.NewClient(integrations.NewHTTPClient(cfg.Timeout), headers),
		apiURL:      strings.TrimSuffix(cfg.APIURL, "/"),
		downloadURL: strings.TrimSuffix(cfg.DownloadURL, "/"),
	}
}

// ReverseDependencies returns up to count releases that depend on crate, in
// the order the registry lists them. Only the first page is fetched.
//
// Returns a [macroerrors.RegistryError] if the registry answers with a
// non-success status.
func (c *Client) ReverseDependencies(ctx context.Context, crate string, count int) ([]Candidate, error) {
	if err := macroerrors.ValidateCrateName(crate); err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, macroerrors.New(macroerrors.ErrCodeInvalidInput, "count must be positive, got %d", count)
	}

	url := fmt.Sprintf("%s/crates/%s/reverse_dependencies?per_page=%d",
		c.apiURL, integrations.PathEscape(crate), count)

	var data reverseDepsResponse
	if err := c.Get(ctx, url, &data); err != nil {
		return nil, integrations.WithIdentifier(err, crate)
	}

	candidates := make([]Candidate, 0, len(data.Versions))
	for _, v := range data.Versions {
		candidates = append(candidates, Candidate{
			Name:      v.Crate,
			Version:   v.Num,
			Downloads: v.Downloads,
			ID:        v.ID,
		})
	}
	if len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates, nil
}

// ResolveRelease returns the most recently published release of crate.
//
// The registry lists release ids newest first under crate.versions; the
// first id is matched against the versions array to find its download path.
// If the response carries no id list, the first entry of the versions array
// is used.
func (c *Client) ResolveRelease(ctx context.Context, crate string) (*Release, error) {
	if err := macroerrors.ValidateCrateName(crate); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/crates/%s", c.apiURL, integrations.PathEscape(crate))

	var data crateResponse
	if err := c.Get(ctx, url, &data); err != nil {
		return nil, integrations.WithIdentifier(err, crate)
	}
	return latestRelease(crate, data)
}

func latestRelease(crate string, data crateResponse) (*Release, error) {
	if len(data.Versions) == 0 {
		return nil, macroerrors.New(macroerrors.ErrCodeReleaseNotFound, "crate %s has no published releases", crate)
	}

	pick := data.Versions[0]
	if len(data.Crate.Versions) > 0 {
		latest := data.Crate.Versions[0]
		found := false
		for _, v := range data.Versions {
			if v.ID == latest {
				pick, found = v, true
				break
			}
		}
		if !found {
			return nil, macroerrors.New(macroerrors.ErrCodeReleaseNotFound,
				"crate %s: latest release id %d missing from versions", crate, latest)
		}
	}

	if pick.DLPath == "" {
		return nil, macroerrors.New(macroerrors.ErrCodeReleaseNotFound,
			"crate %s: release %s has no download path", crate, pick.Num)
	}
	return &Release{ID: pick.ID, Version: pick.Num, DownloadPath: pick.DLPath}, nil
}

// DownloadArchive opens the .crate archive of rel for streaming.
// The caller must close the returned reader. crate is used only to annotate
// errors.
func (c *Client) DownloadArchive(ctx context.Context, crate string, rel *Release) (io.ReadCloser, error) {
	url := c.downloadURL + "/" + strings.TrimPrefix(rel.DownloadPath, "/")
	body, err := c.Open(ctx, url)
	if err != nil {
		return nil, integrations.WithIdentifier(err, crate)
	}
	return body, nil
}

type reverseDepsResponse struct {
	Versions []struct {
		ID        int64  `json:"id"`
		Crate     string `json:"crate"`
		Num       string `json:"num"`
		Downloads int64  `json:"downloads"`
	} `json:"versions"`
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
}

type crateResponse struct {
	Crate struct {
		Name     string  `json:"name"`
		Versions []int64 `json:"versions"`
	} `json:"crate"`
	Versions []versionResponse `json:"versions"`
}

type versionResponse struct {
	ID     int64  `json:"id"`
	Num    string `json:"num"`
	DLPath string `json:"dl_path"`
}
