package cli

import (
	"time"

	"github.com/spf13/viper"

	macroerrors "github.com/matzehuels/macroscout/pkg/errors"
	"github.com/matzehuels/macroscout/pkg/integrations"
	"github.com/matzehuels/macroscout/pkg/integrations/crates"
	"github.com/matzehuels/macroscout/pkg/pipeline"
)

// envPrefix namespaces environment overrides, e.g. MACROSCOUT_CONCURRENCY.
const envPrefix = "MACROSCOUT"

// Configuration keys.
const (
	keyAPIURL      = "api_url"
	keyDownloadURL = "download_url"
	keyUserAgent   = "user_agent"
	keyHTTPTimeout = "http_timeout"
	keyConcurrency = "concurrency"
	keyCount       = "count"
)

// config is the resolved configuration of one invocation.
type config struct {
	APIURL      string
	DownloadURL string
	UserAgent   string
	HTTPTimeout time.Duration
	Concurrency int
	Count       int
}

// initConfig loads configuration into v from flags already bound to it,
// MACROSCOUT_* environment variables and an optional YAML file.
//
// An explicit configFile must exist; otherwise macroscout.yaml is looked up
// in the working directory and in $HOME/.config/macroscout, and its absence
// is not an error.
func initConfig(v *viper.Viper, configFile string) error {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault(keyAPIURL, crates.DefaultAPIURL)
	v.SetDefault(keyDownloadURL, crates.DefaultDownloadURL)
	v.SetDefault(keyUserAgent, crates.DefaultUserAgent)
	v.SetDefault(keyHTTPTimeout, integrations.DefaultTimeout)
	v.SetDefault(keyConcurrency, pipeline.DefaultConcurrency)
	v.SetDefault(keyCount, pipeline.DefaultCount)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return macroerrors.Wrap(macroerrors.ErrCodeInvalidInput, err, "failed to read config file")
		}
		return nil
	}

	v.SetConfigName(appName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/" + appName)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return macroerrors.Wrap(macroerrors.ErrCodeInvalidInput, err, "failed to read config file")
	}
	return nil
}

// loadConfig reads the resolved values out of v and rejects values no
// command can run with.
func loadConfig(v *viper.Viper) (config, error) {
	cfg := config{
		APIURL:      v.GetString(keyAPIURL),
		DownloadURL: v.GetString(keyDownloadURL),
		UserAgent:   v.GetString(keyUserAgent),
		HTTPTimeout: v.GetDuration(keyHTTPTimeout),
		Concurrency: v.GetInt(keyConcurrency),
		Count:       v.GetInt(keyCount),
	}
	if cfg.Count < 1 {
		return config{}, macroerrors.New(macroerrors.ErrCodeInvalidInput, "%s must be at least 1, got %d", keyCount, cfg.Count)
	}
	if cfg.HTTPTimeout < 0 {
		return config{}, macroerrors.New(macroerrors.ErrCodeInvalidInput, "%s must not be negative, got %s", keyHTTPTimeout, cfg.HTTPTimeout)
	}
	return cfg, nil
}

// newClient creates a crates.io client for cfg.
func newClient(cfg config) *crates.Client {
	return crates.NewClient(crates.Config{
		APIURL:      cfg.APIURL,
		DownloadURL: cfg.DownloadURL,
		UserAgent:   cfg.UserAgent,
		Timeout:     cfg.HTTPTimeout,
	})
}
