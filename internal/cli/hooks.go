package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports pipeline and registry events to the CLI logger at debug
// level. It implements both observability.ScanHooks and
// observability.HTTPHooks; log.Logger is safe for concurrent use.
type logHooks struct {
	logger *log.Logger
}

func newLogHooks(l *log.Logger) *logHooks {
	return &logHooks{logger: l}
}

func (h *logHooks) OnScanStart(_ context.Context, anchor string, candidates int) {
	h.logger.Debug("classifying", "anchor", anchor, "candidates", candidates)
}

func (h *logHooks) OnClassified(_ context.Context, crate string, match bool, reason error, d time.Duration) {
	if reason != nil {
		h.logger.Debug("unclassifiable", "crate", crate, "reason", reason, "duration", d.Round(time.Millisecond))
		return
	}
	h.logger.Debug("classified", "crate", crate, "proc_macro", match, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnScanComplete(_ context.Context, anchor string, matches int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("scan failed", "anchor", anchor, "err", err, "duration", d.Round(time.Millisecond))
		return
	}
	h.logger.Debug("scan complete", "anchor", anchor, "matches", matches, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
