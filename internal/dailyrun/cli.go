package dailyrun

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/newsbot/pkg/logger"
)

const logFilePermission = 0o600

// SetupLogging initialises the global logger. Logs go to stderr, and also to
// logFile when one is given, so stdout stays free for the report.
func SetupLogging(logFile, format string) error {
	var w io.Writer = os.Stderr
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, file)
	}
	if err := logger.InitWriter(w, format); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the daily paper tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Daily Paper
===========

Runs the daily paper pipeline once against the listing, selection, detail
and summarizer services and prints the report as JSON.

Usage:
  go run ./cmd/daily-paper [options]

Defaults come from the service configuration (NEWSBOT_CONFIG file and
NEWSBOT_* environment variables); flags override them.

Options:
  -listing string      Listing service URL
  -selection string    Selection service URL
  -detail string       Detail service URL
  -summarizer string   Summarizer URL
  -nb-papers int       Trending papers requested
  -check duration      Reachability check timeout, 0 skips the check (default 5s)
  -output string       Report file, "-" for stdout (default "-")
  -log string          Also append logs to this file
  -log-format string   text or json (default from config)
  -help                Show help
`)
}
