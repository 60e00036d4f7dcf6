// Package dailyrun runs the daily paper pipeline once from the command line
// and writes the report as JSON.
package dailyrun

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/okian/newsbot/internal/adapters/remote"
	"github.com/okian/newsbot/internal/domain/paper"
	"github.com/okian/newsbot/internal/pipeline"
	"github.com/okian/newsbot/pkg/logger"
)

const directoryPermission = 0o750

// ErrServiceDown is returned when a collaborator does not answer its root route.
var ErrServiceDown = errors.New("service unreachable")

// Run checks the services, runs the pipeline and writes the report. stdout
// receives the report when no output file is configured.
func Run(ctx context.Context, cfg *Config, stdout io.Writer) (paper.Report, error) {
	log := logger.Get().Named("dailyrun")
	start := time.Now()

	log.Info(ctx, "starting daily paper run",
		logger.String("listing", cfg.ListingURL),
		logger.String("selection", cfg.SelectionURL),
		logger.String("detail", cfg.DetailURL),
		logger.String("summarizer", cfg.SummarizerURL),
		logger.Int("nb_papers", cfg.NbPapers))

	// Step 1: Check services
	if cfg.CheckTimeout > 0 {
		if err := checkServices(ctx, cfg); err != nil {
			return paper.Report{}, err
		}
	}

	// Step 2: Run the pipeline
	p := pipeline.New(
		remote.New("listing", cfg.ListingURL),
		remote.New("selection", cfg.SelectionURL),
		remote.New("detail", cfg.DetailURL),
		remote.New("summarizer", cfg.SummarizerURL),
		pipeline.WithNbPapers(cfg.NbPapers),
		pipeline.WithTimeouts(cfg.Timeouts),
		pipeline.WithLogger(log),
	)
	report, err := p.Run(ctx)
	if err != nil {
		return paper.Report{}, fmt.Errorf("daily run failed: %w", err)
	}

	// Step 3: Save the report
	if err := saveReport(ctx, cfg.OutputFile, report, stdout); err != nil {
		return report, err
	}

	log.Info(ctx, "daily run completed",
		logger.String("title", report.Title),
		logger.Duration("duration", time.Since(start)))
	return report, nil
}

// checkServices verifies every distinct service answers GET /.
func checkServices(ctx context.Context, cfg *Config) error {
	log := logger.Get().Named("dailyrun")
	client := resty.New().SetTimeout(cfg.CheckTimeout)

	for _, base := range cfg.Services() {
		url := strings.TrimRight(base, "/") + "/"
		res, err := client.R().SetContext(ctx).Get(url)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrServiceDown, base, err)
		}
		if !res.IsSuccess() {
			return fmt.Errorf("%w: %s answered %d", ErrServiceDown, base, res.StatusCode())
		}
		log.Debug(ctx, "service is reachable", logger.String("url", base))
	}
	return nil
}

// saveReport writes report as indented JSON to filename, or to stdout when
// filename is empty or "-".
func saveReport(ctx context.Context, filename string, report paper.Report, stdout io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	if filename == "" || filename == "-" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}

	// Ensure the directory exists
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Get().Info(ctx, "report saved to file", logger.String("filename", filename))
	return nil
}
