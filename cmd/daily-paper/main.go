package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/newsbot/internal/config"
	"github.com/okian/newsbot/internal/dailyrun"
	"github.com/okian/newsbot/internal/pipeline"
)

const defaultCheckTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	p := cfg.Pipeline

	var (
		listing    = flag.String("listing", p.ListingURL, "Listing service URL")
		selection  = flag.String("selection", p.SelectionURL, "Selection service URL")
		detail     = flag.String("detail", p.DetailURL, "Detail service URL")
		summarizer = flag.String("summarizer", p.SummarizerURL, "Summarizer URL")
		nbPapers   = flag.Int("nb-papers", p.NbPapers, "Trending papers requested")
		check      = flag.Duration("check", defaultCheckTimeout, "Reachability check timeout, 0 skips the check")
		outputFile = flag.String("output", "-", `Report file, "-" for stdout`)
		logFile    = flag.String("log", "", "Also append logs to this file")
		logFormat  = flag.String("log-format", cfg.LogFormat, "text or json")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		dailyrun.ShowHelp(os.Stdout)
		return
	}

	if err := dailyrun.SetupLogging(*logFile, *logFormat); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	runCfg := &dailyrun.Config{
		ListingURL:    *listing,
		SelectionURL:  *selection,
		DetailURL:     *detail,
		SummarizerURL: *summarizer,
		NbPapers:      *nbPapers,
		Timeouts: pipeline.Timeouts{
			Listing:   p.ListingTimeout,
			Selection: p.SelectionTimeout,
			Detail:    p.DetailTimeout,
			Summarize: p.SummarizeTimeout,
		},
		CheckTimeout: *check,
		OutputFile:   *outputFile,
	}

	if _, err := dailyrun.Run(ctx, runCfg, os.Stdout); err != nil {
		os.Stderr.WriteString("Daily run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
