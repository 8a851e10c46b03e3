// Command crawlsim runs one crawl simulation from a YAML run
// configuration: it builds the corpus index, frontier, seen-set, and
// parser the config names, populates the frontier with seed URLs, runs
// the crawl loop to completion, and writes the configured ledger/report
// sidecars. The orchestration itself lives in internal/orchestrator;
// this entrypoint is deliberately thin.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fpezzuti/crawlsim/internal/config"
	"github.com/fpezzuti/crawlsim/internal/corpus"
	"github.com/fpezzuti/crawlsim/internal/downloadlog"
	"github.com/fpezzuti/crawlsim/internal/frontier"
	"github.com/fpezzuti/crawlsim/internal/ledger"
	"github.com/fpezzuti/crawlsim/internal/orchestrator"
	"github.com/fpezzuti/crawlsim/internal/parser"
	"github.com/fpezzuti/crawlsim/internal/qscore"
	"github.com/fpezzuti/crawlsim/internal/report"
	"github.com/fpezzuti/crawlsim/internal/seenset"
	"github.com/fpezzuti/crawlsim/internal/shard"
	"github.com/fpezzuti/crawlsim/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to a run configuration YAML file")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: crawlsim -config <run.yaml>")
		os.Exit(1)
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "crawlsim: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := telemetry.NewLogger("crawlsim", cfg.Verbose)
	metrics := telemetry.NewMetrics()

	logger.Info().
		Str("collection", cfg.Collection).
		Str("frontier_policy", string(cfg.FrontierPolicy)).
		Msg("starting run")

	idx, err := corpus.Load(cfg.Corpus.URL2DocIDPath)
	if err != nil {
		return fmt.Errorf("loading corpus index: %w", err)
	}
	logger.Info().Int("documents", idx.Len()).Msg("corpus index loaded")

	var qscores *qscore.Table
	if cfg.FrontierPolicy.IsQuality() {
		qscores, err = qscore.Load(cfg.Corpus.QScoreCachePath)
		if err != nil {
			return fmt.Errorf("loading qscore cache: %w", err)
		}
		logger.Info().Int("scored_documents", qscores.Len()).Msg("qscore cache loaded")
	}

	var seen seenset.SeenSet
	switch cfg.SeenSetVariant {
	case config.SeenSetBitmap:
		seen = seenset.NewBitmap(idx.Len())
	default:
		seen = seenset.NewHashed()
	}

	front, err := frontier.New(cfg.FrontierPolicy, cfg.RandomSeed)
	if err != nil {
		return fmt.Errorf("constructing frontier: %w", err)
	}

	outlinkReader := shard.NewReader(256)
	defer outlinkReader.Close()

	var inlinkReader *shard.Reader
	toParse := []parser.Target{}
	if cfg.FrontierPolicy.IsQuality() {
		toParse = append(toParse, parser.TargetQScores)
	}
	if cfg.Corpus.InlinksDir != "" {
		inlinkReader = shard.NewReader(256)
		defer inlinkReader.Close()
		toParse = append(toParse, parser.TargetInlinks)
	}
	p := parser.New(outlinkReader, inlinkReader, cfg.Corpus.OutlinksDir, cfg.Corpus.InlinksDir, qscores, toParse)

	log := downloadlog.New(cfg.Paths.DownloadedPagesDir, cfg.Paths.DownloadedPagesPrefix, cfg.SaveEveryNPages)

	var ledgerDB *ledger.Ledger
	if cfg.Ledger.Enabled {
		ledgerDB, err = ledger.Open(cfg.Ledger.DBPath, cfg.ExperimentName, string(cfg.FrontierPolicy))
		if err != nil {
			return fmt.Errorf("opening ledger: %w", err)
		}
		defer ledgerDB.Close()
	}

	orch := orchestrator.New(cfg, idx, seen, front, p, log, qscores, metrics, ledgerDB, logger)

	if err := orch.PopulateFrontier(); err != nil {
		return fmt.Errorf("populating frontier: %w", err)
	}
	if err := orch.Crawl(); err != nil {
		return fmt.Errorf("crawling: %w", err)
	}

	if cfg.Report.Enabled {
		if err := report.Write(cfg.Report.XLSXPath, orch.Summary()); err != nil {
			return fmt.Errorf("writing summary report: %w", err)
		}
	}

	return nil
}
