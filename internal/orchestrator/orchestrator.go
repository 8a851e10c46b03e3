// Package orchestrator drives one crawl run end to end: it populates
// the frontier with seed URLs, then repeatedly pops a URL, resolves it
// against the corpus, parses its metadata, and feeds its outlinks back
// into the frontier — checkpointing the download log as it goes.
package orchestrator

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fpezzuti/crawlsim/internal/config"
	"github.com/fpezzuti/crawlsim/internal/corpus"
	"github.com/fpezzuti/crawlsim/internal/downloadlog"
	"github.com/fpezzuti/crawlsim/internal/frontier"
	"github.com/fpezzuti/crawlsim/internal/ledger"
	"github.com/fpezzuti/crawlsim/internal/parser"
	"github.com/fpezzuti/crawlsim/internal/qscore"
	"github.com/fpezzuti/crawlsim/internal/report"
	"github.com/fpezzuti/crawlsim/internal/seenset"
	"github.com/fpezzuti/crawlsim/internal/telemetry"
)

// Orchestrator wires together every component of one crawl run. Every
// component field is set once at construction (only the run counters
// change afterwards) and the run proceeds on a single
// goroutine, so the core loop needs no locking.
type Orchestrator struct {
	cfg     *config.RunConfig
	corpus  *corpus.Index
	seen    seenset.SeenSet
	front   frontier.Frontier
	parser  *parser.Parser
	log     *downloadlog.Log
	qscores *qscore.Table
	metrics *telemetry.Metrics
	ledger  *ledger.Ledger
	logger  zerolog.Logger

	downloaded        int
	failedDownloads   int
	notFoundSeeds     int
	wrongLinkedDocID  int
	noOutlinksPages   int
	checkpointSeq     int
	qscoreBuckets     map[string]int
}

// New constructs an Orchestrator. ledgerDB and qscores may be nil when
// the run's config disables the ledger sidecar or quality scoring.
func New(
	cfg *config.RunConfig,
	idx *corpus.Index,
	seen seenset.SeenSet,
	front frontier.Frontier,
	p *parser.Parser,
	log *downloadlog.Log,
	qscores *qscore.Table,
	metrics *telemetry.Metrics,
	ledgerDB *ledger.Ledger,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:           cfg,
		corpus:        idx,
		seen:          seen,
		front:         front,
		parser:        p,
		log:           log,
		qscores:       qscores,
		metrics:       metrics,
		ledger:        ledgerDB,
		logger:        logger,
		qscoreBuckets: make(map[string]int),
	}
}

// PopulateFrontier generates (or loads) the run's seed URLs, persists
// them to the configured output path, and enqueues every resolvable
// seed, counting the rest as notfound_seedurls.
func (o *Orchestrator) PopulateFrontier() error {
	seeds, err := o.generateSeeds()
	if err != nil {
		return fmt.Errorf("generating seeds: %w", err)
	}

	if o.cfg.Paths.SeedsOutputPath != "" {
		if err := writeLines(o.cfg.Paths.SeedsOutputPath, seeds); err != nil {
			return fmt.Errorf("writing seeds file: %w", err)
		}
	}

	for _, url := range seeds {
		docid, ok := o.corpus.URLToDocID(url)
		if !ok {
			o.notFoundSeeds++
			if o.metrics != nil {
				o.metrics.NotFoundSeeds.Inc()
			}
			continue
		}

		docno, _ := o.corpus.URLToDocNo(url)
		if err := o.seen.Mark(docno); err != nil {
			return fmt.Errorf("marking seed docno %d seen: %w", docno, err)
		}

		priority := o.priorityOf(docid)
		if err := o.front.Add(url, priority); err != nil {
			return fmt.Errorf("adding seed %s to frontier: %w", url, err)
		}
	}

	o.logger.Info().
		Int("seeds_requested", len(seeds)).
		Int("seeds_notfound", o.notFoundSeeds).
		Msg("frontier populated")

	return nil
}

// generateSeeds returns the run's seed URLs per its configured
// SeedsStrategy.
func (o *Orchestrator) generateSeeds() ([]string, error) {
	switch o.cfg.SeedsStrategy {
	case config.SeedsList:
		return readLines(o.cfg.Corpus.SeedsPath)
	default:
		return o.randomSeeds(o.cfg.NumSeedURLs), nil
	}
}

// randomSeeds samples n distinct DocNos from the corpus deterministically
// from the run's configured random seed.
func (o *Orchestrator) randomSeeds(n int) []string {
	total := o.corpus.Len()
	if n <= 0 || total == 0 {
		return nil
	}
	if n > total {
		n = total
	}

	rnd := rand.New(rand.NewSource(o.cfg.RandomSeed))
	chosen := make(map[int]struct{}, n)
	urls := make([]string, 0, n)
	for len(urls) < n {
		docno := rnd.Intn(total)
		if _, dup := chosen[docno]; dup {
			continue
		}
		chosen[docno] = struct{}{}
		if url, ok := o.corpus.DocNoToURL(docno); ok {
			urls = append(urls, url)
		}
	}
	return urls
}

// Crawl runs the main pop/download/parse/enqueue loop until the
// frontier is empty or MaxPages is reached, then flushes the download
// log's final partial checkpoint.
func (o *Orchestrator) Crawl() error {
	for o.cfg.MaxPages <= 0 || o.downloaded < o.cfg.MaxPages {
		url, err := o.front.Pop()
		if err != nil {
			if errors.Is(err, frontier.ErrEmpty) {
				break
			}
			return fmt.Errorf("popping frontier: %w", err)
		}

		if err := o.processURL(url); err != nil {
			return err
		}
	}

	flushed, err := o.log.Checkpoint(true)
	if err != nil {
		return fmt.Errorf("final checkpoint flush: %w", err)
	}
	if flushed {
		o.checkpointSeq++
		if o.metrics != nil {
			o.metrics.Checkpoints.Inc()
		}
	}
	if o.ledger != nil {
		if err := o.recordCheckpoint(); err != nil {
			return err
		}
	}

	o.logger.Info().
		Int("downloaded", o.downloaded).
		Int("failed_downloads", o.failedDownloads).
		Int("wrong_linked_docid", o.wrongLinkedDocID).
		Int("no_outlinks_pages", o.noOutlinksPages).
		Msg("crawl finished")

	return nil
}

// processURL "downloads" one popped URL: it resolves the URL to a
// DocId, parses its metadata, records it in the download log, and
// enqueues its outlinks. The URL's docno is already marked in SeenSet —
// either as a seed in PopulateFrontier, or as a discovered outlink in
// discover — by the time it reaches the front of the frontier.
func (o *Orchestrator) processURL(url string) error {
	docid, ok := o.corpus.URLToDocID(url)
	if !ok {
		o.failedDownloads++
		if o.metrics != nil {
			o.metrics.FailedDownloads.Inc()
		}
		return nil
	}
	docno, _ := o.corpus.URLToDocNo(url)

	page := &frontier.Page{URL: url, DocID: docid, DocNo: docno}
	found, err := o.parser.Parse(page)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", docid, err)
	}
	if !found {
		o.noOutlinksPages++
		if o.metrics != nil {
			o.metrics.NoOutlinkPages.Inc()
		}
	}
	if o.cfg.FrontierPolicy.IsQuality() && page.HasQScore {
		o.qscoreBuckets[bucketLabel(page.QScore)]++
	}

	o.log.Append(int64(docno))
	o.downloaded++
	if o.metrics != nil {
		o.metrics.Downloaded.Inc()
	}

	for _, outlink := range page.Outlinks {
		if err := o.discover(outlink); err != nil {
			return err
		}
	}

	if o.metrics != nil {
		o.metrics.FrontierSize.Set(float64(o.front.Size()))
		o.metrics.SeenCount.Set(float64(o.seen.Count()))
	}

	if o.cfg.SaveEveryNPages > 0 && o.downloaded%o.cfg.SaveEveryNPages == 0 {
		flushed, err := o.log.Checkpoint(false)
		if err != nil {
			return fmt.Errorf("checkpointing download log: %w", err)
		}
		if flushed {
			o.checkpointSeq++
			if o.metrics != nil {
				o.metrics.Checkpoints.Inc()
			}
			if o.ledger != nil {
				if err := o.recordCheckpoint(); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// discover resolves one outlink and either revises its priority (if
// already marked seen and the policy accepts updates), skips it (if
// already marked seen and the policy doesn't), or marks it seen and
// enqueues it (if this is its first discovery).
func (o *Orchestrator) discover(outlink string) error {
	odocid, ok := o.corpus.URLToDocID(outlink)
	if !ok {
		o.wrongLinkedDocID++
		if o.metrics != nil {
			o.metrics.WrongLinkedDocID.Inc()
		}
		return nil
	}

	odocno, _ := o.corpus.URLToDocNo(outlink)
	marked, err := o.seen.IsMarked(odocno)
	if err != nil {
		return fmt.Errorf("checking seen for docno %d: %w", odocno, err)
	}

	priority := o.priorityOf(odocid)

	if marked {
		if !o.cfg.FrontierPolicy.UpdatesEnabled() {
			return nil
		}
		if _, err := o.front.Update(outlink, priority); err != nil {
			return fmt.Errorf("updating frontier priority for %s: %w", outlink, err)
		}
		return nil
	}

	if err := o.seen.Mark(odocno); err != nil {
		return fmt.Errorf("marking docno %d seen: %w", odocno, err)
	}
	if err := o.front.Add(outlink, priority); err != nil {
		return fmt.Errorf("adding %s to frontier: %w", outlink, err)
	}
	return nil
}

// priorityOf returns the oracle priority (the document's own quality
// score) for a DocId, or 0 for non-quality policies or unscored
// documents.
func (o *Orchestrator) priorityOf(docid string) float64 {
	if !o.cfg.FrontierPolicy.IsQuality() || o.qscores == nil {
		return 0
	}
	if s, ok := o.qscores.Score(docid); ok {
		return float64(s)
	}
	return 0
}

func (o *Orchestrator) recordCheckpoint() error {
	return o.ledger.Record(ledger.Snapshot{
		CheckpointSeq:    o.checkpointSeq,
		Downloaded:       o.downloaded,
		FailedDownloads:  o.failedDownloads,
		NotFoundSeeds:    o.notFoundSeeds,
		WrongLinkedDocID: o.wrongLinkedDocID,
		NoOutlinksPages:  o.noOutlinksPages,
		FrontierSize:     o.front.Size(),
		SeenCount:        o.seen.Count(),
	})
}

// Summary builds the final report.Summary for this run.
func (o *Orchestrator) Summary() report.Summary {
	return report.Summary{
		ExperimentName:   o.cfg.ExperimentName,
		FrontierPolicy:   string(o.cfg.FrontierPolicy),
		Downloaded:       o.downloaded,
		FailedDownloads:  o.failedDownloads,
		NotFoundSeeds:    o.notFoundSeeds,
		WrongLinkedDocID: o.wrongLinkedDocID,
		NoOutlinksPages:  o.noOutlinksPages,
		Checkpoints:      o.checkpointSeq,
		QScoreBuckets:    o.qscoreBuckets,
	}
}

func bucketLabel(score float64) string {
	const step = 0.1
	lo := math.Floor(score/step) * step
	return fmt.Sprintf("[%.1f, %.1f)", lo, lo+step)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
