// Package parser fills in a downloaded page's metadata — its outlinks,
// its own quality score, and optionally its inlink count — by reading
// the pre-enumerated shard records the corpus ships instead of fetching
// and rendering real HTML.
package parser

import (
	"fmt"

	"github.com/fpezzuti/crawlsim/internal/frontier"
	"github.com/fpezzuti/crawlsim/internal/qscore"
	"github.com/fpezzuti/crawlsim/internal/shard"
)

// Target names one piece of optional per-page metadata a run can ask
// the parser to populate.
type Target string

const (
	TargetQScores Target = "qscores"
	TargetInlinks Target = "inlinks"
)

// Parser extracts metadata for a downloaded Page from shard-backed
// outlink/inlink records and a quality-score table.
type Parser struct {
	outlinks    *shard.Reader
	inlinks     *shard.Reader
	outlinksDir string
	inlinksDir  string
	qscores     *qscore.Table
	toParse     map[Target]bool
}

// New creates a Parser. inlinks and qscores may be nil if the run's
// config does not request those targets.
func New(outlinks, inlinks *shard.Reader, outlinksDir, inlinksDir string, qscores *qscore.Table, targets []Target) *Parser {
	set := make(map[Target]bool, len(targets))
	for _, t := range targets {
		set[t] = true
	}
	return &Parser{
		outlinks:    outlinks,
		inlinks:     inlinks,
		outlinksDir: outlinksDir,
		inlinksDir:  inlinksDir,
		qscores:     qscores,
		toParse:     set,
	}
}

// Parse populates page.Outlinks and, according to the configured
// targets, page.QScore and page.NumInlinks. A missing outlinks record is
// reported via the bool return, so callers can count it toward a
// no-outlinks-pages tally instead of treating it as an error.
func (p *Parser) Parse(page *frontier.Page) (hasOutlinks bool, err error) {
	outlinks, found, err := p.parseOutlinks(page)
	if err != nil {
		return false, err
	}
	page.Outlinks = outlinks

	if p.toParse[TargetQScores] && p.qscores != nil {
		if s, ok := p.qscores.Score(page.DocID); ok {
			page.QScore = float64(s)
			page.HasQScore = true
		}
	}

	if p.toParse[TargetInlinks] && p.inlinks != nil {
		n, err := p.parseNumInlinks(page)
		if err != nil {
			return found, err
		}
		page.NumInlinks = n
	}

	return found, nil
}

// parseOutlinks reads the page's outlinks shard record and cleans it.
func (p *Parser) parseOutlinks(page *frontier.Page) ([]string, bool, error) {
	record, ok, err := p.outlinks.Read(p.outlinksDir, page.DocID)
	if err != nil {
		return nil, false, fmt.Errorf("reading outlinks for %s: %w", page.DocID, err)
	}
	if !ok {
		return nil, false, nil
	}

	raw, _ := record["outlinks"].([]interface{})
	urls := extractLinkURLs(raw)

	return CleanLinks(page.URL, urls), true, nil
}

// parseNumInlinks reads the page's inlinks shard record and returns the
// number of distinct, non-self anchors linking to it.
func (p *Parser) parseNumInlinks(page *frontier.Page) (int, error) {
	record, ok, err := p.inlinks.Read(p.inlinksDir, page.DocID)
	if err != nil {
		return 0, fmt.Errorf("reading inlinks for %s: %w", page.DocID, err)
	}
	if !ok {
		return 0, nil
	}

	raw, _ := record["anchors"].([]interface{})
	urls := extractLinkURLs(raw)
	return len(CleanLinks(page.URL, urls)), nil
}

// extractLinkURLs pulls the URL out of each [url, anchor, ...] entry in
// an outlinks/anchors list; only index 0 of each entry is used.
func extractLinkURLs(raw []interface{}) []string {
	urls := make([]string, 0, len(raw))
	for _, v := range raw {
		entry, ok := v.([]interface{})
		if !ok || len(entry) == 0 {
			continue
		}
		if s, ok := entry[0].(string); ok {
			urls = append(urls, s)
		}
	}
	return urls
}

// CleanLinks removes self-links (urls pointing at own) and duplicates,
// preserving first-seen order.
func CleanLinks(own string, urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == own {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
