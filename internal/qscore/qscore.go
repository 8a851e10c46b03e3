// Package qscore exposes the read-only docid->quality-score mapping
// produced by an external, immutable quality-scoring cache.
package qscore

import (
	"encoding/gob"
	"fmt"
	"os"
)

// cachePayload is the on-disk shape of the quality-score cache: two
// parallel arrays (docids[], scores[]), gob-encoded rather than
// numpy-pickled. The cache is keyed by the corpus's shard-addressable
// string docid rather than the integer docno, mirroring the naming
// overlap the original scorer's cache format carries.
type cachePayload struct {
	DocIDs []string
	Scores []float32
}

// Table is the process-lifetime, read-only docid->score mapping.
type Table struct {
	scores map[string]float32
}

// Load reads a gob-encoded quality-score cache and joins the two parallel
// arrays into an in-memory docid->score map.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening qscore cache %s: %w", path, err)
	}
	defer f.Close()

	var payload cachePayload
	if err := gob.NewDecoder(f).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding qscore cache %s: %w", path, err)
	}
	if len(payload.DocIDs) != len(payload.Scores) {
		return nil, fmt.Errorf("qscore cache %s: docids/scores length mismatch (%d vs %d)",
			path, len(payload.DocIDs), len(payload.Scores))
	}

	t := &Table{scores: make(map[string]float32, len(payload.DocIDs))}
	for i, docid := range payload.DocIDs {
		t.scores[docid] = payload.Scores[i]
	}
	return t, nil
}

// Score returns the quality score for docid, and false if unknown — a
// NotFound condition for the caller to count, not a fatal error.
func (t *Table) Score(docid string) (float32, bool) {
	s, ok := t.scores[docid]
	return s, ok
}

// Len returns the number of scored documents.
func (t *Table) Len() int {
	return len(t.scores)
}

// NewForTest builds a Table directly from parallel docid/score slices,
// letting other packages' tests set up fixtures without going through
// the on-disk cache format.
func NewForTest(docids []string, scores []float32) *Table {
	t := &Table{scores: make(map[string]float32, len(docids))}
	for i, docid := range docids {
		t.scores[docid] = scores[i]
	}
	return t
}
