package shard

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// writeShard gzip-compresses each of docs independently, concatenates
// the compressed segments into one ".json.gz" file, and writes the
// matching fixed-width ".offset" sidecar.
func writeShard(t *testing.T, dir, subdir, fileSeq string, docs []string) {
	t.Helper()

	shardDir := filepath.Join(dir, subdir)
	if err := os.MkdirAll(shardDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	prefix := filepath.Join(shardDir, fmt.Sprintf("%s-%s", subdir, fileSeq))
	shardFile, err := os.Create(prefix + ".json.gz")
	if err != nil {
		t.Fatalf("create shard: %v", err)
	}
	defer shardFile.Close()

	offsetFile, err := os.Create(prefix + ".offset")
	if err != nil {
		t.Fatalf("create offsets: %v", err)
	}
	defer offsetFile.Close()

	var pos int64
	for _, doc := range docs {
		fmt.Fprintf(offsetFile, "%010d\n", pos)

		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write([]byte(doc)); err != nil {
			t.Fatalf("gzip write: %v", err)
		}
		if err := gz.Close(); err != nil {
			t.Fatalf("gzip close: %v", err)
		}

		n, err := shardFile.Write(buf.Bytes())
		if err != nil {
			t.Fatalf("shard write: %v", err)
		}
		pos += int64(n)
	}
}

func TestReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	docs := []string{
		`{"outlinks": ["http://a.example", "http://b.example"]}`,
		`{"outlinks": []}`,
		`{"num_inlinks": 7}`,
	}
	writeShard(t, dir, "09", "00", docs)

	r := NewReader(4)
	defer r.Close()

	record, ok, err := r.Read(dir, "cw-09-00-0")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !ok {
		t.Fatalf("expected record 0 to be found")
	}
	outlinks, _ := record["outlinks"].([]interface{})
	if len(outlinks) != 2 {
		t.Fatalf("outlinks length = %d, want 2", len(outlinks))
	}

	record, ok, err = r.Read(dir, "cw-09-00-2")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !ok {
		t.Fatalf("expected record 2 (last, read-to-EOF) to be found")
	}
	if n, _ := record["num_inlinks"].(float64); n != 7 {
		t.Fatalf("num_inlinks = %v, want 7", record["num_inlinks"])
	}
}

func TestReadMissingShardIsNotFound(t *testing.T) {
	dir := t.TempDir()
	r := NewReader(4)
	defer r.Close()

	_, ok, err := r.Read(dir, "cw-09-00-0")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ok {
		t.Fatalf("expected missing shard to be not found, not an error")
	}
}

func TestReadOutOfRangeDocSeqIsNotFound(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "09", "00", []string{`{"outlinks": []}`})

	r := NewReader(4)
	defer r.Close()

	_, ok, err := r.Read(dir, "cw-09-00-5")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ok {
		t.Fatalf("expected out-of-range doc_seq to be not found")
	}
}

func TestHandleCacheEvictsUnderCapacity(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		writeShard(t, dir, fmt.Sprintf("%02d", i), "00", []string{`{"outlinks": []}`})
	}

	c := newHandleCache(2)
	for i := 0; i < 3; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%02d", i), fmt.Sprintf("%02d-00.offset", i))
		if _, err := c.get(path); err != nil {
			t.Fatalf("get(%s): %v", path, err)
		}
	}
	if len(c.files) != 2 {
		t.Fatalf("cached handle count = %d, want 2 (capacity)", len(c.files))
	}
	if err := c.closeAll(); err != nil {
		t.Fatalf("closeAll: %v", err)
	}
}
