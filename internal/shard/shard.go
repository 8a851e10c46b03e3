// Package shard provides random-access reads of per-document JSON records
// stored in gzip shards addressed by a sidecar fixed-width offset table.
package shard

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	jsoniter "github.com/json-iterator/go"
)

// offsetRecordSize is the fixed width of one offset-table record: 10 ASCII
// decimal digits followed by a newline.
const offsetRecordSize = 11

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Reader performs random-access reads of documents addressed by docid,
// keeping an LRU-bounded cache of open offset-file handles so that a
// crawl touching few shards repeatedly doesn't reopen them every read.
type Reader struct {
	cache *handleCache
}

// NewReader creates a Reader with the given offset-handle cache capacity.
func NewReader(capacity int) *Reader {
	return &Reader{cache: newHandleCache(capacity)}
}

// Close releases all cached file handles.
func (r *Reader) Close() error {
	return r.cache.closeAll()
}

// Read returns the parsed JSON record for docid under dir, or (nil, false)
// if the shard, offset file, or record itself is missing or malformed —
// all of which are NotFound conditions for the caller to count, not
// fatal errors.
func (r *Reader) Read(dir, docid string) (map[string]interface{}, bool, error) {
	subdir, fileSeq, docSeq, err := splitDocID(docid)
	if err != nil {
		return nil, false, nil
	}

	prefix := filepath.Join(dir, subdir, fmt.Sprintf("%s-%s", subdir, fileSeq))
	shardPath := prefix + ".json.gz"
	offsetPath := prefix + ".offset"

	start, end, ok, err := r.readOffsets(offsetPath, docSeq)
	if err != nil {
		return nil, false, fmt.Errorf("reading offsets %s: %w", offsetPath, err)
	}
	if !ok {
		return nil, false, nil
	}

	raw, err := readShardRange(shardPath, start, end)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading shard %s: %w", shardPath, err)
	}
	if raw == nil {
		return nil, false, nil
	}

	var record map[string]interface{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, false, nil
	}
	return record, true, nil
}

// readOffsets returns the start offset of doc i and the end offset (or
// -1 for "read to EOF" when record i+1 is short/absent). ok is false when
// the offset file or record i itself is missing or malformed.
func (r *Reader) readOffsets(path string, i int) (start int64, end int64, ok bool, err error) {
	f, err := r.cache.get(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, false, nil
		}
		return 0, 0, false, err
	}

	startBuf, err := readAt(f, int64(i)*offsetRecordSize, offsetRecordSize)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, 0, false, nil
		}
		return 0, 0, false, err
	}
	start, perr := parseOffsetRecord(startBuf)
	if perr != nil {
		return 0, 0, false, nil
	}

	endBuf, err := readAt(f, int64(i+1)*offsetRecordSize, offsetRecordSize)
	if err != nil || len(endBuf) < offsetRecordSize {
		// short/missing second record: read to EOF.
		return start, -1, true, nil
	}
	end, perr = parseOffsetRecord(endBuf)
	if perr != nil {
		return start, -1, true, nil
	}

	return start, end, true, nil
}

func readAt(f *os.File, off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := f.ReadAt(buf, off)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if read == 0 {
		return nil, io.EOF
	}
	return buf[:read], nil
}

func parseOffsetRecord(buf []byte) (int64, error) {
	s := strings.TrimRight(string(buf), "\n")
	if len(s) < 10 {
		return 0, fmt.Errorf("short offset record %q", s)
	}
	return strconv.ParseInt(s[:10], 10, 64)
}

// readShardRange decompresses bytes [start, end) of a gzip shard (or
// [start, EOF) when end < 0) and returns the single enclosed JSON line.
func readShardRange(path string, start, end int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := f.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}

	var raw []byte
	if end < 0 {
		raw, err = io.ReadAll(f)
	} else {
		raw = make([]byte, end-start)
		_, err = io.ReadFull(f, raw)
		if err == io.ErrUnexpectedEOF {
			err = nil
		}
	}
	if err != nil {
		return nil, err
	}

	gz, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, nil // malformed gzip segment: treat as not-found.
	}
	defer gz.Close()

	decompressed, err := io.ReadAll(gz)
	if err != nil && len(decompressed) == 0 {
		return nil, nil
	}

	line := bytes.TrimSpace(decompressed)
	if len(line) == 0 {
		return nil, nil
	}
	return line, nil
}

// splitDocID decomposes "<prefix>-<subdir>-<file_seq>-<doc_seq>" into the
// parts that address a shard.
func splitDocID(docid string) (subdir, fileSeq string, docSeq int, err error) {
	parts := strings.Split(docid, "-")
	if len(parts) != 4 {
		return "", "", 0, fmt.Errorf("malformed docid %q", docid)
	}
	subdir, fileSeq = parts[1], parts[2]
	docSeq, err = strconv.Atoi(parts[3])
	if err != nil {
		return "", "", 0, fmt.Errorf("malformed doc_seq in docid %q: %w", docid, err)
	}
	return subdir, fileSeq, docSeq, nil
}
