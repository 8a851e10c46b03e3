// Package downloadlog persists the ordered sequence of downloaded
// DocNos to disk in periodic checkpoints.
package downloadlog

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Log buffers downloaded DocNos in memory and flushes them to numbered
// checkpoint files of saveEveryN records each.
type Log struct {
	dir        string
	prefix     string
	saveEveryN int

	buffered  []int64
	persisted int
}

// New creates a Log writing numbered "<prefix>_<checkpoint>.bin" files
// under dir.
func New(dir, prefix string, saveEveryN int) *Log {
	return &Log{
		dir:        dir,
		prefix:     prefix,
		saveEveryN: saveEveryN,
		buffered:   make([]int64, 0, saveEveryN),
	}
}

// Append records one more downloaded DocNo.
func (l *Log) Append(docno int64) {
	l.buffered = append(l.buffered, docno)
}

// Len returns the total number of DocNos recorded so far, flushed or not.
func (l *Log) Len() int {
	return l.persisted + len(l.buffered)
}

// Checkpoint flushes the buffered DocNos to a new numbered file when the
// buffer has reached saveEveryN records, or unconditionally when last is
// true (the final flush at the end of a run). The checkpoint id is
// floor((persisted+buffered)/saveEveryN), plus one more if this is the
// trailing partial checkpoint.
func (l *Log) Checkpoint(last bool) (bool, error) {
	if len(l.buffered) == 0 {
		return false, nil
	}
	if !last && len(l.buffered) < l.saveEveryN {
		return false, nil
	}

	total := l.persisted + len(l.buffered)
	checkpointID := total / l.saveEveryN
	if total%l.saveEveryN != 0 {
		checkpointID++
	}

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return false, fmt.Errorf("creating download log dir %s: %w", l.dir, err)
	}

	path := filepath.Join(l.dir, fmt.Sprintf("%s_%d.bin", l.prefix, checkpointID))
	f, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("creating checkpoint file %s: %w", path, err)
	}
	defer f.Close()

	for _, docno := range l.buffered {
		if err := binary.Write(f, binary.LittleEndian, docno); err != nil {
			return false, fmt.Errorf("writing checkpoint file %s: %w", path, err)
		}
	}

	l.persisted = total
	l.buffered = l.buffered[:0]
	return true, nil
}

// ReadAll concatenates every "<prefix>_<n>.bin" checkpoint file under dir
// in ascending numeric suffix order. limit, if positive, caps the number
// of DocNos returned.
func ReadAll(dir, prefix string, limit int) ([]int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing download log dir %s: %w", dir, err)
	}

	seqs := make([]int, 0, len(entries))
	byN := make(map[int]string, len(entries))
	want := prefix + "_"
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, want) || !strings.HasSuffix(name, ".bin") {
			continue
		}
		numStr := strings.TrimSuffix(strings.TrimPrefix(name, want), ".bin")
		n, err := strconv.Atoi(numStr)
		if err != nil {
			continue
		}
		seqs = append(seqs, n)
		byN[n] = name
	}
	sort.Ints(seqs)

	var docnos []int64
	for _, n := range seqs {
		path := filepath.Join(dir, byN[n])
		chunk, err := readCheckpoint(path)
		if err != nil {
			return nil, fmt.Errorf("reading checkpoint file %s: %w", path, err)
		}
		docnos = append(docnos, chunk...)
		if limit > 0 && len(docnos) >= limit {
			return docnos[:limit], nil
		}
	}
	return docnos, nil
}

func readCheckpoint(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []int64
	for {
		var v int64
		if err := binary.Read(f, binary.LittleEndian, &v); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
