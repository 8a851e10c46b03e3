// Package corpus loads the immutable URL<->DocId<->DocNo mapping that
// addresses a pre-enumerated document collection.
package corpus

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zlib"
)

// Index is the bijective URL<->DocId mapping, augmented with a dense,
// insertion-order DocNo. It is read-mostly and safe to share by reference
// across components once built.
type Index struct {
	url2docid map[string]string
	url2docno map[string]int
	docno2url []string
	docno2id  []string
}

// Load reads a single binary file containing zlib-compressed, length-
// prefixed UTF-8 URL/DocId pairs and builds an Index.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus index %s: %w", path, err)
	}
	defer f.Close()

	zr, err := zlib.NewReader(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decompressing corpus index %s: %w", path, err)
	}
	defer zr.Close()

	return decode(zr)
}

// decode parses the length-prefixed URL/DocId pair stream produced by the
// matching Dump function (and by the external corpus-layout preprocessor).
func decode(r io.Reader) (*Index, error) {
	br := bufio.NewReader(r)

	var count uint64
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("reading corpus index header: %w", err)
	}

	idx := &Index{
		url2docid: make(map[string]string, count),
		url2docno: make(map[string]int, count),
		docno2url: make([]string, 0, count),
		docno2id:  make([]string, 0, count),
	}

	for i := uint64(0); i < count; i++ {
		url, err := readString(br)
		if err != nil {
			return nil, fmt.Errorf("reading url at index %d: %w", i, err)
		}
		docid, err := readString(br)
		if err != nil {
			return nil, fmt.Errorf("reading docid at index %d: %w", i, err)
		}

		if _, exists := idx.url2docid[url]; exists {
			return nil, fmt.Errorf("duplicate url %q in corpus index (bijection violated)", url)
		}

		docno := len(idx.docno2url)
		idx.url2docid[url] = docid
		idx.url2docno[url] = docno
		idx.docno2url = append(idx.docno2url, url)
		idx.docno2id = append(idx.docno2id, docid)
	}

	return idx, nil
}

// Dump writes the length-prefixed URL/DocId pair stream decode expects,
// uncompressed; callers needing the on-disk zlib framing wrap w in a
// zlib.Writer themselves. Used by the corpus-layout preprocessor and by
// this package's own round-trip tests.
func Dump(w io.Writer, urls, docids []string) error {
	if len(urls) != len(docids) {
		return fmt.Errorf("urls/docids length mismatch (%d vs %d)", len(urls), len(docids))
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(urls))); err != nil {
		return fmt.Errorf("writing corpus index header: %w", err)
	}
	for i, url := range urls {
		if err := writeString(w, url); err != nil {
			return fmt.Errorf("writing url at index %d: %w", i, err)
		}
		if err := writeString(w, docids[i]); err != nil {
			return fmt.Errorf("writing docid at index %d: %w", i, err)
		}
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readString(r *bufio.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// URLToDocID returns the DocId for a URL, and false if the URL is absent
// from the index (a NotFound condition, not a fatal error).
func (idx *Index) URLToDocID(url string) (string, bool) {
	docid, ok := idx.url2docid[url]
	return docid, ok
}

// URLToDocNo returns the DocNo for a URL, and false if absent.
func (idx *Index) URLToDocNo(url string) (int, bool) {
	docno, ok := idx.url2docno[url]
	return docno, ok
}

// DocNoToURL returns the URL for a DocNo, and false if out of range.
func (idx *Index) DocNoToURL(docno int) (string, bool) {
	if docno < 0 || docno >= len(idx.docno2url) {
		return "", false
	}
	return idx.docno2url[docno], true
}

// DocNoToDocID returns the DocId for a DocNo, and false if out of range.
func (idx *Index) DocNoToDocID(docno int) (string, bool) {
	if docno < 0 || docno >= len(idx.docno2id) {
		return "", false
	}
	return idx.docno2id[docno], true
}

// Len returns the number of URLs in the index.
func (idx *Index) Len() int {
	return len(idx.docno2url)
}
