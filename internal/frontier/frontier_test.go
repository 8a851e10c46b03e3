package frontier

import (
	"errors"
	"testing"
)

func popAll(t *testing.T, f Frontier) []string {
	t.Helper()
	var out []string
	for {
		url, err := f.Pop()
		if errors.Is(err, ErrEmpty) {
			return out
		}
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		out = append(out, url)
	}
}

func TestBFSOrder(t *testing.T) {
	f := NewBFS()
	urls := []string{"a", "b", "c", "d"}
	for _, u := range urls {
		if err := f.Add(u, 0); err != nil {
			t.Fatalf("Add(%s): %v", u, err)
		}
	}
	if got := f.Size(); got != 4 {
		t.Fatalf("Size() = %d, want 4", got)
	}

	got := popAll(t, f)
	for i, u := range urls {
		if got[i] != u {
			t.Fatalf("pop order[%d] = %s, want %s", i, got[i], u)
		}
	}
	if f.Size() != 0 {
		t.Fatalf("Size() after drain = %d, want 0", f.Size())
	}
}

func TestDFSOrder(t *testing.T) {
	f := NewDFS()
	urls := []string{"a", "b", "c", "d"}
	for _, u := range urls {
		if err := f.Add(u, 0); err != nil {
			t.Fatalf("Add(%s): %v", u, err)
		}
	}

	got := popAll(t, f)
	want := []string{"d", "c", "b", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBFSDuplicateAddIgnored(t *testing.T) {
	f := NewBFS()
	_ = f.Add("a", 0)
	_ = f.Add("a", 0)
	if got := f.Size(); got != 1 {
		t.Fatalf("Size() = %d, want 1 after duplicate Add", got)
	}
}

func TestRandomPopsEveryItemExactlyOnce(t *testing.T) {
	f := NewRandom(42)
	urls := []string{"a", "b", "c", "d", "e"}
	for _, u := range urls {
		_ = f.Add(u, 0)
	}

	seen := make(map[string]bool)
	for i := 0; i < len(urls); i++ {
		url, err := f.Pop()
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if seen[url] {
			t.Fatalf("url %s popped twice", url)
		}
		seen[url] = true
	}
	if _, err := f.Pop(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Pop on drained frontier: %v", err)
	}
}

func TestQualityHeapPopsHighestFirst(t *testing.T) {
	q := NewQualityHeap()
	_ = q.Add("low", -1.0)
	_ = q.Add("high", 0.9)
	_ = q.Add("mid", 0.2)

	got := popAll(t, q)
	want := []string{"high", "mid", "low"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestQualityHeapUpdateUnsupported(t *testing.T) {
	q := NewQualityHeap()
	_ = q.Add("a", 0.1)
	if _, err := q.Update("a", 0.9); !errors.Is(err, ErrUpdatesUnsupported) {
		t.Fatalf("Update error = %v, want ErrUpdatesUnsupported", err)
	}
}

func TestQualityUpdatingRevisesPriority(t *testing.T) {
	q := NewQualityUpdating()
	_ = q.Add("a", 0.1)
	_ = q.Add("b", 0.5)

	changed, err := q.Update("a", 0.9)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !changed {
		t.Fatalf("Update should report a change when priority improves")
	}

	// a revision that does not improve the priority is a no-op.
	changed, err = q.Update("a", 0.2)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if changed {
		t.Fatalf("Update should report no change for a non-improving priority")
	}

	got := popAll(t, q)
	want := []string{"a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestQualityUpdatingSizeTracksDistinctURLs(t *testing.T) {
	q := NewQualityUpdating()
	_ = q.Add("a", 0.1)
	_ = q.Add("a", 0.1)
	_, _ = q.Update("a", 0.4)
	if got := q.Size(); got != 1 {
		t.Fatalf("Size() = %d, want 1", got)
	}

	if _, err := q.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if got := q.Size(); got != 0 {
		t.Fatalf("Size() after Pop = %d, want 0", got)
	}
}

func TestQualityUpdatingCompactionPreservesBestPriority(t *testing.T) {
	q := NewQualityUpdating()
	_ = q.Add("a", 0.1)
	for i := 0; i < 5; i++ {
		_, _ = q.Update("a", float64(i)+1)
	}
	// force a compaction well below the real threshold to exercise the
	// rebuild path directly, without looping maxStale times.
	q.stale = maxStale
	q.compact()

	if got := q.h.Len(); got != 1 {
		t.Fatalf("heap length after compaction = %d, want 1", got)
	}
	url, err := q.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if url != "a" {
		t.Fatalf("Pop() = %s, want a", url)
	}
}
