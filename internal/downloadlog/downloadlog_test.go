package downloadlog

import "testing"

func TestCheckpointCadence(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, "downloaded", 2)

	l.Append(10)
	if flushed, err := l.Checkpoint(false); err != nil || flushed {
		t.Fatalf("Checkpoint before reaching saveEveryN: flushed=%v err=%v", flushed, err)
	}

	l.Append(11)
	flushed, err := l.Checkpoint(false)
	if err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}
	if !flushed {
		t.Fatalf("expected checkpoint 1 to flush at saveEveryN boundary")
	}

	l.Append(12)
	flushed, err = l.Checkpoint(true)
	if err != nil {
		t.Fatalf("final Checkpoint: %v", err)
	}
	if !flushed {
		t.Fatalf("expected final Checkpoint to flush the trailing partial batch")
	}

	docnos, err := ReadAll(dir, "downloaded", 0)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	want := []int64{10, 11, 12}
	if len(docnos) != len(want) {
		t.Fatalf("ReadAll returned %d docnos, want %d", len(docnos), len(want))
	}
	for i, v := range want {
		if docnos[i] != v {
			t.Fatalf("docnos[%d] = %d, want %d", i, docnos[i], v)
		}
	}
}

func TestReadAllRespectsLimit(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, "downloaded", 2)
	for i := int64(0); i < 6; i++ {
		l.Append(i)
	}
	if _, err := l.Checkpoint(true); err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}

	docnos, err := ReadAll(dir, "downloaded", 4)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(docnos) != 4 {
		t.Fatalf("ReadAll with limit returned %d docnos, want 4", len(docnos))
	}
}

func TestReadAllOnMissingDir(t *testing.T) {
	docnos, err := ReadAll("/nonexistent/path/for/test", "downloaded", 0)
	if err != nil {
		t.Fatalf("ReadAll on missing dir: %v", err)
	}
	if docnos != nil {
		t.Fatalf("expected nil result for missing dir, got %v", docnos)
	}
}
