package seenset

import (
	"errors"
	"testing"
)

func TestHashedMarkIdempotent(t *testing.T) {
	s := NewHashed()

	if marked, _ := s.IsMarked(7); marked {
		t.Fatalf("expected 7 to be unmarked initially")
	}

	if err := s.Mark(7); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if err := s.Mark(7); err != nil {
		t.Fatalf("Mark (repeat): %v", err)
	}

	marked, err := s.IsMarked(7)
	if err != nil {
		t.Fatalf("IsMarked: %v", err)
	}
	if !marked {
		t.Fatalf("expected 7 to be marked")
	}
	if got := s.Count(); got != 1 {
		t.Fatalf("Count() = %d, want 1", got)
	}
}

func TestHashedUnboundedCapacity(t *testing.T) {
	s := NewHashed()
	if err := s.Mark(1 << 30); err != nil {
		t.Fatalf("Mark of large docid: %v", err)
	}
}

func TestBitmapMarkAndCount(t *testing.T) {
	b := NewBitmap(128)

	for _, docid := range []int{0, 1, 63, 64, 127} {
		if err := b.Mark(docid); err != nil {
			t.Fatalf("Mark(%d): %v", docid, err)
		}
	}
	// Re-marking must not inflate the count.
	if err := b.Mark(0); err != nil {
		t.Fatalf("Mark(0) repeat: %v", err)
	}

	if got := b.Count(); got != 5 {
		t.Fatalf("Count() = %d, want 5", got)
	}

	marked, err := b.IsMarked(64)
	if err != nil {
		t.Fatalf("IsMarked(64): %v", err)
	}
	if !marked {
		t.Fatalf("expected 64 to be marked")
	}

	marked, err = b.IsMarked(65)
	if err != nil {
		t.Fatalf("IsMarked(65): %v", err)
	}
	if marked {
		t.Fatalf("expected 65 to be unmarked")
	}
}

func TestBitmapOutOfRange(t *testing.T) {
	b := NewBitmap(8)

	if err := b.Mark(8); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Mark(8) error = %v, want ErrOutOfRange", err)
	}
	if err := b.Mark(-1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Mark(-1) error = %v, want ErrOutOfRange", err)
	}
	if _, err := b.IsMarked(8); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("IsMarked(8) error = %v, want ErrOutOfRange", err)
	}
}
