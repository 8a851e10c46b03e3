package frontier

import "container/heap"

// QualityHeap pops the highest-priority URL first and never revises a
// priority once inserted. A duplicate Add is absorbed silently, keeping
// the first priority it was inserted with; callers that want revisions
// use QualityUpdating instead.
type QualityHeap struct {
	h       entryHeap
	tracked map[string]struct{}
}

// NewQualityHeap creates an empty immutable quality frontier.
func NewQualityHeap() *QualityHeap {
	return &QualityHeap{
		h:       make(entryHeap, 0),
		tracked: make(map[string]struct{}),
	}
}

func (q *QualityHeap) Add(url string, priority float64) error {
	if _, exists := q.tracked[url]; exists {
		return nil
	}
	q.tracked[url] = struct{}{}
	heap.Push(&q.h, heapEntry{priority: priority, url: url})
	return nil
}

func (q *QualityHeap) Update(url string, priority float64) (bool, error) {
	return false, ErrUpdatesUnsupported
}

func (q *QualityHeap) Pop() (string, error) {
	if q.h.Len() == 0 {
		return "", ErrEmpty
	}
	entry := heap.Pop(&q.h).(heapEntry)
	delete(q.tracked, entry.url)
	return entry.url, nil
}

func (q *QualityHeap) Size() int {
	return len(q.tracked)
}
