package frontier

import "container/heap"

// maxStale is the number of obsolete heap entries QualityUpdating
// tolerates before rebuilding the heap from its side table.
const maxStale = 10_000_000

// trackedURL is the side-table row the lazy-deletion scheme keeps per
// URL: the best priority seen for it, and how many heap entries for it
// are now stale because a better priority superseded them.
type trackedURL struct {
	bestPriority float64
	staleCount   int
}

// QualityUpdating pops the highest-priority URL first and accepts
// priority revisions for URLs it already tracks. Rather than reheapify
// on every update, a superseding priority pushes a fresh heap entry and
// marks the old one stale; stale entries are discarded lazily as they
// surface at the top of the heap. Only the oracle update path (a page's
// own quality score) is implemented — there is no second priority
// signal in this simulator for a non-oracle path to rank by.
type QualityUpdating struct {
	h     entryHeap
	table map[string]*trackedURL
	stale int
}

// NewQualityUpdating creates an empty updating quality frontier.
func NewQualityUpdating() *QualityUpdating {
	return &QualityUpdating{
		h:     make(entryHeap, 0),
		table: make(map[string]*trackedURL),
	}
}

func (q *QualityUpdating) Add(url string, priority float64) error {
	if _, exists := q.table[url]; exists {
		return nil
	}
	q.table[url] = &trackedURL{bestPriority: priority}
	heap.Push(&q.h, heapEntry{priority: priority, url: url})
	return nil
}

// Update raises the priority of a URL this frontier has tracked before.
// If the URL isn't in the table, it has already been popped — a URL is
// never re-enqueued once downloaded, so this is a no-op rather than a
// fresh Add. A revision that does not improve on the current best
// priority is likewise a no-op: callers only ever update with a page's
// own (fixed) quality score, so a later arrival at the same or lower
// priority carries no new information.
func (q *QualityUpdating) Update(url string, priority float64) (bool, error) {
	row, exists := q.table[url]
	if !exists {
		return false, nil
	}
	if priority <= row.bestPriority {
		return false, nil
	}

	row.staleCount++
	row.bestPriority = priority
	q.stale++
	heap.Push(&q.h, heapEntry{priority: priority, url: url})

	if q.stale >= maxStale {
		q.compact()
	}
	return true, nil
}

func (q *QualityUpdating) Pop() (string, error) {
	for q.h.Len() > 0 {
		entry := heap.Pop(&q.h).(heapEntry)
		row, exists := q.table[entry.url]
		if !exists {
			// popped after its URL was already returned by an earlier Pop.
			continue
		}
		if entry.priority < row.bestPriority {
			row.staleCount--
			q.stale--
			continue
		}
		delete(q.table, entry.url)
		return entry.url, nil
	}
	return "", ErrEmpty
}

func (q *QualityUpdating) Size() int {
	return len(q.table)
}

// compact rebuilds the heap from the side table, dropping every stale
// entry in one pass instead of skipping them one Pop at a time.
func (q *QualityUpdating) compact() {
	fresh := make(entryHeap, 0, len(q.table))
	for url, row := range q.table {
		fresh = append(fresh, heapEntry{priority: row.bestPriority, url: url})
		row.staleCount = 0
	}
	heap.Init(&fresh)
	q.h = fresh
	q.stale = 0
}
