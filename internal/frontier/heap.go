package frontier

// MaxPriority and MinPriority are the ends of the quality-score priority
// scale. Neither quality frontier applies them: a priority is ranked
// exactly as passed to Add or Update, and no caller clamps a score into
// this range.
const (
	MaxPriority = 1.0
	MinPriority = -50.0
)

// heapEntry is one (priority, url) pair tracked by a binary heap. Go's
// container/heap is a min-heap, so entryHeap.Less is inverted to rank by
// priority descending.
type heapEntry struct {
	priority float64
	url      string
}

// entryHeap implements container/heap.Interface over heapEntry, always
// surfacing the highest-priority entry at index 0.
type entryHeap []heapEntry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].priority > h[j].priority }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(heapEntry)) }
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
