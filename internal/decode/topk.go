package decode

import (
	"container/heap"
	"sort"
)

// Path is one candidate sentence prefix and its accumulated cost.
type Path struct {
	Text string
	Cost float64
}

type entry struct {
	path Path
	seq  int // insertion order, breaks cost ties
	pos  int // index in the heap
}

// worse orders entries by cost, then by insertion order.
func worse(a, b *entry) bool {
	if a.path.Cost != b.path.Cost {
		return a.path.Cost > b.path.Cost
	}
	return a.seq > b.seq
}

// pathHeap keeps the worst retained entry on top.
type pathHeap []*entry

func (h pathHeap) Len() int           { return len(h) }
func (h pathHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h pathHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].pos = i
	h[j].pos = j
}

func (h *pathHeap) Push(x any) {
	e := x.(*entry)
	e.pos = len(*h)
	*h = append(*h, e)
}

func (h *pathHeap) Pop() any {
	old := *h
	e := old[len(old)-1]
	*h = old[:len(old)-1]
	return e
}

// TopK retains the k cheapest paths offered to it. Equal costs keep the path
// offered first. A path text offered twice keeps its cheaper cost.
type TopK struct {
	k      int
	seq    int
	h      pathHeap
	byText map[string]*entry
}

// NewTopK returns an empty container of capacity k (at least 1).
func NewTopK(k int) *TopK {
	if k < 1 {
		k = 1
	}
	return &TopK{k: k, byText: make(map[string]*entry, k)}
}

// Offer adds a path if it ranks among the k cheapest seen so far and reports
// whether it was retained.
func (t *TopK) Offer(text string, cost float64) bool {
	if e, ok := t.byText[text]; ok {
		if cost < e.path.Cost {
			e.path.Cost = cost
			heap.Fix(&t.h, e.pos)
		}
		return true
	}

	e := &entry{path: Path{Text: text, Cost: cost}, seq: t.seq}
	t.seq++

	if len(t.h) < t.k {
		heap.Push(&t.h, e)
		t.byText[text] = e
		return true
	}
	if !worse(t.h[0], e) {
		return false
	}

	delete(t.byText, t.h[0].path.Text)
	e.pos = 0
	t.h[0] = e
	heap.Fix(&t.h, 0)
	t.byText[text] = e
	return true
}

// Len returns the number of retained paths.
func (t *TopK) Len() int { return len(t.h) }

// Paths returns the retained paths, cheapest first.
func (t *TopK) Paths() []Path {
	entries := make([]*entry, len(t.h))
	copy(entries, t.h)
	sort.Slice(entries, func(i, j int) bool { return worse(entries[j], entries[i]) })

	out := make([]Path, len(entries))
	for i, e := range entries {
		out[i] = e.path
	}
	return out
}
