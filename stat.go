package linkheap

// Stat is a point-in-time summary of a heap.
type Stat struct {
	Span      uint64 `json:"span"`
	Capacity  uint64 `json:"capacity"`
	FreeBytes uint64 `json:"freeBytes"`
	UsedBytes uint64 `json:"usedBytes"`
	MetaBytes uint64 `json:"metaBytes"`

	// Chunks counts every chunk except the two sentinels.
	Chunks      int    `json:"chunks"`
	FreeChunks  int    `json:"freeChunks"`
	LargestFree uint64 `json:"largestFree"`
	Buckets     int    `json:"buckets"`
}

// Stat walks the address list, O(n) in the number of chunks.
func (h *Heap) Stat() (stat Stat) {
	stat.Span = h.Span()
	stat.Capacity = h.Capacity()
	stat.FreeBytes = h.freeBytes
	stat.UsedBytes = h.usedBytes
	stat.MetaBytes = h.metaBytes

	h.walk(func(_, size uint32, used bool) bool {
		stat.Chunks++
		if !used {
			stat.FreeChunks++
			stat.LargestFree = max(stat.LargestFree, uint64(size))
		}
		return true
	})
	for _, head := range h.free {
		if head != nilRef {
			stat.Buckets++
		}
	}
	return
}

// Usage is the share of the capacity handed out to callers, in percent.
func (s Stat) Usage() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.UsedBytes) / float64(s.Capacity) * 100
}

// Fragmentation is the share of free bytes outside the largest free chunk, in percent.
func (s Stat) Fragmentation() float64 {
	if s.FreeBytes == 0 {
		return 0
	}
	return (1 - float64(s.LargestFree)/float64(s.FreeBytes)) * 100
}

// walk calls f for every chunk between the sentinels in address order.
func (h *Heap) walk(f func(c, size uint32, used bool) bool) {
	if h.mem == nil {
		return
	}
	for c := h.chunkNext(h.first); c != h.last; c = h.chunkNext(c) {
		if !f(c, h.chunkSize(c), h.used(c)) {
			return
		}
	}
}
