package linkheap

// sizeClass returns floor(log2(size)), the free-list bucket for a chunk of
// size bytes. size must be >= 1.
func sizeClass(size uint32) (class int) {
	class = -1
	for ; size > 0; size >>= 1 {
		class++
	}
	return
}

// classOf is the bucket a free chunk of size bytes lives in. Chunks past the
// table width share the last bucket.
func (h *Heap) classOf(size uint32) int {
	return min(sizeClass(size), len(h.free)-1)
}

// pushFree threads a free chunk into the bucket matching its current size.
func (h *Heap) pushFree(c uint32) {
	n := h.freeNode(c)
	h.mem.listInit(n)
	h.mem.listPush(&h.free[h.classOf(h.chunkSize(c))], n)
}

// popFree detaches the head chunk of a non-empty bucket.
func (h *Heap) popFree(class int) uint32 {
	return h.chunkOfFree(h.mem.listPop(&h.free[class]))
}

// removeFree detaches a free chunk from its bucket. It must be called while
// the chunk still has the size it was pushed with.
func (h *Heap) removeFree(c uint32) {
	h.mem.listRemoveFrom(&h.free[h.classOf(h.chunkSize(c))], h.freeNode(c))
}

// findClass returns the first non-empty bucket at or above class, or -1.
func (h *Heap) findClass(class int) int {
	for ; class < len(h.free); class++ {
		if h.free[class] != nilRef {
			return class
		}
	}
	return -1
}

// Buckets returns the number of free chunks in every size class.
func (h *Heap) Buckets() []int {
	counts := make([]int, len(h.free))
	for class, head := range h.free {
		if head == nilRef {
			continue
		}
		n := head
		for {
			counts[class]++
			n = h.mem.next(n)
			if n == head {
				break
			}
		}
	}
	return counts
}
